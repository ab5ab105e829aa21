// Package breadcrumb implements a before-action filter that contributes one
// breadcrumb entry for its owner to the current view's parameter bag.
//
// A [Filter] is bound to an [Owner] (typically a module) and a [Config]. For
// every web request it either rejects the request (see Config.ExceptRoutes)
// or builds an [Entry] from the owner's label and route and writes it into
// the request's view bag, appended or under an explicit key.
//
// Basic usage:
//
//	f, err := breadcrumb.New(module, breadcrumb.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	req := breadcrumb.NewRequest("admin/users/profile/view")
//	req.ModuleID, req.ControllerID, req.ActionID = "users", "profile", "view"
//
//	if err := f.BeforeAction(ctx, req); err != nil {
//	    return err
//	}
//
// Filters hold no per-request state and may be reused across requests; the
// idempotency guard lives on the [Request].
package breadcrumb
