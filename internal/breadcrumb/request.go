package breadcrumb

import (
	"github.com/google/uuid"

	"github.com/hupe1980/crumbtrail/internal/view"
)

// ControllerKind distinguishes web controllers from other controller kinds.
// Filters only act on web controllers.
type ControllerKind int

const (
	// ControllerWeb is a controller serving an HTTP request with a view.
	ControllerWeb ControllerKind = iota
	// ControllerConsole is a command-line controller without a view.
	ControllerConsole
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerWeb:
		return "web"
	case ControllerConsole:
		return "console"
	default:
		return "unknown"
	}
}

// Request is the routing context and per-request state of one dispatch.
type Request struct {
	// ID uniquely identifies the request in logs.
	ID string
	// Route is the requested route, e.g. "admin/users/default/index".
	Route string
	// ModuleID is the id of the module owning the current controller.
	ModuleID string
	// ControllerID is the id of the current controller.
	ControllerID string
	// ActionID is the id of the current action.
	ActionID string
	// Kind is the current controller's kind.
	Kind ControllerKind
	// View is the view parameter bag filters write into.
	View *view.Params

	processed map[*Filter]struct{}
}

// NewRequest creates a web request for route with an empty view bag.
func NewRequest(route string) *Request {
	return &Request{
		ID:    uuid.NewString(),
		Route: route,
		Kind:  ControllerWeb,
		View:  view.NewParams(),
	}
}

// ControllerAction returns "controllerID/actionID".
func (r *Request) ControllerAction() string {
	return r.ControllerID + "/" + r.ActionID
}

// Processed reports whether f already ran for this request.
func (r *Request) Processed(f *Filter) bool {
	_, ok := r.processed[f]
	return ok
}

// markProcessed records f and reports whether this is its first run.
func (r *Request) markProcessed(f *Filter) bool {
	if r.processed == nil {
		r.processed = make(map[*Filter]struct{})
	}

	if _, ok := r.processed[f]; ok {
		return false
	}

	r.processed[f] = struct{}{}

	return true
}

func (r *Request) unmarkProcessed(f *Filter) {
	delete(r.processed, f)
}
