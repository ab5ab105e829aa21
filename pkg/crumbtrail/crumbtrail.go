// Package crumbtrail provides a public Go API for breadcrumb filters.
//
// A filter is attached to an owner, typically a module or controller, and
// appends the owner's breadcrumb entry to a request's view parameters when
// a web action runs. Chaining the filters of every module from the
// application down to the controller yields the full trail.
//
// Basic usage:
//
//	app := crumbtrail.NewApplication("app")
//	admin := crumbtrail.NewModule("admin", app)
//	admin.SetProperty("title", "Administration")
//
//	f, err := crumbtrail.NewFilter(admin, crumbtrail.WithLabelParam("title"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	req := crumbtrail.NewRequest("admin/users/index")
//	if err := f.BeforeAction(ctx, req); err != nil {
//	    log.Fatal(err)
//	}
//
// With a site file:
//
//	s, err := crumbtrail.LoadSite("site.yaml", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entries, err := crumbtrail.Trail(ctx, s, "admin/users/profile/view")
package crumbtrail

import (
	"context"
	"log/slog"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/owner"
	"github.com/hupe1980/crumbtrail/internal/site"
)

type (
	// Filter builds one owner's breadcrumb entry.
	Filter = breadcrumb.Filter
	// Config is the full filter configuration.
	Config = breadcrumb.Config
	// Entry is one element of a trail.
	Entry = breadcrumb.Entry
	// Request carries the routing context and view parameters of a dispatch.
	Request = breadcrumb.Request
	// Owner is anything a filter can be attached to.
	Owner = breadcrumb.Owner
	// PropertyOwner exposes named properties used as labels.
	PropertyOwner = breadcrumb.PropertyOwner
	// MethodOwner exposes named route methods.
	MethodOwner = breadcrumb.MethodOwner
	// URLResolver turns routes into URLs.
	URLResolver = breadcrumb.URLResolver
	// URLResolverFunc adapts a function to URLResolver.
	URLResolverFunc = breadcrumb.URLResolverFunc
	// RouteFunc computes an owner's route.
	RouteFunc = breadcrumb.RouteFunc
	// Module is a module in an application's module tree.
	Module = owner.Module
	// Site is a module tree built from a site file.
	Site = site.Site
)

// Errors reported by filters.
var (
	ErrMissingProperty = breadcrumb.ErrMissingProperty
	ErrMissingMethod   = breadcrumb.ErrMissingMethod
	ErrInvalidConfig   = breadcrumb.ErrInvalidConfig
	ErrRouteNotFound   = site.ErrRouteNotFound
)

// Controller kinds. Filters only act on web controllers.
const (
	ControllerWeb     = breadcrumb.ControllerWeb
	ControllerConsole = breadcrumb.ControllerConsole
)

// NewRequest creates a web request for route with empty view parameters.
func NewRequest(route string) *Request { return breadcrumb.NewRequest(route) }

// NewApplication creates the root module of a module tree.
func NewApplication(id string) *Module { return owner.NewApplication(id) }

// NewModule creates a module below parent.
func NewModule(id string, parent *Module) *Module { return owner.NewModule(id, parent) }

// NewMapOwner creates an owner backed by a property map.
func NewMapOwner(id string, properties map[string]interface{}) *owner.Map {
	return owner.NewMap(id, properties)
}

// NewStructOwner creates an owner exposing the fields and route methods of
// a struct value.
func NewStructOwner(id string, v interface{}) (*owner.Struct, error) {
	return owner.NewStruct(id, v)
}

// Option configures a filter created by NewFilter.
type Option func(*options)

type options struct {
	cfg  breadcrumb.Config
	opts []breadcrumb.Option
}

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLabel sets a fixed label instead of reading an owner property.
func WithLabel(label string) Option {
	return func(o *options) { o.cfg.Label = label }
}

// WithLabelParam sets the owner property used as label.
func WithLabelParam(name string) Option {
	return func(o *options) { o.cfg.LabelParam = name }
}

// WithParam sets the view parameter holding the trail.
func WithParam(name string) Option {
	return func(o *options) { o.cfg.BreadcrumbsParam = name }
}

// WithKey stores the entry under key instead of appending it.
func WithKey(key string) Option {
	return func(o *options) { o.cfg.BreadcrumbsKey = key }
}

// WithDefaultRoute sets the "controller/action" pattern that marks the
// owner's entry active.
func WithDefaultRoute(pattern string) Option {
	return func(o *options) { o.cfg.DefaultRoute = breadcrumb.DefaultRouteOf(pattern) }
}

// WithoutDefaultRoute disables active entries.
func WithoutDefaultRoute() Option {
	return func(o *options) { o.cfg.DefaultRoute = breadcrumb.NoDefaultRoute }
}

// WithExceptRoutes sets the routes that get no entry. "*" rejects all.
func WithExceptRoutes(patterns ...string) Option {
	return func(o *options) { o.cfg.ExceptRoutes = append([]string(nil), patterns...) }
}

// WithRegexMatching compares except routes as regular expressions instead
// of substrings.
func WithRegexMatching() Option {
	return func(o *options) { o.cfg.MatchPolicy = breadcrumb.MatchRegex }
}

// WithRouteMethod names the owner method producing the entry's route.
func WithRouteMethod(name string) Option {
	return func(o *options) { o.cfg.RouteCreator = breadcrumb.MethodRoute(name) }
}

// WithRouteFunc computes the entry's route with fn.
func WithRouteFunc(fn RouteFunc) Option {
	return func(o *options) { o.cfg.RouteCreator = breadcrumb.FuncRoute(fn) }
}

// WithRoute links the entry to a fixed route. An empty route yields an
// entry without URL.
func WithRoute(route string) Option {
	return func(o *options) { o.cfg.RouteCreator = breadcrumb.StaticRoute(route) }
}

// WithURLResolver sets the resolver turning routes into URLs.
func WithURLResolver(r URLResolver) Option {
	return func(o *options) { o.opts = append(o.opts, breadcrumb.WithURLResolver(r)) }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.opts = append(o.opts, breadcrumb.WithLogger(l)) }
}

// NewFilter creates a filter for owner, starting from the default
// configuration.
func NewFilter(o Owner, opts ...Option) (*Filter, error) {
	cfg := &options{cfg: breadcrumb.DefaultConfig()}

	for _, opt := range opts {
		opt(cfg)
	}

	return breadcrumb.New(o, cfg.cfg, cfg.opts...)
}

// DefaultConfig returns the default filter configuration.
func DefaultConfig() Config { return breadcrumb.DefaultConfig() }

// LoadSite reads, validates and builds a site file.
func LoadSite(path string, logger *slog.Logger) (*Site, error) {
	f, err := site.Load(path)
	if err != nil {
		return nil, err
	}

	var opts []site.BuildOption
	if logger != nil {
		opts = append(opts, site.WithLogger(logger))
	}

	return site.Build(f, opts...)
}

// Trail dispatches route against s and returns the entries of the default
// breadcrumbs parameter in order.
func Trail(ctx context.Context, s *Site, route string) ([]Entry, error) {
	d, err := s.Dispatch(ctx, route)
	if err != nil {
		return nil, err
	}

	return d.Trail(breadcrumb.DefaultBreadcrumbsParam), nil
}
