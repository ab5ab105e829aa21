package breadcrumb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cast"

	"github.com/hupe1980/crumbtrail/internal/view"
)

// Entry is one breadcrumb trail element. Active entries have no URL; an
// inactive entry with an empty URL is rendered without link.
type Entry struct {
	Label  string `json:"label"`
	URL    string `json:"url,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// Linked reports whether the entry carries a URL.
func (e Entry) Linked() bool { return e.URL != "" }

// URLResolver turns an absolute route ("/admin/users") into a URL.
type URLResolver interface {
	Resolve(route string) string
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(route string) string

// Resolve calls fn(route).
func (fn URLResolverFunc) Resolve(route string) string { return fn(route) }

// identityResolver returns routes unchanged.
var identityResolver = URLResolverFunc(func(route string) string { return route })

// Option configures a Filter.
type Option func(*Filter)

// WithURLResolver sets the resolver used for entry URLs.
func WithURLResolver(r URLResolver) Option {
	return func(f *Filter) {
		if r != nil {
			f.resolver = r
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// Filter appends its owner's breadcrumb to the request's view bag.
type Filter struct {
	owner    Owner
	cfg      Config
	except   []exceptRule
	resolver URLResolver
	logger   *slog.Logger
}

// New binds cfg to owner. It validates the configuration, compiles the
// except routes and checks that owner has the capabilities cfg relies on.
func New(owner Owner, cfg Config, opts ...Option) (*Filter, error) {
	if owner == nil {
		return nil, &ConfigError{Field: fieldOwner, Reason: "must not be nil"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Label == "" {
		if _, ok := owner.(PropertyOwner); !ok {
			return nil, &OwnerError{OwnerID: owner.ID(), Member: cfg.LabelParam, Err: ErrMissingProperty}
		}
	}

	if method, ok := cfg.RouteCreator.Method(); ok {
		if _, ok := owner.(MethodOwner); !ok {
			return nil, &OwnerError{OwnerID: owner.ID(), Member: method, Err: ErrMissingMethod}
		}
	}

	except, err := compileExcept(cfg.ExceptRoutes, cfg.MatchPolicy)
	if err != nil {
		return nil, err
	}

	cfg.ExceptRoutes = append([]string(nil), cfg.ExceptRoutes...)

	f := &Filter{
		owner:    owner,
		cfg:      cfg,
		except:   except,
		resolver: identityResolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Owner returns the filter's owner.
func (f *Filter) Owner() Owner { return f.owner }

// Config returns a copy of the filter's configuration.
func (f *Filter) Config() Config {
	cfg := f.cfg
	cfg.ExceptRoutes = append([]string(nil), f.cfg.ExceptRoutes...)

	return cfg
}

func (f *Filter) String() string {
	return fmt.Sprintf("%s(%s)", f.cfg.BreadcrumbsParam, f.owner.ID())
}

// BeforeAction runs BuildBreadcrumbs once per request for web controllers.
// Further calls with the same request are no-ops once a run succeeded; a
// failed run leaves the request unprocessed.
func (f *Filter) BeforeAction(ctx context.Context, req *Request) error {
	if req.Kind != ControllerWeb {
		return nil
	}

	if !req.markProcessed(f) {
		return nil
	}

	if _, _, err := f.BuildBreadcrumbs(ctx, req); err != nil {
		req.unmarkProcessed(f)
		return err
	}

	return nil
}

// BuildBreadcrumbs writes the owner's entry into req.View unless the
// requested route is rejected. It reports whether an entry was written.
func (f *Filter) BuildBreadcrumbs(ctx context.Context, req *Request) (Entry, bool, error) {
	if len(f.except) > 0 && f.Reject(req.Route) {
		f.logger.DebugContext(ctx, "breadcrumb rejected",
			slog.String("request", req.ID),
			slog.String("owner", f.owner.ID()),
			slog.String("route", req.Route),
		)

		return Entry{}, false, nil
	}

	entry, err := f.Breadcrumbs(req)
	if err != nil {
		return Entry{}, false, err
	}

	if req.View == nil {
		req.View = view.NewParams()
	}

	trail, err := req.View.Trail(f.cfg.BreadcrumbsParam)
	if err != nil {
		return Entry{}, false, err
	}

	key := f.cfg.BreadcrumbsKey
	if key != "" {
		trail.Set(key, entry)
	} else {
		key = trail.Append(entry)
	}

	f.logger.DebugContext(ctx, "breadcrumb emitted",
		slog.String("request", req.ID),
		slog.String("owner", f.owner.ID()),
		slog.String("param", f.cfg.BreadcrumbsParam),
		slog.String("key", key),
		slog.String("label", entry.Label),
		slog.Bool("active", entry.Active),
	)

	return entry, true, nil
}

// Reject reports whether route matches any except route.
func (f *Filter) Reject(route string) bool {
	for _, rule := range f.except {
		if rule.matches(route) {
			return true
		}
	}

	return false
}

// Breadcrumbs builds the owner's entry for req without consulting the
// except routes and without touching the view bag.
func (f *Filter) Breadcrumbs(req *Request) (Entry, error) {
	label, err := f.Label()
	if err != nil {
		return Entry{}, err
	}

	if f.IsActive(req) {
		return Entry{Label: label, Active: true}, nil
	}

	route, err := f.Route()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Label: label}
	if route != "" {
		entry.URL = f.resolver.Resolve("/" + route)
	}

	return entry, nil
}

// Label returns the configured label or the owner's LabelParam property.
func (f *Filter) Label() (string, error) {
	if f.cfg.Label != "" {
		return f.cfg.Label, nil
	}

	name := f.cfg.LabelParam

	po, ok := f.owner.(PropertyOwner)
	if !ok || !po.HasProperty(name) {
		return "", &OwnerError{OwnerID: f.owner.ID(), Member: name, Err: ErrMissingProperty}
	}

	v, err := po.Property(name)
	if err != nil {
		return "", fmt.Errorf("reading owner property %q: %w", name, err)
	}

	label, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("owner property %q as label: %w", name, err)
	}

	return label, nil
}

// IsActive reports whether req targets the owner's default route on the
// owner's own module.
func (f *Filter) IsActive(req *Request) bool {
	if !f.cfg.DefaultRoute.Enabled() {
		return false
	}

	return f.owner.ID() == req.ModuleID &&
		strings.Contains(f.cfg.DefaultRoute.Pattern(), req.ControllerAction())
}

// Route returns the owner's route as produced by the route creator.
func (f *Filter) Route() (string, error) {
	rc := f.cfg.RouteCreator

	if rc.fn != nil {
		return rc.fn(f)
	}

	if rc.method == "" {
		return "", &ConfigError{Field: fieldRouteCreator, Reason: "must be an owner method name or a route func"}
	}

	mo, ok := f.owner.(MethodOwner)
	if !ok || !mo.HasMethod(rc.method) {
		return "", &OwnerError{OwnerID: f.owner.ID(), Member: rc.method, Err: ErrMissingMethod}
	}

	return mo.CallMethod(rc.method)
}
