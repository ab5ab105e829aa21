package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/filter"
	"github.com/hupe1980/crumbtrail/internal/owner"
	"github.com/hupe1980/crumbtrail/internal/urls"
)

// ErrRouteNotFound is returned when a route does not resolve to a
// controller and action of the site.
var ErrRouteNotFound = errors.New("route not found")

// Site is a built site file, ready to dispatch routes.
type Site struct {
	name   string
	urls   *urls.Manager
	root   *moduleNode
	logger *slog.Logger
}

type moduleNode struct {
	module            *owner.Module
	defaultController string
	filters           []filter.ActionFilter
	modules           map[string]*moduleNode
	controllers       map[string]*controllerNode
}

type controllerNode struct {
	id      string
	kind    breadcrumb.ControllerKind
	actions map[string]bool
	filters []filter.ActionFilter
}

// BuildOption configures Build.
type BuildOption func(*Site)

// WithLogger sets the logger used by the site and its filters.
func WithLogger(l *slog.Logger) BuildOption {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// Build creates the module tree and breadcrumb filters described by f.
func Build(f *File, opts ...BuildOption) (*Site, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	u := f.URLs

	s := &Site{
		name:   f.Name,
		urls:   &u,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	root, err := s.buildModule(&f.Application, nil)
	if err != nil {
		return nil, err
	}

	s.root = root

	return s, nil
}

func (s *Site) buildModule(spec *ModuleSpec, parent *owner.Module) (*moduleNode, error) {
	var m *owner.Module
	if parent == nil {
		m = owner.NewApplication(spec.ID)
	} else {
		m = owner.NewModule(spec.ID, parent)
	}

	for k, v := range spec.Properties {
		m.SetProperty(k, v)
	}

	node := &moduleNode{
		module:            m,
		defaultController: spec.DefaultController,
		modules:           make(map[string]*moduleNode),
	}

	if node.defaultController == "" {
		node.defaultController = DefaultModuleController
		if parent == nil {
			node.defaultController = DefaultAppController
		}
	}

	filters, err := s.buildFilters(m, spec.Breadcrumbs)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", spec.ID, err)
	}

	node.filters = filters

	if len(spec.Controllers) > 0 {
		node.controllers = make(map[string]*controllerNode, len(spec.Controllers))
	}

	for i := range spec.Controllers {
		c, err := s.buildController(&spec.Controllers[i], m)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", spec.ID, err)
		}

		node.controllers[c.id] = c
	}

	for i := range spec.Modules {
		child, err := s.buildModule(&spec.Modules[i], m)
		if err != nil {
			return nil, err
		}

		node.modules[spec.Modules[i].ID] = child
	}

	return node, nil
}

func (s *Site) buildController(spec *ControllerSpec, module *owner.Module) (*controllerNode, error) {
	uniqueID := strings.TrimLeft(module.UniqueID()+"/"+spec.ID, "/")
	o := owner.NewMap(spec.ID, spec.Properties).WithRoute(owner.MethodGetUniqueID, uniqueID)

	filters, err := s.buildFilters(o, spec.Breadcrumbs)
	if err != nil {
		return nil, fmt.Errorf("controller %q: %w", spec.ID, err)
	}

	c := &controllerNode{id: spec.ID, filters: filters}

	if spec.Kind == KindConsole {
		c.kind = breadcrumb.ControllerConsole
	}

	if len(spec.Actions) > 0 {
		c.actions = make(map[string]bool, len(spec.Actions))
		for _, a := range spec.Actions {
			c.actions[a] = true
		}
	}

	return c, nil
}

func (s *Site) buildFilters(o breadcrumb.Owner, specs []FilterSpec) ([]filter.ActionFilter, error) {
	out := make([]filter.ActionFilter, 0, len(specs))

	for i, spec := range specs {
		f, err := breadcrumb.New(o, spec.BreadcrumbConfig(),
			breadcrumb.WithURLResolver(s.urls),
			breadcrumb.WithLogger(s.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("breadcrumbs[%d]: %w", i, err)
		}

		out = append(out, f)
	}

	return out, nil
}

// Name returns the site's display name.
func (s *Site) Name() string { return s.name }

// URLs returns the site's URL manager.
func (s *Site) URLs() *urls.Manager { return s.urls }

// Stats counts the parts of a built site.
type Stats struct {
	Modules     int
	Controllers int
	Filters     int
}

// Stats walks the module tree and counts modules, controllers and
// breadcrumb filters, the application included.
func (s *Site) Stats() Stats {
	var st Stats

	var walk func(n *moduleNode)
	walk = func(n *moduleNode) {
		st.Modules++
		st.Filters += len(n.filters)

		for _, c := range n.controllers {
			st.Controllers++
			st.Filters += len(c.filters)
		}

		for _, child := range n.modules {
			walk(child)
		}
	}

	walk(s.root)

	return st
}

// Resolution is a route resolved against the module tree.
type Resolution struct {
	// Modules lists the modules from the application down to the one owning
	// the controller.
	Modules []*owner.Module
	// ControllerID and ActionID identify the action.
	ControllerID string
	ActionID     string
	// Kind is the controller's kind.
	Kind breadcrumb.ControllerKind

	filters []filter.ActionFilter
}

// Module returns the module owning the controller.
func (r *Resolution) Module() *owner.Module {
	return r.Modules[len(r.Modules)-1]
}

// Route returns the normalized route "module/.../controller/action".
func (r *Resolution) Route() string {
	return strings.TrimLeft(r.Module().UniqueID()+"/"+r.ControllerID+"/"+r.ActionID, "/")
}

// Resolve maps route to modules, controller and action. Leading segments
// naming submodules descend into them; the next segment is the controller
// and the one after it the action. Missing parts fall back to the module's
// default controller and DefaultAction.
func (s *Site) Resolve(route string) (*Resolution, error) {
	var parts []string
	if trimmed := strings.Trim(route, "/"); trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	node := s.root
	r := &Resolution{Modules: []*owner.Module{node.module}}
	r.filters = append(r.filters, node.filters...)

	for len(parts) > 0 {
		child, ok := node.modules[parts[0]]
		if !ok {
			break
		}

		node = child
		parts = parts[1:]
		r.Modules = append(r.Modules, node.module)
		r.filters = append(r.filters, node.filters...)
	}

	r.ControllerID = node.defaultController
	r.ActionID = DefaultAction

	if len(parts) > 0 {
		r.ControllerID = parts[0]
	}

	if len(parts) > 1 {
		r.ActionID = parts[1]
	}

	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrRouteNotFound, route)
	}

	if node.controllers != nil {
		c, ok := node.controllers[r.ControllerID]
		if !ok {
			return nil, fmt.Errorf("%w: %q: no controller %q in module %q",
				ErrRouteNotFound, route, r.ControllerID, node.module.ID())
		}

		if c.actions != nil && !c.actions[r.ActionID] {
			return nil, fmt.Errorf("%w: %q: no action %q in controller %q",
				ErrRouteNotFound, route, r.ActionID, c.id)
		}

		r.Kind = c.kind
		r.filters = append(r.filters, c.filters...)
	}

	return r, nil
}

// Dispatch is the outcome of dispatching a route.
type Dispatch struct {
	Resolution *Resolution
	Request    *breadcrumb.Request
	Result     *filter.Result
}

// Dispatch resolves route and runs the filters of every module on the way
// and of the controller against a fresh request.
func (s *Site) Dispatch(ctx context.Context, route string) (*Dispatch, error) {
	res, err := s.Resolve(route)
	if err != nil {
		return nil, err
	}

	req := breadcrumb.NewRequest(route)
	req.ModuleID = res.Module().ID()
	req.ControllerID = res.ControllerID
	req.ActionID = res.ActionID
	req.Kind = res.Kind

	s.logger.DebugContext(ctx, "dispatching",
		slog.String("request", req.ID),
		slog.String("route", route),
		slog.String("resolved", res.Route()),
		slog.String("kind", req.Kind.String()),
		slog.Int("filters", len(res.filters)),
	)

	result, err := filter.NewChain(res.filters...).Apply(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("dispatching %q: %w", route, err)
	}

	return &Dispatch{Resolution: res, Request: req, Result: result}, nil
}

// Trail returns the entries written to param during dispatch, in order.
func (d *Dispatch) Trail(param string) []breadcrumb.Entry {
	t, ok := d.Request.View.LookupTrail(param)
	if !ok {
		return nil
	}

	var out []breadcrumb.Entry

	for _, v := range t.Values() {
		if e, ok := v.(breadcrumb.Entry); ok {
			out = append(out, e)
		}
	}

	return out
}
