package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/urls"
)

// Default controller ids used when a module does not set one.
const (
	DefaultAppController    = "site"
	DefaultModuleController = "default"
	DefaultAction           = "index"
)

// Controller kinds accepted in a site file.
const (
	KindWeb     = "web"
	KindConsole = "console"
)

// File is the parsed form of a site file.
type File struct {
	// Requires is a semver constraint the crumbtrail binary must satisfy.
	Requires string `json:"requires,omitempty"`

	// Name is a display name for the site.
	Name string `json:"name,omitempty"`

	// URLs configures how routes become URLs.
	URLs urls.Manager `json:"urls"`

	// Application is the root module.
	Application ModuleSpec `json:"application"`
}

// ModuleSpec declares a module and everything below it.
type ModuleSpec struct {
	ID string `json:"id"`

	// DefaultController is used when a route ends at this module.
	DefaultController string `json:"defaultController,omitempty"`

	// Properties are exposed to breadcrumb filters, e.g. as label.
	Properties map[string]interface{} `json:"properties,omitempty"`

	Breadcrumbs []FilterSpec     `json:"breadcrumbs,omitempty"`
	Controllers []ControllerSpec `json:"controllers,omitempty"`
	Modules     []ModuleSpec     `json:"modules,omitempty"`
}

// ControllerSpec declares a controller. An empty Actions list accepts any
// action.
type ControllerSpec struct {
	ID          string                 `json:"id"`
	Kind        string                 `json:"kind,omitempty"`
	Actions     []string               `json:"actions,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	Breadcrumbs []FilterSpec           `json:"breadcrumbs,omitempty"`
}

// FilterSpec is a breadcrumb filter configuration. Unset fields take the
// breadcrumb defaults. Route, when set, replaces the route creator with a
// fixed route; an empty Route yields an entry without URL.
type FilterSpec struct {
	breadcrumb.Config

	Route *string `json:"route,omitempty"`
}

// UnmarshalJSON decodes a filter spec on top of breadcrumb.DefaultConfig.
func (s *FilterSpec) UnmarshalJSON(data []byte) error {
	type plain FilterSpec

	p := plain{Config: breadcrumb.DefaultConfig()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*s = FilterSpec(p)

	return nil
}

// BreadcrumbConfig returns the effective breadcrumb configuration.
func (s FilterSpec) BreadcrumbConfig() breadcrumb.Config {
	cfg := s.Config
	if s.Route != nil {
		cfg.RouteCreator = breadcrumb.StaticRoute(*s.Route)
	}

	return cfg
}

// Load reads and parses the site file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("site file %q: %w", path, err)
	}

	return f, nil
}

// Parse parses and validates site file content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := sigsyaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing site file: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks the whole file and reports every problem found.
func (f *File) Validate() error {
	var errs []error

	if err := f.URLs.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("urls: %w", err))
	}

	errs = append(errs, validateModule("application", &f.Application)...)

	return errors.Join(errs...)
}

func validateModule(path string, m *ModuleSpec) []error {
	var errs []error

	if m.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id: must not be empty", path))
	}

	errs = append(errs, validateFilters(path, m.Breadcrumbs)...)

	seen := make(map[string]string)

	for i := range m.Controllers {
		c := &m.Controllers[i]
		cp := fmt.Sprintf("%s.controllers[%d]", path, i)

		if c.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id: must not be empty", cp))
		} else if prev, dup := seen[c.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id: %q already used by %s", cp, c.ID, prev))
		} else {
			seen[c.ID] = cp
		}

		switch c.Kind {
		case "", KindWeb, KindConsole:
		default:
			errs = append(errs, fmt.Errorf("%s.kind: invalid kind %q: must be one of web, console", cp, c.Kind))
		}

		errs = append(errs, validateFilters(cp, c.Breadcrumbs)...)
	}

	for i := range m.Modules {
		sub := &m.Modules[i]
		mp := fmt.Sprintf("%s.modules[%d]", path, i)

		if sub.ID != "" {
			if prev, dup := seen[sub.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: %q already used by %s", mp, sub.ID, prev))
			} else {
				seen[sub.ID] = mp
			}
		}

		errs = append(errs, validateModule(mp, sub)...)
	}

	return errs
}

func validateFilters(path string, specs []FilterSpec) []error {
	var errs []error

	for i, s := range specs {
		if err := s.BreadcrumbConfig().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s.breadcrumbs[%d]: %w", path, i, err))
		}
	}

	return errs
}
