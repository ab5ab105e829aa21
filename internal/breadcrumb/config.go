package breadcrumb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Defaults applied by DefaultConfig.
const (
	DefaultBreadcrumbsParam = "breadcrumbs"
	DefaultLabelParam       = "id"
	DefaultDefaultRoute     = "default/index"
	DefaultRouteMethod      = "getUniqueId"
)

// ExceptAll rejects every request when listed in Config.ExceptRoutes.
const ExceptAll = "*"

const (
	fieldBreadcrumbsParam = "breadcrumbsParam"
	fieldLabelParam       = "labelParam"
	fieldRouteCreator     = "routeCreator"
	fieldMatchPolicy      = "matchPolicy"
	fieldExceptRoutes     = "exceptRoutes"
	fieldOwner            = "owner"
)

// Config configures a Filter. It is read-only once passed to New.
type Config struct {
	// BreadcrumbsParam is the view parameter holding the trail.
	BreadcrumbsParam string `json:"breadcrumbsParam"`

	// BreadcrumbsKey, when non-empty, stores the entry under this key
	// instead of appending it.
	BreadcrumbsKey string `json:"breadcrumbsKey,omitempty"`

	// LabelParam names the owner property used as label when Label is empty.
	LabelParam string `json:"labelParam"`

	// Label overrides the owner property lookup.
	Label string `json:"label,omitempty"`

	// DefaultRoute identifies the owner's default action. A request for it
	// on the owner's own module yields an active entry without URL.
	DefaultRoute DefaultRoute `json:"defaultRoute"`

	// ExceptRoutes lists routes that get no entry, checked in order.
	// ExceptAll rejects unconditionally.
	ExceptRoutes []string `json:"exceptRoutes,omitempty"`

	// RouteCreator produces the route the entry links to.
	RouteCreator RouteCreator `json:"routeCreator"`

	// MatchPolicy selects how ExceptRoutes patterns are compared.
	MatchPolicy MatchPolicy `json:"matchPolicy,omitempty"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		BreadcrumbsParam: DefaultBreadcrumbsParam,
		LabelParam:       DefaultLabelParam,
		DefaultRoute:     DefaultRouteOf(DefaultDefaultRoute),
		RouteCreator:     MethodRoute(DefaultRouteMethod),
		MatchPolicy:      MatchSubstring,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BreadcrumbsParam == "" {
		return &ConfigError{Field: fieldBreadcrumbsParam, Reason: "must not be empty"}
	}

	if c.Label == "" && c.LabelParam == "" {
		return &ConfigError{Field: fieldLabelParam, Reason: "must not be empty when no label is set"}
	}

	if !c.RouteCreator.IsSet() {
		return &ConfigError{Field: fieldRouteCreator, Reason: "must be an owner method name or a route func"}
	}

	if !c.MatchPolicy.valid() {
		return &ConfigError{
			Field:  fieldMatchPolicy,
			Reason: fmt.Sprintf("unknown policy %q: must be one of substring, regex", string(c.MatchPolicy)),
		}
	}

	if _, err := compileExcept(c.ExceptRoutes, c.MatchPolicy); err != nil {
		return err
	}

	return nil
}

// DefaultRoute is a route pattern or the disabled marker. The zero value is
// an enabled, empty pattern, which never matches a controller/action pair.
type DefaultRoute struct {
	pattern  string
	disabled bool
}

// NoDefaultRoute turns the active-entry rule off.
var NoDefaultRoute = DefaultRoute{disabled: true}

// DefaultRouteOf returns an enabled default route with the given pattern.
func DefaultRouteOf(pattern string) DefaultRoute {
	return DefaultRoute{pattern: pattern}
}

// Enabled reports whether the active-entry rule applies.
func (d DefaultRoute) Enabled() bool { return !d.disabled }

// Pattern returns the route pattern. It is empty when disabled.
func (d DefaultRoute) Pattern() string { return d.pattern }

func (d DefaultRoute) String() string {
	if d.disabled {
		return "false"
	}

	return d.pattern
}

// MarshalJSON encodes a disabled route as false and an enabled one as string.
func (d DefaultRoute) MarshalJSON() ([]byte, error) {
	if d.disabled {
		return []byte("false"), nil
	}

	return json.Marshal(d.pattern)
}

// UnmarshalJSON accepts a route string or false.
func (d *DefaultRoute) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch string(data) {
	case "false":
		*d = NoDefaultRoute
		return nil
	case "null":
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("defaultRoute must be a route string or false, got %s", data)
	}

	*d = DefaultRouteOf(s)

	return nil
}

// RouteFunc computes the owner's route for f. An empty route means the
// entry carries no URL.
type RouteFunc func(f *Filter) (string, error)

// RouteCreator is either the name of an owner method or a RouteFunc.
type RouteCreator struct {
	method string
	fn     RouteFunc
}

// MethodRoute calls the named owner method to build the route.
func MethodRoute(name string) RouteCreator {
	return RouteCreator{method: name}
}

// FuncRoute calls fn to build the route.
func FuncRoute(fn RouteFunc) RouteCreator {
	return RouteCreator{fn: fn}
}

// StaticRoute always yields route.
func StaticRoute(route string) RouteCreator {
	return FuncRoute(func(*Filter) (string, error) { return route, nil })
}

// Method returns the owner method name for method-based creators.
func (rc RouteCreator) Method() (string, bool) {
	return rc.method, rc.fn == nil && rc.method != ""
}

// IsSet reports whether rc names a method or holds a func.
func (rc RouteCreator) IsSet() bool {
	return rc.fn != nil || rc.method != ""
}

// MarshalJSON encodes a method creator as its name. Func creators have no
// textual form and encode as null.
func (rc RouteCreator) MarshalJSON() ([]byte, error) {
	if name, ok := rc.Method(); ok {
		return json.Marshal(name)
	}

	return []byte("null"), nil
}

// UnmarshalJSON accepts an owner method name.
func (rc *RouteCreator) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("routeCreator must be an owner method name, got %s", data)
	}

	*rc = MethodRoute(name)

	return nil
}
