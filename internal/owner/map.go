package owner

import (
	"fmt"

	"github.com/spf13/cast"
)

// Map is an owner backed by a key/value map. It suits owners described by
// configuration rather than code.
type Map struct {
	id      string
	values  map[string]interface{}
	methods map[string]MethodFunc
}

// NewMap creates a map owner. values is deep-copied; an "id" entry, if
// present, is shadowed by id.
func NewMap(id string, values map[string]interface{}) *Map {
	m := &Map{
		id:      id,
		values:  copyValues(values),
		methods: make(map[string]MethodFunc),
	}

	if m.values == nil {
		m.values = make(map[string]interface{}, 1)
	}

	m.values[PropertyID] = id

	return m
}

// ID returns the owner id.
func (m *Map) ID() string { return m.id }

// WithMethod registers a named method and returns m.
func (m *Map) WithMethod(name string, fn MethodFunc) *Map {
	m.methods[name] = fn
	return m
}

// WithRoute registers a method that returns a fixed route and returns m.
func (m *Map) WithRoute(name, route string) *Map {
	return m.WithMethod(name, func() (string, error) { return route, nil })
}

// HasProperty reports whether the map holds name.
func (m *Map) HasProperty(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Property returns the value under name.
func (m *Map) Property(name string) (interface{}, error) {
	v, ok := m.values[name]
	if !ok {
		return nil, fmt.Errorf("owner %q has no property %q", m.id, name)
	}

	return v, nil
}

// String returns the value under name converted to a string.
func (m *Map) String(name string) (string, error) {
	v, err := m.Property(name)
	if err != nil {
		return "", err
	}

	return cast.ToStringE(v)
}

// HasMethod reports whether a method is registered under name.
func (m *Map) HasMethod(name string) bool {
	_, ok := m.methods[name]
	return ok
}

// CallMethod invokes the method registered under name.
func (m *Map) CallMethod(name string) (string, error) {
	fn, ok := m.methods[name]
	if !ok {
		return "", fmt.Errorf("owner %q has no method %q", m.id, name)
	}

	return fn()
}
