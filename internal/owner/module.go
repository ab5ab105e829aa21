package owner

import (
	"fmt"
	"sort"
	"strings"
)

// Method names a Module answers to, in addition to registered methods.
const (
	MethodGetUniqueID = "getUniqueId"
	MethodUniqueID    = "UniqueID"
)

// Property names a Module answers to, in addition to its properties map.
const (
	PropertyID       = "id"
	PropertyUniqueID = "uniqueId"
)

// MethodFunc is a route-producing owner method.
type MethodFunc func() (string, error)

// Module is a node in an application's module tree. The root module is the
// application itself and has an empty unique id.
type Module struct {
	id         string
	root       bool
	parent     *Module
	children   map[string]*Module
	properties map[string]interface{}
	methods    map[string]MethodFunc
}

// NewApplication creates a root module.
func NewApplication(id string) *Module {
	m := newModule(id, nil)
	m.root = true

	return m
}

// NewModule creates a module with the given parent. A nil parent makes a
// standalone module whose unique id equals its id.
func NewModule(id string, parent *Module) *Module {
	m := newModule(id, parent)

	if parent != nil {
		parent.children[id] = m
	}

	return m
}

func newModule(id string, parent *Module) *Module {
	return &Module{
		id:         id,
		parent:     parent,
		children:   make(map[string]*Module),
		properties: make(map[string]interface{}),
		methods:    make(map[string]MethodFunc),
	}
}

// ID returns the module id.
func (m *Module) ID() string { return m.id }

// Parent returns the parent module, nil for a root.
func (m *Module) Parent() *Module { return m.parent }

// IsApplication reports whether m was created by NewApplication.
func (m *Module) IsApplication() bool { return m.root }

// Child returns the direct submodule with the given id.
func (m *Module) Child(id string) (*Module, bool) {
	c, ok := m.children[id]
	return c, ok
}

// Children returns direct submodules sorted by id.
func (m *Module) Children() []*Module {
	out := make([]*Module, 0, len(m.children))
	for _, c := range m.children {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })

	return out
}

// UniqueID returns the slash-joined ids from below the application root down
// to m, e.g. "admin/users".
func (m *Module) UniqueID() string {
	if m.parent == nil {
		if m.root {
			return ""
		}

		return m.id
	}

	return strings.TrimLeft(m.parent.UniqueID()+"/"+m.id, "/")
}

// SetProperty sets a named property. Maps and slices are deep-copied.
func (m *Module) SetProperty(name string, v interface{}) {
	m.properties[name] = copyValue(v)
}

// RegisterMethod adds a named route-producing method.
func (m *Module) RegisterMethod(name string, fn MethodFunc) {
	m.methods[name] = fn
}

// HasProperty reports whether name is a built-in or set property.
func (m *Module) HasProperty(name string) bool {
	switch name {
	case PropertyID, PropertyUniqueID:
		return true
	}

	_, ok := m.properties[name]

	return ok
}

// Property returns the named property.
func (m *Module) Property(name string) (interface{}, error) {
	switch name {
	case PropertyID:
		return m.id, nil
	case PropertyUniqueID:
		return m.UniqueID(), nil
	}

	v, ok := m.properties[name]
	if !ok {
		return nil, fmt.Errorf("module %q has no property %q", m.id, name)
	}

	return v, nil
}

// HasMethod reports whether name is a built-in or registered method.
func (m *Module) HasMethod(name string) bool {
	switch name {
	case MethodGetUniqueID, MethodUniqueID:
		return true
	}

	_, ok := m.methods[name]

	return ok
}

// CallMethod invokes the named method.
func (m *Module) CallMethod(name string) (string, error) {
	switch name {
	case MethodGetUniqueID, MethodUniqueID:
		return m.UniqueID(), nil
	}

	fn, ok := m.methods[name]
	if !ok {
		return "", fmt.Errorf("module %q has no method %q", m.id, name)
	}

	return fn()
}
