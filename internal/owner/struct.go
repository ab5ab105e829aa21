package owner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Struct exposes the exported fields and methods of a Go value as owner
// properties and methods. Names are matched case-insensitively, so a
// "title" property finds a Title field, and a "getUniqueId" method finds
// GetUniqueId. A field is also found by its json tag name.
type Struct struct {
	id   string
	v    reflect.Value
	elem reflect.Value
}

// NewStruct wraps v, which must be a struct or a pointer to one.
func NewStruct(id string, v interface{}) (*Struct, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, errors.New("owner value must not be nil")
	}

	elem := rv
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, errors.New("owner value must not be a nil pointer")
		}

		elem = elem.Elem()
	}

	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("owner value must be a struct, got %s", elem.Kind())
	}

	return &Struct{id: id, v: rv, elem: elem}, nil
}

// ID returns the owner id.
func (s *Struct) ID() string { return s.id }

// HasProperty reports whether the value has a matching exported field.
func (s *Struct) HasProperty(name string) bool {
	_, ok := s.field(name)
	return ok
}

// Property returns the matching field's value.
func (s *Struct) Property(name string) (interface{}, error) {
	f, ok := s.field(name)
	if !ok {
		return nil, fmt.Errorf("owner %q has no property %q", s.id, name)
	}

	return f.Interface(), nil
}

// HasMethod reports whether the value has a matching exported method that
// takes no arguments and returns a string, optionally with an error.
func (s *Struct) HasMethod(name string) bool {
	_, ok := s.method(name)
	return ok
}

// CallMethod invokes the matching method.
func (s *Struct) CallMethod(name string) (string, error) {
	m, ok := s.method(name)
	if !ok {
		return "", fmt.Errorf("owner %q has no method %q", s.id, name)
	}

	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return "", out[1].Interface().(error)
	}

	return out[0].String(), nil
}

func (s *Struct) field(name string) (reflect.Value, bool) {
	t := s.elem.Type()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if strings.EqualFold(sf.Name, name) || (tag != "" && tag == name) {
			return s.elem.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func (s *Struct) method(name string) (reflect.Value, bool) {
	m := s.v.MethodByName(exportedName(name))
	if !m.IsValid() {
		t := s.v.Type()
		for i := 0; i < t.NumMethod(); i++ {
			if strings.EqualFold(t.Method(i).Name, name) {
				m = s.v.Method(i)
				break
			}
		}
	}

	if !m.IsValid() || !isRouteMethod(m.Type()) {
		return reflect.Value{}, false
	}

	return m, true
}

func isRouteMethod(t reflect.Type) bool {
	if t.NumIn() != 0 || t.NumOut() == 0 || t.NumOut() > 2 {
		return false
	}

	if t.Out(0).Kind() != reflect.String {
		return false
	}

	return t.NumOut() == 1 || t.Out(1) == errorType
}

// exportedName upper-cases the first rune of name.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
