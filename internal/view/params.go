package view

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Params is the view parameter bag shared by everything that prepares a view
// for a single request.
type Params struct {
	values *orderedmap.OrderedMap
}

// NewParams creates an empty parameter bag.
func NewParams() *Params {
	values := orderedmap.New()
	values.SetEscapeHTML(false)

	return &Params{values: values}
}

// Get returns the value stored under name.
func (p *Params) Get(name string) (interface{}, bool) {
	return p.values.Get(name)
}

// Set stores value under name, keeping the original position if name exists.
func (p *Params) Set(name string, value interface{}) {
	p.values.Set(name, value)
}

// Names returns parameter names in insertion order.
func (p *Params) Names() []string {
	return p.values.Keys()
}

// Trail returns the trail stored under name, creating an empty one on first
// use. It fails if name already holds a value that is not a trail.
func (p *Params) Trail(name string) (*Trail, error) {
	v, ok := p.values.Get(name)
	if !ok {
		t := NewTrail()
		p.values.Set(name, t)

		return t, nil
	}

	t, ok := v.(*Trail)
	if !ok {
		return nil, fmt.Errorf("view param %q holds %T, not a trail", name, v)
	}

	return t, nil
}

// LookupTrail returns the trail stored under name without creating it.
func (p *Params) LookupTrail(name string) (*Trail, bool) {
	v, ok := p.values.Get(name)
	if !ok {
		return nil, false
	}

	t, ok := v.(*Trail)

	return t, ok
}

// MarshalJSON encodes the bag as a JSON object in insertion order.
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.values)
}
