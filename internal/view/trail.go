package view

import (
	"encoding/json"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// Trail is an insertion-ordered collection addressed either by explicit keys
// or by auto-incremented integer keys.
type Trail struct {
	items *orderedmap.OrderedMap
	next  int
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	items := orderedmap.New()
	items.SetEscapeHTML(false)

	return &Trail{items: items}
}

// Append stores v under the next integer key and returns that key.
func (t *Trail) Append(v interface{}) string {
	key := strconv.Itoa(t.next)
	t.items.Set(key, v)
	t.next++

	return key
}

// Set stores v under key. An existing value is overwritten in place.
// Canonical integer keys ("5", not "05" or "+5") advance the append
// counter the same way Append does.
func (t *Trail) Set(key string, v interface{}) {
	t.items.Set(key, v)

	if n, ok := integerKey(key); ok && n >= t.next {
		t.next = n + 1
	}
}

func integerKey(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || strconv.Itoa(n) != key {
		return 0, false
	}

	return n, true
}

// Get returns the value stored under key.
func (t *Trail) Get(key string) (interface{}, bool) {
	return t.items.Get(key)
}

// Keys returns the trail keys in insertion order.
func (t *Trail) Keys() []string {
	return t.items.Keys()
}

// Values returns the trail values in insertion order.
func (t *Trail) Values() []interface{} {
	keys := t.items.Keys()
	out := make([]interface{}, 0, len(keys))

	for _, k := range keys {
		v, _ := t.items.Get(k)
		out = append(out, v)
	}

	return out
}

// Len returns the number of values in the trail.
func (t *Trail) Len() int {
	return len(t.items.Keys())
}

// MarshalJSON encodes the trail as a JSON object keyed in insertion order.
func (t *Trail) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.items)
}
