// Package symtab provides the variable table threaded through a single
// interpretation or execution run. Tables are plain owned values; nothing in
// minilang keeps one in package state.
package symtab

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Binding is one name/value pair, in first-assignment order.
type Binding struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Table maps identifier names to integer values.
// Names keep the order in which they were first bound.
type Table struct {
	values map[string]int64
	order  []string
}

func New() *Table {
	return &Table{values: make(map[string]int64)}
}

// FromBindings rebuilds a table, e.g. from a saved session.
func FromBindings(bs []Binding) *Table {
	t := New()
	for _, b := range bs {
		t.Set(b.Name, b.Value)
	}
	return t
}

// Get returns the bound value of name.
func (t *Table) Get(name string) (int64, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Set binds name to v, overwriting any earlier binding.
func (t *Table) Set(name string, v int64) {
	if _, ok := t.values[name]; !ok {
		t.order = append(t.order, name)
	}
	t.values[name] = v
}

func (t *Table) Len() int { return len(t.order) }

// Names returns the bound names in first-assignment order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Bindings returns a snapshot of the table in first-assignment order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Binding{Name: name, Value: t.values[name]})
	}
	return out
}

// Map returns a copy of the table as a plain map.
func (t *Table) Map() map[string]int64 {
	m := make(map[string]int64, len(t.values))
	for k, v := range t.values {
		m[k] = v
	}
	return m
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	return FromBindings(t.Bindings())
}

// String renders the table like {a: 1, b: 2}, keys sorted.
func (t *Table) String() string {
	names := t.Names()
	sort.Strings(names)
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", name, t.values[name])
	}
	b.WriteByte('}')
	return b.String()
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Bindings())
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var bs []Binding
	if err := json.Unmarshal(data, &bs); err != nil {
		return err
	}
	*t = *FromBindings(bs)
	return nil
}
