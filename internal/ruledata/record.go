// Package ruledata holds the declarative rule-data records that scenarios,
// abilities, events and save files are made of. A Record is a tree: string
// attributes plus an ordered list of named child records.
package ruledata

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMissingChild is returned when a mandatory child record is absent
	ErrMissingChild = errors.New("missing mandatory child")
	// ErrDecode is returned when a document cannot be turned into a Record
	ErrDecode = errors.New("cannot decode rule data")
)

type child struct {
	key string
	rec *Record
}

// Record is a single rule-data node
type Record struct {
	attrs    map[string]string
	children []child
}

// New creates an empty record
func New() *Record {
	return &Record{attrs: make(map[string]string)}
}

// FromMap creates a record holding the given attributes
func FromMap(attrs map[string]string) *Record {
	r := New()
	for k, v := range attrs {
		r.attrs[k] = v
	}
	return r
}

// Has reports whether the attribute is present (an empty value counts as present)
func (r *Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.attrs[key]
	return ok
}

// Str returns the attribute value or "" when absent
func (r *Record) Str(key string) string {
	if r == nil {
		return ""
	}
	return r.attrs[key]
}

// Bool parses the attribute as a boolean, falling back to def when absent or malformed
func (r *Record) Bool(key string, def bool) bool {
	if !r.Has(key) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(r.attrs[key])) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	default:
		return def
	}
}

// Int parses the attribute as an integer, falling back to def when absent or malformed
func (r *Record) Int(key string, def int) int {
	if !r.Has(key) {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.attrs[key]))
	if err != nil {
		return def
	}
	return n
}

// Set stores a string attribute
func (r *Record) Set(key, value string) {
	r.attrs[key] = value
}

// SetBool stores a boolean attribute using the yes/no spelling
func (r *Record) SetBool(key string, value bool) {
	if value {
		r.attrs[key] = "yes"
	} else {
		r.attrs[key] = "no"
	}
}

// SetInt stores an integer attribute
func (r *Record) SetInt(key string, value int) {
	r.attrs[key] = strconv.Itoa(value)
}

// Unset removes an attribute
func (r *Record) Unset(key string) {
	delete(r.attrs, key)
}

// Keys returns the attribute names in sorted order
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.attrs))
	for k := range r.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChildCount returns how many children are stored under key
func (r *Record) ChildCount(key string) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.children {
		if c.key == key {
			n++
		}
	}
	return n
}

// Child returns the i-th child stored under key
func (r *Record) Child(key string, i int) (*Record, bool) {
	if r == nil || i < 0 {
		return nil, false
	}
	n := 0
	for _, c := range r.children {
		if c.key != key {
			continue
		}
		if n == i {
			return c.rec, true
		}
		n++
	}
	return nil, false
}

// MandatoryChild is Child but reports absence as an error
func (r *Record) MandatoryChild(key string, i int) (*Record, error) {
	c, ok := r.Child(key, i)
	if !ok {
		return nil, fmt.Errorf("%w: [%s] #%d", ErrMissingChild, key, i)
	}
	return c, nil
}

// ChildOrEmpty returns the first child under key, or a fresh empty record
func (r *Record) ChildOrEmpty(key string) *Record {
	if c, ok := r.Child(key, 0); ok {
		return c
	}
	return New()
}

// Children returns all children stored under key, in order
func (r *Record) Children(key string) []*Record {
	if r == nil {
		return nil
	}
	var out []*Record
	for _, c := range r.children {
		if c.key == key {
			out = append(out, c.rec)
		}
	}
	return out
}

// ChildKeys returns the distinct child keys in first-appearance order
func (r *Record) ChildKeys() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for _, c := range r.children {
		if !seen[c.key] {
			seen[c.key] = true
			keys = append(keys, c.key)
		}
	}
	return keys
}

// AddChild appends c under key and returns it
func (r *Record) AddChild(key string, c *Record) *Record {
	if c == nil {
		c = New()
	}
	r.children = append(r.children, child{key: key, rec: c})
	return c
}

// RemoveChildren drops every child stored under key
func (r *Record) RemoveChildren(key string) {
	kept := r.children[:0]
	for _, c := range r.children {
		if c.key != key {
			kept = append(kept, c)
		}
	}
	r.children = kept
}

// Empty reports whether the record has neither attributes nor children
func (r *Record) Empty() bool {
	return r == nil || (len(r.attrs) == 0 && len(r.children) == 0)
}

// Clone returns a deep copy
func (r *Record) Clone() *Record {
	if r == nil {
		return New()
	}
	out := FromMap(r.attrs)
	out.children = make([]child, 0, len(r.children))
	for _, c := range r.children {
		out.children = append(out.children, child{key: c.key, rec: c.rec.Clone()})
	}
	return out
}

// Equal compares attributes and children (including child order) deeply
func (r *Record) Equal(o *Record) bool {
	if r.Empty() || o.Empty() {
		return r.Empty() == o.Empty()
	}
	if len(r.attrs) != len(o.attrs) || len(r.children) != len(o.children) {
		return false
	}
	for k, v := range r.attrs {
		if ov, ok := o.attrs[k]; !ok || ov != v {
			return false
		}
	}
	for i := range r.children {
		if r.children[i].key != o.children[i].key || !r.children[i].rec.Equal(o.children[i].rec) {
			return false
		}
	}
	return true
}
