package dom

import "strings"

// Attr is a single attribute. Boolean attributes serialize as key="key".
type Attr struct {
	Key     string
	Val     string
	Boolean bool
}

// Attrs keeps attributes in insertion order; serialization never reorders.
type Attrs []Attr

// A builds a valued attribute.
func A(key, val string) Attr {
	return Attr{Key: key, Val: val}
}

// Bool builds a boolean attribute.
func Bool(key string) Attr {
	return Attr{Key: key, Boolean: true}
}

// Class builds a class attribute.
func Class(names string) Attr {
	return Attr{Key: "class", Val: names}
}

// Get returns the attribute value; boolean attributes report their key.
func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if strings.EqualFold(attr.Key, key) {
			if attr.Boolean {
				return attr.Key, true
			}
			return attr.Val, true
		}
	}
	return "", false
}

// Value returns the attribute value or the empty string.
func (a Attrs) Value(key string) string {
	value, _ := a.Get(key)
	return value
}

// Has reports whether the attribute is present.
func (a Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set replaces the attribute in place or appends it.
func (a *Attrs) Set(attr Attr) {
	for i := range *a {
		if strings.EqualFold((*a)[i].Key, attr.Key) {
			(*a)[i] = attr
			return
		}
	}
	*a = append(*a, attr)
}

// Remove deletes every attribute with the key.
func (a *Attrs) Remove(key string) {
	out := (*a)[:0]
	for _, attr := range *a {
		if strings.EqualFold(attr.Key, key) {
			continue
		}
		out = append(out, attr)
	}
	*a = out
}

// Toggle sets a boolean attribute when on is true and removes it otherwise.
func (a *Attrs) Toggle(key string, on bool) {
	if on {
		if !a.Has(key) {
			a.Set(Bool(key))
		}
		return
	}
	a.Remove(key)
}

// Clone copies the attribute list.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	return append(Attrs(nil), a...)
}
