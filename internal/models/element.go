// Package models defines data structures shared by the reader, normalizer and auditor.
package models

import "fmt"

// ElementKind identifies one of the three top-level map element types.
type ElementKind string

// Element kinds present in a map extract.
const (
	KindNode     ElementKind = "node"
	KindWay      ElementKind = "way"
	KindRelation ElementKind = "relation"
)

// AllKinds lists every element kind the reader understands.
var AllKinds = []ElementKind{KindNode, KindWay, KindRelation}

// ParseElementKind maps a markup element name to its kind.
func ParseElementKind(name string) (ElementKind, bool) {
	switch ElementKind(name) {
	case KindNode, KindWay, KindRelation:
		return ElementKind(name), true
	default:
		return "", false
	}
}

// IsShaped reports whether elements of this kind produce an output record.
func (k ElementKind) IsShaped() bool {
	return k == KindNode || k == KindWay
}

// Tag is a key/value annotation attached to an element.
type Tag struct {
	Key   string
	Value string
}

// RawElement is one node, way or relation as read from the source document.
type RawElement struct {
	Attrs     map[string]string
	Kind      ElementKind
	AttrOrder []string
	Tags      []Tag
	NodeRefs  []string
}

// NewRawElement creates an element of the given kind with no attributes.
func NewRawElement(kind ElementKind) *RawElement {
	return &RawElement{
		Kind:  kind,
		Attrs: make(map[string]string),
	}
}

// SetAttr records an attribute, keeping first-seen order.
func (e *RawElement) SetAttr(name, value string) {
	if _, ok := e.Attrs[name]; !ok {
		e.AttrOrder = append(e.AttrOrder, name)
	}
	e.Attrs[name] = value
}

// Attr returns the attribute value and whether it was present.
func (e *RawElement) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// AddTag appends a tag child.
func (e *RawElement) AddTag(key, value string) {
	e.Tags = append(e.Tags, Tag{Key: key, Value: value})
}

// String returns a short description used in log and error messages.
func (e *RawElement) String() string {
	if id, ok := e.Attrs["id"]; ok {
		return fmt.Sprintf("%s/%s", e.Kind, id)
	}

	return string(e.Kind)
}
