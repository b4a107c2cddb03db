package models

// Reserved keys of a shaped record.
const (
	FieldType     = "type"
	FieldCreated  = "created"
	FieldPos      = "pos"
	FieldAddress  = "address"
	FieldNodeRefs = "node_refs"
)

// ShapedRecord is the normalized document produced for one element.
type ShapedRecord map[string]any

// Type returns the element kind stored in the record.
func (r ShapedRecord) Type() string {
	s, _ := r[FieldType].(string)
	return s
}

// ID returns the element identifier, or "" if the record has none.
func (r ShapedRecord) ID() string {
	s, _ := r["id"].(string)
	return s
}

// Address returns the address sub-document, or nil when absent.
func (r ShapedRecord) Address() map[string]string {
	a, _ := r[FieldAddress].(map[string]string)
	return a
}

// Created returns the provenance sub-document.
func (r ShapedRecord) Created() map[string]string {
	c, _ := r[FieldCreated].(map[string]string)
	return c
}
