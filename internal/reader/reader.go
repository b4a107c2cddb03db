// Package reader streams map elements out of an OSM XML extract.
package reader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"osmaudit/internal/models"
)

// Reader errors.
var (
	ErrParse           = errors.New("malformed map document")
	ErrMissingTagKey   = errors.New("tag without k attribute")
	ErrMissingTagValue = errors.New("tag without v attribute")
	ErrMissingNodeRef  = errors.New("nd without ref attribute")
)

// Reader yields one fully materialized element at a time. Only the subtree of
// the element being built is held in memory. A Reader is single pass.
type Reader struct {
	dec    *xml.Decoder
	kinds  map[models.ElementKind]bool
	closer io.Closer
	read   int
}

// New creates a reader over r that keeps only the given kinds.
// With no kinds every node, way and relation is returned.
func New(r io.Reader, kinds ...models.ElementKind) *Reader {
	if len(kinds) == 0 {
		kinds = models.AllKinds
	}

	keep := make(map[models.ElementKind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}

	return &Reader{
		dec:   xml.NewDecoder(r),
		kinds: keep,
	}
}

// Open opens the file at path with a fresh handle. The caller must Close it.
func Open(path string, kinds ...models.ElementKind) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}

	r := New(f, kinds...)
	r.closer = f

	return r, nil
}

// Close releases the underlying file handle, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	err := r.closer.Close()
	r.closer = nil

	return err
}

// Count returns the number of elements returned so far.
func (r *Reader) Count() int {
	return r.read
}

// Next returns the next element of a kept kind, or io.EOF at the end of the document.
func (r *Reader) Next() (*models.RawElement, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		if err != nil {
			return nil, r.parseError(err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		kind, ok := models.ParseElementKind(start.Name.Local)
		if !ok {
			continue
		}

		if !r.kinds[kind] {
			if err := r.dec.Skip(); err != nil {
				return nil, r.parseError(err)
			}

			continue
		}

		elem, err := r.readElement(kind, start)
		if err != nil {
			return nil, err
		}

		r.read++

		return elem, nil
	}
}

// All returns an iterator over the remaining elements. Iteration stops after
// the first error, which is yielded with a nil element.
func (r *Reader) All() iter.Seq2[*models.RawElement, error] {
	return func(yield func(*models.RawElement, error) bool) {
		for {
			elem, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(elem, err) || err != nil {
				return
			}
		}
	}
}

func (r *Reader) readElement(kind models.ElementKind, start xml.StartElement) (*models.RawElement, error) {
	elem := models.NewRawElement(kind)
	for _, a := range start.Attr {
		elem.SetAttr(a.Name.Local, a.Value)
	}

	depth := 1
	for depth > 0 {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return nil, r.parseError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++

			if err := r.readChild(elem, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			depth--
		}
	}

	return elem, nil
}

func (r *Reader) readChild(elem *models.RawElement, child xml.StartElement) error {
	switch child.Name.Local {
	case "tag":
		k, ok := attr(child, "k")
		if !ok {
			return fmt.Errorf("%w: %s at offset %d", ErrMissingTagKey, elem, r.dec.InputOffset())
		}

		v, ok := attr(child, "v")
		if !ok {
			return fmt.Errorf("%w: %s key %q at offset %d", ErrMissingTagValue, elem, k, r.dec.InputOffset())
		}

		elem.AddTag(k, v)
	case "nd":
		ref, ok := attr(child, "ref")
		if !ok {
			return fmt.Errorf("%w: %s at offset %d", ErrMissingNodeRef, elem, r.dec.InputOffset())
		}

		elem.NodeRefs = append(elem.NodeRefs, ref)
	}

	return nil
}

func (r *Reader) parseError(err error) error {
	return fmt.Errorf("%w at offset %d: %w", ErrParse, r.dec.InputOffset(), err)
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}

	return "", false
}
