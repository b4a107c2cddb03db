package normalizer

import (
	"regexp"
	"strings"
)

// KeyShape describes how a tag key is placed in a shaped record.
type KeyShape int

// Key shapes.
const (
	// ShapeInvalid keys are dropped.
	ShapeInvalid KeyShape = iota
	// ShapePlain keys are lowercase words stored at the top level.
	ShapePlain
	// ShapeNamespaced keys are "prefix:suffix" with lowercase parts.
	ShapeNamespaced
)

// problemChars are characters that may not appear in a stored key.
const problemChars = "=+/&<>;'\"?%#$@,. \t\r\n"

// Validator checks tag keys and postcode values.
type Validator struct {
	plainKey      *regexp.Regexp
	namespacedKey *regexp.Regexp
	postcode      *regexp.Regexp
	postcodeLong  *regexp.Regexp
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		plainKey:      regexp.MustCompile(`^[a-z_]+$`),
		namespacedKey: regexp.MustCompile(`^[a-z_]+:[a-z_]+$`),
		postcode:      regexp.MustCompile(`[0-9]{5}\n?$`),
		postcodeLong:  regexp.MustCompile(`[0-9]{5}-[0-9]{4}\n?$`),
	}
}

// HasProblemChars reports whether key contains a character that is not allowed.
func (v *Validator) HasProblemChars(key string) bool {
	return strings.ContainsAny(key, problemChars)
}

// KeyShape classifies key. Keys with problem characters, uppercase letters,
// digits, more than one colon or an empty part are ShapeInvalid.
func (v *Validator) KeyShape(key string) KeyShape {
	if v.HasProblemChars(key) {
		return ShapeInvalid
	}

	switch {
	case v.plainKey.MatchString(key):
		return ShapePlain
	case v.namespacedKey.MatchString(key):
		return ShapeNamespaced
	default:
		return ShapeInvalid
	}
}

// ValidPostcode reports whether value ends in a 5 digit or 5+4 digit code.
func (v *Validator) ValidPostcode(value string) bool {
	return v.postcode.MatchString(value) || v.postcodeLong.MatchString(value)
}
