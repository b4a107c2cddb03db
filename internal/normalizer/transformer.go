package normalizer

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPostcode is returned when a postcode has no 5 or 5+4 digit suffix.
var ErrInvalidPostcode = errors.New("invalid postcode")

// Transformer rewrites street, postcode and county values into canonical form.
type Transformer struct {
	vocab        *Vocabulary
	postcode     *regexp.Regexp
	postcodeLong *regexp.Regexp
	county       *regexp.Regexp
}

// NewTransformer creates a transformer using the compiled-in vocabulary.
func NewTransformer() *Transformer {
	return NewTransformerWithVocabulary(DefaultVocabulary())
}

// NewTransformerWithVocabulary creates a transformer using vocab for street names.
func NewTransformerWithVocabulary(vocab *Vocabulary) *Transformer {
	return &Transformer{
		vocab:        vocab,
		postcode:     regexp.MustCompile(`([0-9]{5})\n?$`),
		postcodeLong: regexp.MustCompile(`([0-9]{5}-[0-9]{4})\n?$`),
		county:       regexp.MustCompile(`(?i)^(.+) County\n?$`),
	}
}

// NormalizeStreetName replaces the street-type token of name with its
// canonical form. At most one substitution is made: the first pattern whose
// token has a correction wins. Names with no correctable token are returned
// unchanged.
func (t *Transformer) NormalizeStreetName(name string) string {
	for _, m := range streetTypeMatchers {
		match, ok := m.find(name)
		if !ok {
			continue
		}

		if fixed, ok := t.vocab.Correction(match.Token); ok {
			return replaceSpan(name, match, fixed)
		}
	}

	return name
}

// NormalizePostcode returns the 5 or 5+4 digit suffix of value. A single
// trailing newline is ignored.
func (t *Transformer) NormalizePostcode(value string) (string, error) {
	for _, re := range []*regexp.Regexp{t.postcode, t.postcodeLong} {
		if m := re.FindStringSubmatch(value); m != nil {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPostcode, value)
}

// NormalizeCounty strips a trailing " County" word from value.
func (t *Transformer) NormalizeCounty(value string) string {
	m := t.county.FindStringSubmatch(value)
	if m == nil {
		return value
	}

	return m[1]
}
