package normalizer

// expectedStreetTypes are canonical street-type words that need no correction.
var expectedStreetTypes = []string{
	"Alley", "Avenue", "Boulevard", "Center", "Circle", "Common", "Commons",
	"Corte", "Court", "Courtyard", "Drive", "Expressway",
	"Highway", "Lane", "Loop", "Mall", "Path", "Park", "Parkway", "Place", "Plaza",
	"Real", "Road", "Square", "Street", "Terrace", "Trail", "Walk",
	"Way",
}

// streetTypeCorrections maps known abbreviations and misspellings to their canonical word.
var streetTypeCorrections = map[string]string{
	"Aly":        "Alley",
	"avenue":     "Avenue",
	"AVE":        "Avenue",
	"Ave":        "Avenue",
	"Aveenue":    "Avenue",
	"Avenie":     "Avenue",
	"Ave.":       "Avenue",
	"blvd":       "Boulevard",
	"BLVD.":      "Boulevard",
	"BLVD":       "Boulevard",
	"Blvd":       "Boulevard",
	"Blvd.":      "Boulevard",
	"Boulvevard": "Boulevard",
	"Boulevar":   "Boulevard",
	"Cir":        "Circle",
	"Circle:":    "Circle",
	"court":      "Court",
	"Ct":         "Court",
	"Ct.":        "Court",
	"Ctr":        "Center",
	"Dr":         "Drive",
	"Dr.":        "Drive",
	"Expwy":      "Expressway",
	"Hwy":        "Highway",
	"Hwy.":       "Highway",
	"Ln":         "Lane",
	"Ln.":        "Lane",
	"parkway":    "Parkway",
	"PKWY":       "Parkway",
	"PL":         "Place",
	"Pl":         "Place",
	"PT":         "Point",
	"road":       "Road",
	"Rd":         "Road",
	"Rd.":        "Road",
	"st":         "Street",
	"St":         "Street",
	"St.":        "Street",
	"street":     "Street",
	"terrace":    "Terrace",
	"way":        "Way",
	"WAy":        "Way",
}

// Vocabulary holds the street-type words the auditor and transformer agree on.
// It is read-only after construction.
type Vocabulary struct {
	expected    map[string]struct{}
	corrections map[string]string
}

// NewVocabulary builds a vocabulary from an expected word list and a correction table.
// Both inputs are copied.
func NewVocabulary(expected []string, corrections map[string]string) *Vocabulary {
	v := &Vocabulary{
		expected:    make(map[string]struct{}, len(expected)),
		corrections: make(map[string]string, len(corrections)),
	}

	for _, w := range expected {
		v.expected[w] = struct{}{}
	}

	for from, to := range corrections {
		v.corrections[from] = to
	}

	return v
}

var defaultVocabulary = NewVocabulary(expectedStreetTypes, streetTypeCorrections)

// DefaultVocabulary returns the compiled-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary
}

// IsExpected reports whether token is already a canonical street type.
func (v *Vocabulary) IsExpected(token string) bool {
	_, ok := v.expected[token]
	return ok
}

// Correction returns the canonical replacement for token.
func (v *Vocabulary) Correction(token string) (string, bool) {
	c, ok := v.corrections[token]
	return c, ok
}

// IsKnown reports whether token is either expected or correctable.
func (v *Vocabulary) IsKnown(token string) bool {
	if v.IsExpected(token) {
		return true
	}

	_, ok := v.corrections[token]

	return ok
}
