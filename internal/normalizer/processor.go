// Package normalizer shapes raw map elements into document records, fixing
// street types, postcodes and county names on the way.
package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"osmaudit/internal/models"
)

// ErrInvalidPosition is returned when lat or lon is not a finite number.
var ErrInvalidPosition = errors.New("invalid position")

// createdAttrs are provenance attributes grouped under "created", in output order.
var createdAttrs = []string{"version", "changeset", "timestamp", "user", "uid"}

const (
	latAttr = "lat"
	lonAttr = "lon"
)

func isReservedAttr(name string) bool {
	switch name {
	case "version", "changeset", "timestamp", "user", "uid", latAttr, lonAttr:
		return true
	}

	return false
}

// Stats counts what the processor did with the tags it saw.
type Stats struct {
	Shaped           int
	Skipped          int
	StreetsFixed     int
	CountiesFixed    int
	InvalidPostcodes int
	DroppedKeys      int
}

// Processor turns raw elements into shaped records. It is not safe for
// concurrent use; Stats accumulate across calls.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	stats       Stats
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return NewProcessorWithVocabulary(DefaultVocabulary())
}

// NewProcessorWithVocabulary creates a processor whose street fixes use vocab.
func NewProcessorWithVocabulary(vocab *Vocabulary) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformerWithVocabulary(vocab),
	}
}

// Stats returns counters accumulated since the processor was created.
func (p *Processor) Stats() Stats {
	return p.stats
}

// Process shapes raw into a record. The boolean is false for element kinds
// that are not shaped (relations).
func (p *Processor) Process(raw *models.RawElement) (models.ShapedRecord, bool, error) {
	if raw == nil || !raw.Kind.IsShaped() {
		p.stats.Skipped++
		return nil, false, nil
	}

	rec := models.ShapedRecord{models.FieldType: string(raw.Kind)}

	if err := p.shapeAttributes(raw, rec); err != nil {
		return nil, false, fmt.Errorf("%s: %w", raw, err)
	}

	p.shapeTags(raw, rec)

	if raw.Kind == models.KindWay {
		refs := make([]string, len(raw.NodeRefs))
		copy(refs, raw.NodeRefs)
		rec[models.FieldNodeRefs] = refs
	}

	p.stats.Shaped++

	return rec, true, nil
}

func (p *Processor) shapeAttributes(raw *models.RawElement, rec models.ShapedRecord) error {
	for _, name := range raw.AttrOrder {
		if isReservedAttr(name) {
			continue
		}

		rec[name] = raw.Attrs[name]
	}

	created := make(map[string]string)
	for _, name := range createdAttrs {
		if v, ok := raw.Attr(name); ok {
			created[name] = v
		}
	}
	rec[models.FieldCreated] = created

	latStr, hasLat := raw.Attr(latAttr)
	lonStr, hasLon := raw.Attr(lonAttr)

	if !hasLat || !hasLon {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || !isFinite(lat) {
		return fmt.Errorf("%w: lat %q", ErrInvalidPosition, latStr)
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || !isFinite(lon) {
		return fmt.Errorf("%w: lon %q", ErrInvalidPosition, lonStr)
	}

	rec[models.FieldPos] = []float64{lat, lon}

	return nil
}

func (p *Processor) shapeTags(raw *models.RawElement, rec models.ShapedRecord) {
	address := make(map[string]string)

	for _, tag := range raw.Tags {
		value, keep := p.normalizeValue(tag)
		if !keep {
			continue
		}

		switch p.validator.KeyShape(tag.Key) {
		case ShapeNamespaced:
			prefix, suffix, _ := strings.Cut(tag.Key, ":")
			if prefix == addressPrefix {
				address[suffix] = value
			} else {
				rec[prefix+"-"+suffix] = value
			}
		case ShapePlain:
			rec[tag.Key] = value
		default:
			p.stats.DroppedKeys++
		}
	}

	if len(address) > 0 {
		rec[models.FieldAddress] = address
	}
}

// normalizeValue applies the rewrite selected by the tag's key class. It
// returns false when the tag must be left out of the record.
func (p *Processor) normalizeValue(tag models.Tag) (string, bool) {
	switch ClassifyKey(tag.Key) {
	case KeyStreet:
		fixed := p.transformer.NormalizeStreetName(tag.Value)
		if fixed != tag.Value {
			p.stats.StreetsFixed++
		}

		return fixed, true
	case KeyPostcode:
		if !p.validator.ValidPostcode(tag.Value) {
			p.stats.InvalidPostcodes++
			return "", false
		}

		code, err := p.transformer.NormalizePostcode(tag.Value)
		if err != nil {
			p.stats.InvalidPostcodes++
			return "", false
		}

		return code, true
	case KeyCounty:
		fixed := p.transformer.NormalizeCounty(tag.Value)
		if fixed != tag.Value {
			p.stats.CountiesFixed++
		}

		return fixed, true
	default:
		return tag.Value, true
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
