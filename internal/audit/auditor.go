// Package audit collects street types, postcodes and counties that look
// wrong in a map extract, without changing anything.
package audit

import (
	"cmp"
	"slices"

	"osmaudit/internal/models"
	"osmaudit/internal/normalizer"
)

// Auditor accumulates suspect values over a single pass. It is not safe for
// concurrent use.
type Auditor struct {
	vocab       *normalizer.Vocabulary
	streetTypes map[string]map[string]struct{}
	postcodes   map[string]int
	counties    map[string]int
	elements    int
}

// NewAuditor creates an auditor using the compiled-in vocabulary.
func NewAuditor() *Auditor {
	return NewAuditorWithVocabulary(normalizer.DefaultVocabulary())
}

// NewAuditorWithVocabulary creates an auditor that treats tokens known to vocab as fine.
func NewAuditorWithVocabulary(vocab *normalizer.Vocabulary) *Auditor {
	return &Auditor{
		vocab:       vocab,
		streetTypes: make(map[string]map[string]struct{}),
		postcodes:   make(map[string]int),
		counties:    make(map[string]int),
	}
}

// AuditStreetName records name under every street-type token it ends with
// that is neither expected nor correctable.
func (a *Auditor) AuditStreetName(name string) {
	for _, m := range normalizer.MatchStreetTypes(name) {
		if a.vocab.IsKnown(m.Token) {
			continue
		}

		names, ok := a.streetTypes[m.Token]
		if !ok {
			names = make(map[string]struct{})
			a.streetTypes[m.Token] = names
		}

		names[name] = struct{}{}
	}
}

// AuditElement inspects the address tags of a node or way. Other kinds are ignored.
func (a *Auditor) AuditElement(raw *models.RawElement) {
	if raw == nil || !raw.Kind.IsShaped() {
		return
	}

	a.elements++

	for _, tag := range raw.Tags {
		switch normalizer.ClassifyKey(tag.Key) {
		case normalizer.KeyStreet:
			a.AuditStreetName(tag.Value)
		case normalizer.KeyPostcode:
			a.postcodes[tag.Value]++
		case normalizer.KeyCounty:
			a.counties[tag.Value]++
		}
	}
}

// StreetTypeEntry lists the names that end with one suspect token.
type StreetTypeEntry struct {
	Token string   `json:"token"`
	Names []string `json:"names"`
}

// CountEntry is a raw value and how often it occurred.
type CountEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report is a sorted snapshot of an audit.
type Report struct {
	StreetTypes []StreetTypeEntry `json:"streetTypes"`
	Postcodes   []CountEntry      `json:"postcodes"`
	Counties    []CountEntry      `json:"counties"`
	Elements    int               `json:"elements"`
}

// Suspects returns the suspect names recorded for token.
func (r *Report) Suspects(token string) []string {
	for _, e := range r.StreetTypes {
		if e.Token == token {
			return e.Names
		}
	}

	return nil
}

// Report returns the current state. Street types are ordered by token, counts
// by descending frequency and then value.
func (a *Auditor) Report() *Report {
	r := &Report{
		Elements:  a.elements,
		Postcodes: sortedCounts(a.postcodes),
		Counties:  sortedCounts(a.counties),
	}

	for token, names := range a.streetTypes {
		entry := StreetTypeEntry{Token: token}
		for n := range names {
			entry.Names = append(entry.Names, n)
		}
		slices.Sort(entry.Names)
		r.StreetTypes = append(r.StreetTypes, entry)
	}

	slices.SortFunc(r.StreetTypes, func(x, y StreetTypeEntry) int {
		return cmp.Compare(x.Token, y.Token)
	})

	return r
}

func sortedCounts(m map[string]int) []CountEntry {
	out := make([]CountEntry, 0, len(m))
	for v, c := range m {
		out = append(out, CountEntry{Value: v, Count: c})
	}

	slices.SortFunc(out, func(x, y CountEntry) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}

		return cmp.Compare(x.Value, y.Value)
	})

	return out
}
