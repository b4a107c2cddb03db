package normalizer

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer()
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_NormalizeStreetName(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Abbreviated road", in: "2700 Middlefield Rd", want: "2700 Middlefield Road"},
		{name: "Abbreviation with period", in: "300 Bernal Ave.", want: "300 Bernal Avenue"},
		{name: "Lowercase street", in: "100 Main st", want: "100 Main Street"},
		{name: "Suite number with hash", in: "20 Cal Ave #32", want: "20 Cal Avenue #32"},
		{name: "Route number", in: "15 Stevens Creek Hwy 2", want: "15 Stevens Creek Highway 2"},
		{name: "Only the trailing token changes", in: "St Francis Dr", want: "St Francis Drive"},
		{name: "Already canonical", in: "900 Cy Ranch Drive", want: "900 Cy Ranch Drive"},
		{name: "Canonical before number", in: "20 Cal Avenue #32", want: "20 Cal Avenue #32"},
		{name: "Center abbreviation", in: "1 Castro Ctr", want: "1 Castro Center"},
		{name: "Unmapped token", in: "Broadway", want: "Broadway"},
		{name: "Single canonical word", in: "Way", want: "Way"},
		{name: "No-break space separator", in: "Main\u00a0St", want: "Main\u00a0Street"},
		{name: "Non-ASCII words before token", in: "Calle Peñón Blvd", want: "Calle Peñón Boulevard"},
		{name: "Trailing newline", in: "12 Oak St\n", want: "12 Oak Street\n"},
		{name: "Trailing space", in: "12 Oak St ", want: "12 Oak St "},
		{name: "Empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.NormalizeStreetName(tt.in); got != tt.want {
				t.Errorf("NormalizeStreetName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformer_NormalizeStreetName_EveryCorrection(t *testing.T) {
	tr := NewTransformer()

	for token, fixed := range streetTypeCorrections {
		in := "123 Sample " + token
		want := "123 Sample " + fixed

		if got := tr.NormalizeStreetName(in); got != want {
			t.Errorf("NormalizeStreetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransformer_NormalizeStreetName_Idempotent(t *testing.T) {
	tr := NewTransformer()

	var names []string
	for _, word := range expectedStreetTypes {
		names = append(names, "42 Oak "+word, "42 Oak "+word+" #7")
	}

	for token := range streetTypeCorrections {
		names = append(names, "42 Oak "+token)
	}

	for _, name := range names {
		once := tr.NormalizeStreetName(name)
		twice := tr.NormalizeStreetName(once)

		if once != twice {
			t.Errorf("NormalizeStreetName not idempotent for %q: %q then %q", name, once, twice)
		}
	}
}

func TestTransformer_NormalizeStreetName_CustomVocabulary(t *testing.T) {
	tr := NewTransformerWithVocabulary(NewVocabulary([]string{"Gasse"}, map[string]string{"G.": "Gasse"}))

	if got := tr.NormalizeStreetName("Lange G."); got != "Lange Gasse" {
		t.Errorf("NormalizeStreetName = %q, want Lange Gasse", got)
	}

	if got := tr.NormalizeStreetName("Main St"); got != "Main St" {
		t.Errorf("NormalizeStreetName = %q, want Main St unchanged", got)
	}
}

func TestTransformer_NormalizePostcode(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		in   string
		want string
	}{
		{in: "94043", want: "94043"},
		{in: "94043-1234", want: "94043-1234"},
		{in: "CA 94043", want: "94043"},
		{in: "CA 94043-1234", want: "94043-1234"},
		{in: "940431", want: "40431"},
		{in: "94043\n", want: "94043"},
		{in: "94043-1234\n", want: "94043-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tr.NormalizePostcode(tt.in)
			if err != nil {
				t.Fatalf("NormalizePostcode returned unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("NormalizePostcode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformer_NormalizePostcode_Invalid(t *testing.T) {
	tr := NewTransformer()

	for _, in := range []string{"9404", "CA", "94043-12", ""} {
		if _, err := tr.NormalizePostcode(in); !errors.Is(err, ErrInvalidPostcode) {
			t.Errorf("NormalizePostcode(%q) error = %v, want ErrInvalidPostcode", in, err)
		}
	}
}

func TestTransformer_NormalizeCounty(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Santa Clara County", want: "Santa Clara"},
		{in: "Santa Clara", want: "Santa Clara"},
		{in: "San Mateo county", want: "San Mateo"},
		{in: "MARIN COUNTY", want: "MARIN"},
		{in: "County", want: "County"},
		{in: "Orange County Park", want: "Orange County Park"},
		{in: "Marin County\n", want: "Marin"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := tr.NormalizeCounty(tt.in); got != tt.want {
				t.Errorf("NormalizeCounty(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchStreetTypes(t *testing.T) {
	matches := MatchStreetTypes("15 Stevens Creek Hwy 2")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	if matches[0].Token != "2" {
		t.Errorf("trailing token = %q, want 2", matches[0].Token)
	}

	if matches[1].Token != "Hwy" {
		t.Errorf("token before number = %q, want Hwy", matches[1].Token)
	}

	if got := MatchStreetTypes("Main Street"); len(got) != 1 || got[0].Token != "Street" {
		t.Errorf("MatchStreetTypes(Main Street) = %+v", got)
	}

	if got := MatchStreetTypes(""); len(got) != 0 {
		t.Errorf("MatchStreetTypes(\"\") = %+v, want none", got)
	}
}

func TestMatchStreetTypes_Tokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "Period kept", in: "300 Bernal Ave.", want: []string{"Ave."}},
		{name: "Non-ASCII first letter", in: "Rue Étoile", want: []string{"Étoile"}},
		{name: "No-break space separator", in: "Main\u00a0St", want: []string{"St"}},
		{name: "Token starts at first word character", in: "Oak Grv #4", want: []string{"4", "Grv"}},
		{name: "No-break space before number", in: "Oak Grv\u00a0#4", want: []string{"4"}},
		{name: "Trailing newline", in: "Main St\n", want: []string{"St"}},
		{name: "Only punctuation", in: "Main #", want: nil},
		{name: "Trailing space", in: "Main St ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range MatchStreetTypes(tt.in) {
				got = append(got, m.Token)

				if tt.in[m.Start:m.End] != m.Token {
					t.Errorf("span [%d:%d] = %q, want %q", m.Start, m.End, tt.in[m.Start:m.End], m.Token)
				}
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchStreetTypes(%q) tokens = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVocabulary(t *testing.T) {
	v := DefaultVocabulary()

	if !v.IsExpected("Street") || v.IsExpected("St") {
		t.Error("IsExpected mismatch for Street/St")
	}

	if fixed, ok := v.Correction("Blvd."); !ok || fixed != "Boulevard" {
		t.Errorf("Correction(Blvd.) = %q, %v", fixed, ok)
	}

	if !v.IsKnown("Rd") || !v.IsKnown("Road") || v.IsKnown("Broadway") {
		t.Error("IsKnown mismatch")
	}
}
