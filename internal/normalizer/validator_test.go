package normalizer

import "testing"

func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidator_KeyShape(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		key  string
		want KeyShape
	}{
		{key: "name", want: ShapePlain},
		{key: "building_levels", want: ShapePlain},
		{key: "addr:street", want: ShapeNamespaced},
		{key: "tiger:name_base", want: ShapeNamespaced},
		{key: "addr:street:name", want: ShapeInvalid},
		{key: "Name", want: ShapeInvalid},
		{key: "name_1", want: ShapeInvalid},
		{key: "fire-hydrant", want: ShapeInvalid},
		{key: "bad key", want: ShapeInvalid},
		{key: "a&b", want: ShapeInvalid},
		{key: "a.b", want: ShapeInvalid},
		{key: "a\tb", want: ShapeInvalid},
		{key: "addr:", want: ShapeInvalid},
		{key: ":street", want: ShapeInvalid},
		{key: "", want: ShapeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := v.KeyShape(tt.key); got != tt.want {
				t.Errorf("KeyShape(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidator_HasProblemChars(t *testing.T) {
	v := NewValidator()

	for _, c := range problemChars {
		key := "ab" + string(c) + "cd"
		if !v.HasProblemChars(key) {
			t.Errorf("HasProblemChars(%q) = false, want true", key)
		}
	}

	if v.HasProblemChars("addr:street") {
		t.Error("HasProblemChars(addr:street) = true, want false")
	}
}

func TestValidator_ValidPostcode(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "94043", want: true},
		{in: "94043-1234", want: true},
		{in: "CA 94043", want: true},
		{in: "CA 94043-1234", want: true},
		{in: "94043\n", want: true},
		{in: "94043\n\n", want: false},
		{in: "9404", want: false},
		{in: "94043-", want: false},
		{in: "CA", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := v.ValidPostcode(tt.in); got != tt.want {
				t.Errorf("ValidPostcode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyKey(t *testing.T) {
	tests := map[string]KeyClass{
		"addr:street":      KeyStreet,
		"addr:postcode":    KeyPostcode,
		"addr:county":      KeyCounty,
		"addr:city":        KeyOther,
		"tiger:county":     KeyOther,
		"addr:street:name": KeyOther,
	}

	for key, want := range tests {
		if got := ClassifyKey(key); got != want {
			t.Errorf("ClassifyKey(%q) = %s, want %s", key, got, want)
		}
	}
}
