package normalizer

// KeyClass selects the value rewrite applied to a tag.
type KeyClass int

// Tag key classes.
const (
	KeyOther KeyClass = iota
	KeyStreet
	KeyPostcode
	KeyCounty
)

// Tag keys whose values are normalized.
const (
	StreetKey   = "addr:street"
	PostcodeKey = "addr:postcode"
	CountyKey   = "addr:county"
)

const addressPrefix = "addr"

var keyClasses = map[string]KeyClass{
	StreetKey:   KeyStreet,
	PostcodeKey: KeyPostcode,
	CountyKey:   KeyCounty,
}

// ClassifyKey returns the class of a tag key.
func ClassifyKey(key string) KeyClass {
	return keyClasses[key]
}

// String returns the class name.
func (c KeyClass) String() string {
	switch c {
	case KeyStreet:
		return "street"
	case KeyPostcode:
		return "postcode"
	case KeyCounty:
		return "county"
	default:
		return "other"
	}
}
