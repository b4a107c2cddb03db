package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StreetTypeMatch is a street-type token located inside a street name.
type StreetTypeMatch struct {
	Token string
	Start int
	End   int
}

// streetTypeMatcher finds a candidate street-type token in a name.
type streetTypeMatcher struct {
	name string
	find func(name string) (StreetTypeMatch, bool)
}

// trailingNumber is a suite or route number closing a street name.
var trailingNumber = regexp.MustCompile(` #?[0-9]+\n?$`)

// streetTypeMatchers are tried in order. The first takes the last word of the
// name ("300 Bernal Ave."); the second takes the word before a trailing suite
// or route number ("20 Cal Avenue #32", "15 Stevens Creek Hwy 2").
var streetTypeMatchers = []streetTypeMatcher{
	{name: "trailing", find: findTrailingWord},
	{name: "before_number", find: findWordBeforeNumber},
}

// MatchStreetTypes returns the candidate street-type tokens of name, one per
// matching pattern, in pattern order.
func MatchStreetTypes(name string) []StreetTypeMatch {
	var out []StreetTypeMatch

	for _, m := range streetTypeMatchers {
		if match, ok := m.find(name); ok {
			out = append(out, match)
		}
	}

	return out
}

func findTrailingWord(name string) (StreetTypeMatch, bool) {
	return lastWord(name, strings.TrimSuffix(name, "\n"))
}

func findWordBeforeNumber(name string) (StreetTypeMatch, bool) {
	loc := trailingNumber.FindStringIndex(name)
	if loc == nil {
		return StreetTypeMatch{}, false
	}

	return lastWord(name, name[:loc[0]])
}

// lastWord locates the final whitespace-delimited word of prefix, a prefix of
// name. The token starts at the first letter, digit or underscore of that
// word, so "Grv #4" gives "4". A prefix ending in whitespace has no token.
func lastWord(name, prefix string) (StreetTypeMatch, bool) {
	start := 0
	if i := strings.LastIndexFunc(prefix, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(prefix[i:])
		start = i + size
	}

	word := prefix[start:]

	i := strings.IndexFunc(word, isWordRune)
	if i < 0 {
		return StreetTypeMatch{}, false
	}

	start += i

	return StreetTypeMatch{Token: name[start:len(prefix)], Start: start, End: len(prefix)}, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// replaceSpan substitutes the matched token and keeps the rest of name intact.
func replaceSpan(name string, m StreetTypeMatch, with string) string {
	return name[:m.Start] + with + name[m.End:]
}
