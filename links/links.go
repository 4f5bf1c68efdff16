// Package links finds http(s) URLs embedded in free-form message text.
package links

import (
	"iter"
	"regexp"
)

// word is the set of characters allowed in a domain label, minus the hyphen
// which has to close each bracket expression.
const word = `\p{L}\p{N}_`

// urlPattern captures the scheme, domain and path of a URL. The path must end
// on a character that is not sentence punctuation, so "see https://a.b/c!"
// yields "https://a.b/c".
var urlPattern = regexp.MustCompile(
	`(?P<scheme>https?)://` +
		`(?P<domain>[` + word + `-]+(?:\.[` + word + `-]+)+)` +
		`(?P<path>[` + word + `.,@?^=%&:/~+#-]*[` + word + `@?^=%&/~+#-])`,
)

var (
	schemeIdx = urlPattern.SubexpIndex("scheme")
	domainIdx = urlPattern.SubexpIndex("domain")
	pathIdx   = urlPattern.SubexpIndex("path")
)

// Extract returns the URLs found in text, left to right. Matches are found one
// at a time as the sequence is consumed, and the sequence can be ranged over
// any number of times.
func Extract(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for pos < len(text) {
			m := urlPattern.FindStringSubmatchIndex(text[pos:])
			if m == nil {
				return
			}
			rest := text[pos:]
			u := rest[m[2*schemeIdx]:m[2*schemeIdx+1]] + "://" +
				rest[m[2*domainIdx]:m[2*domainIdx+1]] +
				rest[m[2*pathIdx]:m[2*pathIdx+1]]
			if !yield(u) {
				return
			}
			pos += m[1]
		}
	}
}

// All collects every URL in text.
func All(text string) []string {
	var urls []string
	for u := range Extract(text) {
		urls = append(urls, u)
	}
	return urls
}

// Contains reports whether text holds at least one URL.
func Contains(text string) bool {
	for range Extract(text) {
		return true
	}
	return false
}
