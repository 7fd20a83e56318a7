package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize canonicalizes text for matching: NFKC composition, full-width
// to half-width folding, then lower-casing. Review text mixes full-width
// punctuation and Latin letters freely; vocabulary words and input must
// collapse to the same form.
func Normalize(s string) string {
	return strings.ToLower(width.Fold.String(norm.NFKC.String(s)))
}
