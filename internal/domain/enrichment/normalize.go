package enrichment

import (
	"strings"

	"golang.org/x/text/width"
)

// normalizeText folds full-width ASCII and half-width katakana to their
// canonical forms and lowercases the result. Seller text mixes widths
// freely, so every keyword scan goes through this first.
func normalizeText(s string) string {
	return strings.ToLower(width.Fold.String(s))
}
