// Package category maps free-text item names to grocery categories.
//
// Classification is a pure function of the input text: it has no state,
// performs no I/O and does not depend on the process locale.
package category

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rezkam/shoplist/internal/domain"
)

// Classify returns the category for an item text.
// The result is always a valid key; text that matches no rule is
// classified as domain.CategoryOther.
func Classify(text string) domain.CategoryKey {
	normalized := normalize(text)
	if normalized == "" {
		return domain.CategoryOther
	}

	// Leading space lets a single Contains check enforce a word boundary
	// on the left while still allowing prefix-of-word matches.
	padded := " " + normalized + " "

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(padded, " "+kw) {
				return r.key
			}
		}
	}

	return domain.CategoryOther
}

// Info returns the display metadata for key.
// It panics if key has no metadata, which can only happen when a
// category constant is added without a table entry.
func Info(key domain.CategoryKey) domain.CategoryInfo {
	info, ok := domain.LookupCategory(key)
	if !ok {
		panic(fmt.Sprintf("category: no metadata for key %q", key))
	}
	return info
}

// Lookup returns the display metadata for key and whether it exists.
func Lookup(key domain.CategoryKey) (domain.CategoryInfo, bool) {
	return domain.LookupCategory(key)
}

// normalize lowercases text and reduces it to single-space separated words.
// Punctuation and digits act as separators. Hebrew geresh and gershayim
// are dropped so abbreviations like קוטג' match their keyword.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	space := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == '\'' || r == '"' || r == '׳' || r == '״':
			continue
		case unicode.IsLetter(r) || unicode.IsMark(r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}
