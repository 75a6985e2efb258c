// Package categorizer assigns a spending category to free-text expense
// descriptions. A trained classifier is consulted first when one is
// configured; the keyword rules are always available as the fallback.
package categorizer

import (
	"errors"
	"strings"
	"unicode"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
)

// ErrClassifierUnavailable means the classifier could not produce a usable
// prediction. Callers fall back to the keyword rules.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Classifier predicts a category for a description.
type Classifier interface {
	Classify(text string) (domain.Category, error)
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
