// Package wordrule decides whether a word may extend a word chain.
package wordrule

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mcoot/wordchain-go/internal/model"
)

// DefaultMinLength is the minimum word length in runes
const DefaultMinLength = 2

// Hangul syllables block
const (
	hangulFirst = '\uAC00'
	hangulLast  = '\uD7A3'
)

// Dictionary is the lookup the validator consults when one is attached
type Dictionary interface {
	IsLoaded() bool
	Contains(word string) bool
}

// Validator checks words against the chain rules. It holds no game state.
type Validator struct {
	minLength int
	dict      Dictionary
}

// New creates a validator. A minLength below 1 falls back to DefaultMinLength.
func New(minLength int) *Validator {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return &Validator{minLength: minLength}
}

// WithDictionary returns a copy of the validator that also rejects words
// missing from a loaded dictionary
func (v *Validator) WithDictionary(dict Dictionary) *Validator {
	c := *v
	c.dict = dict
	return &c
}

// MinLength returns the configured minimum length
func (v *Validator) MinLength() int {
	return v.minLength
}

// Validate checks a normalized word against the words already played this round.
// The first failing rule is reported as a *model.InvalidWordError.
func (v *Validator) Validate(word string, words []string) error {
	if utf8.RuneCountInString(word) < v.minLength {
		return model.NewInvalidWordError(word, model.RejectTooShort)
	}

	for _, r := range word {
		if r < hangulFirst || r > hangulLast {
			return model.NewInvalidWordError(word, model.RejectInvalidCharacters)
		}
	}

	if len(words) > 0 {
		last, _ := utf8.DecodeLastRuneInString(words[len(words)-1])
		first, _ := utf8.DecodeRuneInString(word)
		if first != last {
			return model.NewInvalidWordError(word, model.RejectChainMismatch)
		}
	}

	if slices.Contains(words, word) {
		return model.NewInvalidWordError(word, model.RejectAlreadyUsed)
	}

	if v.dict != nil && v.dict.IsLoaded() && !v.dict.Contains(word) {
		return model.NewInvalidWordError(word, model.RejectNotInDictionary)
	}

	return nil
}

// Normalize trims surrounding whitespace and composes the word to NFC
func Normalize(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}
