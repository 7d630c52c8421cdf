// Copyright (c) 2026 Huy Duc Le
// SPDX-License-Identifier: MIT

// Package norm normalizes Unicode strings at the boundary of every index in
// this module: keys are decomposed to NFD code points on the way in and
// recomposed to NFC UTF-8 on the way out, so that internal comparisons never
// have to reason about combining-mark order or precomposed-vs-decomposed
// forms. Vietnamese and other Latin-with-diacritics scripts routinely arrive
// in both forms, and a dictionary index that compared raw bytes would treat
// "e" + combining acute and precomposed "é" as different keys.
package norm

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned by ToCodepoints when the input bytes are not
// well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("norm: invalid UTF-8")

// ToCodepoints validates key as UTF-8 and returns its NFD code points.
func ToCodepoints(key string) ([]rune, error) {
	if !utf8.ValidString(key) {
		return nil, ErrInvalidUTF8
	}
	decomposed := norm.NFD.String(key)
	return []rune(decomposed), nil
}

// ToOutputBytes re-composes a code-point sequence to NFC UTF-8. It always
// succeeds: any well-formed rune sequence has a defined NFC form.
func ToOutputBytes(cp []rune) string {
	return norm.NFC.String(string(cp))
}
