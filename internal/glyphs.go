package internal

// Emoji digit scheme used by the token stream.
//
// Every signed integer is rendered in decimal and each digit is replaced by a
// fixed glyph. A minus sign never appears in a token: it is folded into a
// "candy" marker placed before the first digit of the magnitude, 🍭 when that
// digit is even and 🍬 when it is odd. Decoding maps glyphs back to digits and
// both candies back to '-'.
//
// Glyph set (0..9):
//   0: 🫐  1: 🦄  2: 🍼  3: 🩷  4: 🧸  5: 🎀  6: 🍓  7: 🌈  8: 🌸  9: 💕
//
// All glyphs are single code points, so reversing a token rune-wise is exact.

import (
	"fmt"
	"strconv"
	"strings"
)

// Base is the numeric base of the digit table.
const Base = 10

// Parity markers standing in for a minus sign.
const (
	CandyEven = '🍭'
	CandyOdd  = '🍬'
)

// Digits defines the ordered glyph for each decimal digit (0..9).
var Digits = []rune{'🫐', '🦄', '🍼', '🩷', '🧸', '🎀', '🍓', '🌈', '🌸', '💕'}

// Decode maps each digit glyph back to its ASCII digit.
var Decode = func() map[rune]rune {
	m := make(map[rune]rune, Base)
	for i, g := range Digits {
		m[g] = rune('0' + i)
	}
	return m
}()

// EncodeInt renders v as a glyph token.
func EncodeInt(v int) string {
	s := []rune(strconv.Itoa(v))
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		r := s[i]
		if r == '-' && i+1 < len(s) && isDigit(s[i+1]) {
			if (s[i+1]-'0')%2 == 0 {
				b.WriteRune(CandyEven)
			} else {
				b.WriteRune(CandyOdd)
			}
			continue
		}
		if isDigit(r) {
			b.WriteRune(Digits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DecodeInt parses a glyph token back into an integer. Runes outside the
// glyph table are passed through unchanged, so plain ASCII digits are
// accepted too.
func DecodeInt(tok string) (int, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(tok) {
		switch {
		case r == CandyEven || r == CandyOdd:
			b.WriteByte('-')
		default:
			if d, ok := Decode[r]; ok {
				b.WriteRune(d)
			} else {
				b.WriteRune(r)
			}
		}
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, fmt.Errorf("invalid token %q: %w", tok, ErrDecode)
	}
	return v, nil
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
