package internal

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"strings"
	"time"
)

// RunSelfTest generates randomized messages of the lengths given in sets,
// prints each message with its token stream, verifies exact round-trip
// decoding, and returns the number of failed sets.
//
// Parameters:
// - w:      destination for the report
// - c:      cipher under test
// - keyStr: key to encode with; a degenerate key fails every set
// - sets:   slice of message lengths (e.g., []int{12, 24})
// - title:  heading to print once at the top (empty to skip)
func RunSelfTest(w io.Writer, c *Cipher, keyStr string, sets []int, title string) int {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	symbols := Symbols()
	failed := 0

	if title != "" {
		fmt.Fprintln(w, Style(title, Bold, Lilac))
	}

	for si, sz := range sets {
		var sb strings.Builder
		for i := 0; i < sz; i++ {
			sb.WriteRune(symbols[r.Intn(len(symbols))])
		}
		msg := sb.String()

		stream, err := EncodeVerified(c, keyStr, msg)
		okAll := err == nil

		// Only print "Set N:" when multiple sets are requested
		if len(sets) > 1 {
			fmt.Fprintln(w, Style(fmt.Sprintf("Set %d:", si+1), Bold, Lilac))
		}
		fmt.Fprintf(w, "  Message: %q\n", msg)
		if okAll {
			fmt.Fprintf(w, "  Tokens:  %s\n", stream)
		} else {
			fmt.Fprintf(w, "  Error:   %v\n", err)
		}

		result := "PASSED"
		if !okAll {
			result = "FAILED"
			failed++
		}
		fmt.Fprintln(w, Style(fmt.Sprintf("  Result: %s (%d characters)", result, sz), Bold))
	}

	// Summary (only when multiple sets)
	if len(sets) > 1 {
		fmt.Fprintf(w, "%s %d, %s %d\n",
			Style("Total sets:", Bold), len(sets),
			Style("Failed:", Bold), failed)
	}

	return failed
}

// RandomKey returns a crypto-random key of n grid letters whose matrix is
// invertible under c. Falls back to "LOVE" on any failure.
func RandomKey(c *Cipher, n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for attempt := 0; attempt < 32; attempt++ {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			v, err := crand.Int(crand.Reader, big.NewInt(int64(len(letters))))
			if err != nil {
				return "LOVE"
			}
			sb.WriteByte(letters[v.Int64()])
		}
		if _, err := c.Matrix(sb.String()); err == nil {
			return sb.String()
		}
	}
	return "LOVE"
}
