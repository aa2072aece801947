package internal

import (
	"fmt"
	"strings"
)

// EncodeVerified encodes message and then immediately decodes the result
// with the same key, comparing against the recognized characters of the
// message in order. If verification fails for any reason, an error is
// returned and no token stream is produced.
//
// Unrecognized characters are dropped by the encoder, so the comparison is
// against Normalize(message), not message itself.
func EncodeVerified(c *Cipher, key, message string) (string, error) {
	stream, err := c.Encode(key, message)
	if err != nil {
		return "", err
	}
	if stream == "" {
		return "", nil
	}
	want := Normalize(message)

	got, err := c.Decode(key, stream)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if got != want {
		return "", fmt.Errorf("%w: decoded %d characters, want %d", ErrVerify, len([]rune(got)), len([]rune(want)))
	}
	return stream, nil
}

// VerifyRoundTrip checks that message survives an encode/decode cycle under
// key. It is equivalent to calling EncodeVerified and discarding the stream.
func VerifyRoundTrip(c *Cipher, key, message string) error {
	_, err := EncodeVerified(c, key, message)
	return err
}

// Normalize uppercases message and drops characters that are not on the grid.
func Normalize(message string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(message) {
		if _, ok := CoordOf(r); ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
