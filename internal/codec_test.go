package internal_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"cypherkiss/internal"

	"github.com/stretchr/testify/require"
)

func simpleCipher() *internal.Cipher {
	return internal.NewCipher(internal.SimpleSchedule{}, nil)
}

// TestEncodeVectors pins streams produced under the simple schedule.
func TestEncodeVectors(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	tests := []struct {
		name, key, msg, want string
	}{
		{"single char", "A", "A", "🦄,🦄 | MOVES: "},
		{"one move", "A", "HI", "🫐🩷,🎀🦄 | MOVES: (🍭🍓,🦄🩷)"},
		{"two moves", "A", "HEY", "🫐🩷,🎀🦄 | MOVES: (🍭🧸,🍬🦄) (🍓🍼🍭,🧸🍭)"},
		{"lowercase message", "A", "hey", "🫐🩷,🎀🦄 | MOVES: (🍭🧸,🍬🦄) (🍓🍼🍭,🧸🍭)"},
		{"lowercase key", "a", "HEY", "🫐🩷,🎀🦄 | MOVES: (🍭🧸,🍬🦄) (🍓🍼🍭,🧸🍭)"},
		{"skips unknown", "A", "H-E~Y", "🫐🩷,🎀🦄 | MOVES: (🍭🧸,🍬🦄) (🍓🍼🍭,🧸🍭)"},
		{"love", "LOVE", "HELLO", "🫐🩷,🩷🍼 | MOVES: (🍭🧸,🫐) (🍼🍼🍭,🩷🦄🍬) (🫐,🫐) (🦄,🌸🦄)"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Encode(tc.key, tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEncodePeppered(t *testing.T) {
	t.Parallel()

	c := internal.NewCipher(internal.NewPepperedSchedule(internal.DefaultPepper, internal.DefaultIterations), nil)
	got, err := c.Encode("A", "HELLO")
	require.NoError(t, err)
	require.Equal(t, "💕🦄,💕🦄 | MOVES: (🌸,🦄) (🍼🍭,🧸) (🫐,🫐) (🌈🦄🍬,🍓)", got)

	msg, err := c.Decode("A", got)
	require.NoError(t, err)
	require.Equal(t, "HELLO", msg)

	// A different pepper cannot read it back.
	other := internal.NewCipher(internal.NewPepperedSchedule("another-pepper", internal.DefaultIterations), nil)
	msg, err = other.Decode("A", got)
	if err == nil {
		require.NotEqual(t, "HELLO", msg)
	}
}

// TestMirrorRule checks that move 2 is reversed and move 1 is not.
func TestMirrorRule(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	pts, err := c.Points("A", "HEY")
	require.NoError(t, err)
	require.Equal(t, []internal.Point{{X: 30, Y: 15}, {X: 26, Y: 14}, {X: 0, Y: 10}}, pts)

	stream, err := c.Encode("A", "HEY")
	require.NoError(t, err)
	moves := strings.Fields(strings.SplitN(stream, internal.MovesSep, 2)[1])
	require.Len(t, moves, 2)

	m1 := "(" + internal.EncodeInt(26-30) + "," + internal.EncodeInt(14-15) + ")"
	m2 := "(" + internal.Reverse(internal.EncodeInt(0-26)) + "," + internal.Reverse(internal.EncodeInt(10-14)) + ")"
	require.Equal(t, m1, moves[0])
	require.Equal(t, m2, moves[1])

	header := strings.SplitN(stream, internal.MovesSep, 2)[0]
	require.Equal(t, internal.Reverse(internal.EncodeInt(30))+","+internal.Reverse(internal.EncodeInt(15)), header)

	// Decoding with the parities swapped must not give the message back.
	swapped := header + internal.MovesSep + "(" + internal.Reverse(strings.Trim(moves[0], "()")) + ") " + moves[1]
	got, err := c.Decode("A", swapped)
	if err == nil {
		require.NotEqual(t, "HEY", got)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	all := string(internal.Symbols())
	msgs := []string{
		"A", "HI", "HEY", "I LOVE YOU!", "hello, world?", all,
		strings.Repeat("AB", 20), "    ", "1234567890", "??..!!,,",
	}
	for _, key := range []string{"A", "B", "LOVE", "kiss me", "cyfer 2024"} {
		for _, msg := range msgs {
			stream, err := c.Encode(key, msg)
			require.NoError(t, err)
			got, err := c.Decode(key, stream)
			require.NoError(t, err)
			require.Equalf(t, strings.ToUpper(msg), got, "key %q", key)
		}
	}
}

// TestRoundTripRandom covers random keys and grid messages with a fixed seed.
func TestRoundTripRandom(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	r := rand.New(rand.NewSource(31))
	symbols := internal.Symbols()
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	checked := 0
	for checked < 200 {
		kb := make([]byte, 1+r.Intn(12))
		for i := range kb {
			kb[i] = letters[r.Intn(len(letters))]
		}
		key := string(kb)
		if _, err := c.Matrix(key); err != nil {
			require.True(t, errors.Is(err, internal.ErrDegenerateKey))
			continue
		}

		mr := make([]rune, 1+r.Intn(40))
		for i := range mr {
			mr[i] = symbols[r.Intn(len(symbols))]
		}
		msg := string(mr)

		stream, err := c.Encode(key, msg)
		require.NoError(t, err)
		got, err := c.Decode(key, stream)
		require.NoError(t, err)
		require.Equal(t, msg, got)
		checked++
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	first, err := c.Encode("LOVE", "I LOVE YOU!")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := simpleCipher().Encode("LOVE", "I LOVE YOU!")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestKeySensitivity(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	a, err := c.Encode("LOVE", "HELLO")
	require.NoError(t, err)
	b, err := c.Encode("LOVF", "HELLO")
	require.NoError(t, err)
	require.Equal(t, "🍓,🫐🩷 | MOVES: (🍼🍼,🍬🎀) (🌸🍭,🦄) (🫐,🫐) (🎀,💕🍬)", b)
	require.NotEqual(t, a, b)
}

func TestDegenerateKey(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	for _, key := range []string{"Z", "z", "CYFER"} {
		out, err := c.Encode(key, "HELLO")
		require.Truef(t, errors.Is(err, internal.ErrDegenerateKey), "encode with %q", key)
		require.Empty(t, out)

		out, err = c.Decode(key, "🦄,🦄 | MOVES: (🦄,🦄)")
		require.Truef(t, errors.Is(err, internal.ErrDegenerateKey), "decode with %q", key)
		require.Empty(t, out)

		_, err = c.Points(key, "HELLO")
		require.True(t, errors.Is(err, internal.ErrDegenerateKey))
	}
}

func TestKeyRequired(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	_, err := c.Encode("  ", "HELLO")
	require.True(t, errors.Is(err, internal.ErrKeyRequired))
	_, err = c.Decode("", "🦄,🦄")
	require.True(t, errors.Is(err, internal.ErrKeyRequired))
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	for _, msg := range []string{"", "~~~", "é-é", "\n\t"} {
		pts, err := c.Points("A", msg)
		require.NoError(t, err)
		require.Empty(t, pts)

		out, err := c.Encode("A", msg)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	for _, in := range []string{
		"🦄,🦄",
		"🦄,🦄 | MOVES: ",
		"🦄,🦄 | MOVES:",
		"🦄,🦄 |",
		"  🦄 , 🦄  ",
	} {
		got, err := c.Decode("A", in)
		require.NoErrorf(t, err, "input %q", in)
		require.Equal(t, "A", got)
	}

	// (0,0) is off the grid.
	got, err := c.Decode("A", "🫐,🫐")
	require.NoError(t, err)
	require.Equal(t, "?", got)
}

func TestDecodeUnknownCoordinate(t *testing.T) {
	t.Parallel()

	// Header (1,1) is 'A'; the move lands on (2,1), which the inverse
	// matrix (23 11; 2 18) sends to (26,22), off the grid.
	got, err := simpleCipher().Decode("A", "🦄,🦄 | MOVES: (🦄,🫐)")
	require.NoError(t, err)
	require.Equal(t, "A?", got)
}

func TestDecodeStripsHint(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	stream, err := c.Encode("A", "HI")
	require.NoError(t, err)

	got, err := c.Decode("A", internal.ShareText(stream, "our first date"))
	require.NoError(t, err)
	require.Equal(t, "HI", got)

	got, err = c.Decode("A", "\n  "+stream+"  Hint: x | y | z")
	require.NoError(t, err)
	require.Equal(t, "HI", got)
}

func TestDecodeMultilineMoves(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	stream, err := c.Encode("LOVE", "HELLO")
	require.NoError(t, err)

	wrapped := strings.ReplaceAll(stream, ") (", ")\n(")
	got, err := c.Decode("LOVE", wrapped)
	require.NoError(t, err)
	require.Equal(t, "HELLO", got)
}

func TestDecodeFailures(t *testing.T) {
	t.Parallel()

	c := simpleCipher()
	tests := []struct {
		name, in string
	}{
		{"empty", ""},
		{"only hint", "Hint: nothing here"},
		{"no comma", "garbage"},
		{"three header tokens", "🦄,🦄,🦄"},
		{"too many bars", "🦄,🦄 | MOVES: (🦄,🦄) | (🦄,🦄)"},
		{"unbalanced open", "🦄,🦄 | MOVES: (🦄,🦄"},
		{"unbalanced close", "🦄,🦄 | MOVES: 🦄,🦄)"},
		{"nested", "🦄,🦄 | MOVES: ((🦄,🦄))"},
		{"stray text", "🦄,🦄 | MOVES: (🦄,🦄) love"},
		{"single token move", "🦄,🦄 | MOVES: (🦄)"},
		{"empty move", "🦄,🦄 | MOVES: ()"},
		{"bad header token", "❤,🦄"},
		{"bad move token", "🦄,🦄 | MOVES: (🦄🍬🍬,🦄)"},
		{"candy after digit", "🦄,🦄 | MOVES: (🦄🍭,🦄)"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Decode("A", tc.in)
			require.Error(t, err)
			require.Truef(t, errors.Is(err, internal.ErrDecode), "got %v", err)
			require.Empty(t, got)
		})
	}
}

// TestDecodeLargeDeltas checks that deltas far outside the plane decode by
// their residue mod 31 instead of overflowing.
func TestDecodeLargeDeltas(t *testing.T) {
	t.Parallel()

	const big = 5 << 59 // 18 mod 31
	c := simpleCipher()
	tests := []struct {
		dx, dy int
		want   string
	}{
		{big, 0, "AT"},
		{18, 0, "AT"},
		{-big, 3 * big, "A?"},
	}
	for _, tc := range tests {
		stream := "🦄,🦄 | MOVES: (" + internal.EncodeInt(tc.dx) + "," + internal.EncodeInt(tc.dy) + ")"
		got, err := c.Decode("A", stream)
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "delta (%d,%d)", tc.dx, tc.dy)
	}

	got, err := c.Decode("A", internal.Reverse(internal.EncodeInt(big+1))+",🦄")
	require.NoError(t, err)
	require.Equal(t, string(internal.CharAt(mustInverse(t, c, "A").Unapply(internal.Point{X: 19, Y: 1}))), got)
}

func mustInverse(t *testing.T, c *internal.Cipher, key string) internal.Matrix {
	t.Helper()
	m, err := c.Matrix(key)
	require.NoError(t, err)
	inv, err := m.Inverse()
	require.NoError(t, err)
	return inv
}
