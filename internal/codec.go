package internal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Wire format pieces.
const (
	MovesSep   = " | MOVES: "
	movesLabel = "MOVES:"
)

var moveGroup = regexp.MustCompile(`\(([^()]*)\)`)

// Cipher encodes and decodes messages under keys derived by a Schedule.
// It holds no per-call state and recomputes the matrix on every call.
type Cipher struct {
	schedule Schedule
	log      hclog.Logger
}

// NewCipher returns a Cipher using schedule. A nil logger discards output.
func NewCipher(schedule Schedule, log hclog.Logger) *Cipher {
	if schedule == nil {
		schedule = SimpleSchedule{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Cipher{schedule: schedule, log: log}
}

// Matrix derives the key matrix for key and checks that it is invertible.
func (c *Cipher) Matrix(key string) (Matrix, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return Matrix{}, err
	}
	m := c.schedule.Derive(k)
	if !m.Invertible() {
		c.log.Debug("rejecting key", "det", m.Det())
		return Matrix{}, ErrDegenerateKey
	}
	return m, nil
}

// Points maps each recognized character of message to its transformed point.
// Unrecognized characters are skipped.
func (c *Cipher) Points(key, message string) ([]Point, error) {
	m, err := c.Matrix(key)
	if err != nil {
		return nil, err
	}
	return transform(m, message), nil
}

func transform(m Matrix, message string) []Point {
	var pts []Point
	for _, r := range strings.ToUpper(message) {
		coord, ok := CoordOf(r)
		if !ok {
			continue
		}
		pts = append(pts, m.Apply(coord))
	}
	return pts
}

// Encode turns message into a token stream:
//
//	"{hx},{hy} | MOVES: (dx,dy) (dx,dy) ..."
//
// The header tokens are always reversed. Moves are deltas between
// consecutive points and every second move (2, 4, 6, ...) has both of its
// tokens reversed. A message with no recognized characters yields "".
func (c *Cipher) Encode(key, message string) (string, error) {
	pts, err := c.Points(key, message)
	if err != nil {
		return "", err
	}
	if len(pts) == 0 {
		c.log.Debug("nothing to encode")
		return "", nil
	}

	header := Reverse(EncodeInt(pts[0].X)) + "," + Reverse(EncodeInt(pts[0].Y))

	moves := make([]string, 0, len(pts)-1)
	for move := 1; move < len(pts); move++ {
		prev, cur := pts[move-1], pts[move]
		dx := EncodeInt(cur.X - prev.X)
		dy := EncodeInt(cur.Y - prev.Y)
		if mirrored(move) {
			dx, dy = Reverse(dx), Reverse(dy)
		}
		moves = append(moves, "("+dx+","+dy+")")
	}

	c.log.Debug("encoded message", "points", len(pts), "moves", len(moves))
	return header + MovesSep + strings.Join(moves, " "), nil
}

// Decode reverses Encode. Anything after the first "Hint:" is ignored. A
// header without a moves section decodes to a single character. Every
// structural problem is reported as ErrDecode with no partial output.
func (c *Cipher) Decode(key, stream string) (string, error) {
	m, err := c.Matrix(key)
	if err != nil {
		return "", err
	}
	inv, err := m.Inverse()
	if err != nil {
		return "", err
	}

	out, err := decodeStream(inv, StripHint(stream))
	if err != nil {
		c.log.Debug("decode rejected", "error", err)
		return "", err
	}
	c.log.Debug("decoded message", "chars", len([]rune(out)))
	return out, nil
}

func decodeStream(inv Matrix, stream string) (string, error) {
	if stream == "" {
		return "", fmt.Errorf("empty input: %w", ErrDecode)
	}

	parts := strings.Split(stream, "|")
	var headerPart, movesPart string
	switch len(parts) {
	case 1:
		headerPart = parts[0]
	case 2:
		headerPart, movesPart = parts[0], parts[1]
	default:
		return "", fmt.Errorf("expected one '|' separator, found %d: %w", len(parts)-1, ErrDecode)
	}

	hx, hy, err := splitPair(headerPart)
	if err != nil {
		return "", err
	}
	cur, err := decodePair(Reverse(hx), Reverse(hy))
	if err != nil {
		return "", err
	}
	cur = cur.Reduce()

	groups, err := moveGroups(movesPart)
	if err != nil {
		return "", err
	}

	decoded := make([]rune, 0, len(groups)+1)
	decoded = append(decoded, CharAt(inv.Unapply(cur)))
	for i, g := range groups {
		move := i + 1
		dx, dy, err := splitPair(g)
		if err != nil {
			return "", err
		}
		if mirrored(move) {
			dx, dy = Reverse(dx), Reverse(dy)
		}
		d, err := decodePair(dx, dy)
		if err != nil {
			return "", err
		}
		// Reduce before adding so oversized tokens cannot overflow.
		d = d.Reduce()
		cur = Point{X: cur.X + d.X, Y: cur.Y + d.Y}.Reduce()
		decoded = append(decoded, CharAt(inv.Unapply(cur)))
	}
	return string(decoded), nil
}

// moveGroups extracts the "(a,b)" groups of the moves section. Text outside
// the groups other than the MOVES: label is rejected.
func moveGroups(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, movesLabel))
	if s == "" {
		return nil, nil
	}
	if rest := moveGroup.ReplaceAllString(s, ""); strings.TrimSpace(rest) != "" {
		return nil, fmt.Errorf("unexpected text in moves %q: %w", rest, ErrDecode)
	}
	matches := moveGroup.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, mm := range matches {
		out = append(out, mm[1])
	}
	return out, nil
}

func splitPair(s string) (string, string, error) {
	f := strings.Split(strings.TrimSpace(s), ",")
	if len(f) != 2 {
		return "", "", fmt.Errorf("expected two comma-separated tokens in %q: %w", s, ErrDecode)
	}
	return strings.TrimSpace(f[0]), strings.TrimSpace(f[1]), nil
}

func decodePair(xs, ys string) (Point, error) {
	x, err := DecodeInt(xs)
	if err != nil {
		return Point{}, err
	}
	y, err := DecodeInt(ys)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// mirrored reports whether the 1-based move index has its tokens reversed.
func mirrored(move int) bool {
	return move%2 == 0
}
