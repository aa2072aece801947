package internal

import "fmt"

// Modulus is the size of the coordinate plane. It is prime, so every nonzero
// determinant is invertible.
const Modulus = 31

// Point is a transformed coordinate in [0, Modulus).
type Point struct {
	X, Y int
}

// Reduce returns p with both components reduced into [0, Modulus).
func (p Point) Reduce() Point {
	return Point{X: mod(p.X, Modulus), Y: mod(p.Y, Modulus)}
}

// Matrix is the 2×2 key matrix (a b; c d) applied mod Modulus.
type Matrix struct {
	A, B, C, D int
}

// Apply transforms a grid coordinate into a point.
func (m Matrix) Apply(c Coord) Point {
	return Point{
		X: mod(m.A*c.X+m.B*c.Y, Modulus),
		Y: mod(m.C*c.X+m.D*c.Y, Modulus),
	}
}

// Unapply maps a point back to a grid coordinate. m must be the inverse of
// the matrix that produced p.
func (m Matrix) Unapply(p Point) Coord {
	return Coord{
		X: mod(m.A*p.X+m.B*p.Y, Modulus),
		Y: mod(m.C*p.X+m.D*p.Y, Modulus),
	}
}

// Det returns the determinant reduced into [0, Modulus).
func (m Matrix) Det() int {
	return mod(m.A*m.D-m.B*m.C, Modulus)
}

// Inverse returns the inverse matrix mod Modulus, or ErrDegenerateKey when
// the determinant has no multiplicative inverse.
func (m Matrix) Inverse() (Matrix, error) {
	di, ok := ModInverse(m.Det(), Modulus)
	if !ok {
		return Matrix{}, ErrDegenerateKey
	}
	return Matrix{
		A: mod(m.D*di, Modulus),
		B: mod(-m.B*di, Modulus),
		C: mod(-m.C*di, Modulus),
		D: mod(m.A*di, Modulus),
	}, nil
}

// Invertible reports whether m can be used to encode and decode.
func (m Matrix) Invertible() bool {
	_, ok := ModInverse(m.Det(), Modulus)
	return ok
}

func (m Matrix) String() string {
	return fmt.Sprintf("(%d %d; %d %d)", m.A, m.B, m.C, m.D)
}

// ModInverse finds x in [1, m) with n*x ≡ 1 (mod m) by linear search.
func ModInverse(n, m int) (int, bool) {
	n = mod(n, m)
	for x := 1; x < m; x++ {
		if n*x%m == 1 {
			return x, true
		}
	}
	return 0, false
}

// mod returns the non-negative residue of a mod m.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
