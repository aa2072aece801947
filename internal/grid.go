package internal

// Alphabet grid: a fixed keyboard layout over a 31×31 plane.
//
// Layout (x, y):
//   Q W E R T Y U I O P   y=25, x=2,5,...,29
//    A S D F G H J K L    y=20, x=3,6,...,27
//     Z X C V B N M       y=15, x=4,7,...,22
//   1 2 3 4 5 6 7 8 9 0   y=10, x=2,5,...,29
//     ! , .   ?           y=5,  x=5,10,...,25  (the gap is a space)
//
// The table is built once at init and never mutated.

// GridSymbols is the number of characters on the grid: 26 letters, 10
// digits and 5 punctuation keys.
const GridSymbols = 41

// Unknown is returned by CharAt for coordinates outside the grid.
const Unknown = '?'

// Coord is a position on the grid.
type Coord struct {
	X, Y int
}

var gridRows = []struct {
	keys   string
	x0, dx int
	y      int
}{
	{"QWERTYUIOP", 2, 3, 25},
	{"ASDFGHJKL", 3, 3, 20},
	{"ZXCVBNM", 4, 3, 15},
	{"1234567890", 2, 3, 10},
	{"!,. ?", 5, 5, 5},
}

var (
	gridOrder   []rune
	charToCoord = make(map[rune]Coord, GridSymbols)
	coordToChar = make(map[Coord]rune, GridSymbols)
)

func init() {
	for _, row := range gridRows {
		for i, r := range row.keys {
			c := Coord{X: row.x0 + i*row.dx, Y: row.y}
			charToCoord[r] = c
			coordToChar[c] = r
			gridOrder = append(gridOrder, r)
		}
	}
	if len(gridOrder) != GridSymbols || len(coordToChar) != GridSymbols {
		panic("grid: layout is not a bijection")
	}
}

// CoordOf returns the grid coordinate of r. The caller uppercases letters.
func CoordOf(r rune) (Coord, bool) {
	c, ok := charToCoord[r]
	return c, ok
}

// CharAt returns the character at c, or Unknown when c is not on the grid.
func CharAt(c Coord) rune {
	if r, ok := coordToChar[c]; ok {
		return r
	}
	return Unknown
}

// Symbols returns the recognized characters in layout order.
func Symbols() []rune {
	out := make([]rune, len(gridOrder))
	copy(out, gridOrder)
	return out
}
