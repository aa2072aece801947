package internal

import (
	"fmt"
	"io"
	"strings"

	"rsc.io/qr"
)

// quietZone is the blank border, in modules, around a rendered code.
const quietZone = 2

// RenderQR writes text as a terminal QR code using half-block characters, two
// modules per character cell vertically. Dark modules are drawn as spaces on
// a light background so the code scans on dark terminals.
func RenderQR(w io.Writer, text string) error {
	code, err := qr.Encode(text, qr.L)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQRTooLarge, err)
	}

	dark := func(x, y int) bool {
		if x < 0 || y < 0 || x >= code.Size || y >= code.Size {
			return false
		}
		return code.Black(x, y)
	}

	var b strings.Builder
	lo, hi := -quietZone, code.Size+quietZone
	for y := lo; y < hi; y += 2 {
		for x := lo; x < hi; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune(' ')
			case top:
				b.WriteRune('▄')
			case bottom:
				b.WriteRune('▀')
			default:
				b.WriteRune('█')
			}
		}
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}
