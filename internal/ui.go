package internal

import "strings"

// Package internal: UI helpers (exported)
//
// This file provides small, self-contained UI helpers for:
// - ANSI styling (pastel lilac and blush palette)
// - Share text formatting (hint suffix on output, hint stripping on input)
//
// Color usage
// - Enable or disable color globally via SetColorEnabled(true/false).
// - Wrap text with Style("text", Bold, Lilac) to apply codes when enabled.
// - When disabled, Style returns the input unchanged.

// Default: colors enabled. Override via SetColorEnabled.
var colorEnabled = true

// ANSI escape codes (exported)
const (
	Reset = "\x1b[0m"
	Bold  = "\x1b[1m"
	Lilac = "\x1b[38;2;180;167;214m" // #B4A7D6, buttons and borders
	Blush = "\x1b[38;2;255;212;229m" // #FFD4E5, hint caption
	Gray  = "\x1b[38;2;136;146;176m" // dimmed foreground
	Red   = "\x1b[38;2;247;118;142m" // errors
)

const hintMarker = "Hint:"

// SetColorEnabled toggles ANSI styling on or off.
func SetColorEnabled(on bool) {
	colorEnabled = on
}

// ColorEnabled reports whether ANSI styling is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// Style wraps s with the provided ANSI codes when color is enabled.
// When disabled, returns s unchanged.
//
// Example:
//
//	Style("KISS", Bold, Lilac)
func Style(s string, codes ...string) string {
	if !colorEnabled {
		return s
	}
	var b strings.Builder
	for _, c := range codes {
		b.WriteString(c)
	}
	b.WriteString(s)
	b.WriteString(Reset)
	return b.String()
}

// Banner returns the styled CLI header.
func Banner(version string) string {
	return Style("Cyfer's Secret Love Language - "+version, Bold, Lilac)
}

// StripHint drops everything from the first "Hint:" on, plus surrounding
// whitespace, so a pasted share text decodes as-is.
func StripHint(s string) string {
	if i := strings.Index(s, hintMarker); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ShareText appends the hint the way the share sheet does. An empty hint
// leaves the stream unchanged.
func ShareText(stream, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return stream
	}
	return stream + "\n\n" + hintMarker + " " + hint
}
