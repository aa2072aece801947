package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"golang.org/x/term"
)

// PromptForKey reads the secret key from the terminal without echoing it.
// When confirm is true the key is asked for twice and both entries must
// match (used when encoding, where a typo would make the message
// unrecoverable). If mask is true, input is read in raw mode with '*' echo;
// otherwise it uses the terminal's hidden input via ReadPassword. Prompts go
// to stderr so stdout carries only the result.
func PromptForKey(mask, confirm bool) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("prompt requires an interactive terminal")
	}

	read := readHidden
	if mask {
		read = readMasked
	}

	k1, err := read(fd, "SECRET KEY: ")
	if err != nil {
		return "", err
	}
	if confirm {
		k2, err := read(fd, "SECRET KEY (again): ")
		if err != nil {
			return "", err
		}
		if k1 != k2 {
			return "", fmt.Errorf("keys do not match")
		}
	}
	if strings.TrimSpace(k1) == "" {
		return "", ErrKeyRequired
	}
	return k1, nil
}

func readHidden(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, "\r"+prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read key")
	}
	return string(b), nil
}

// readMasked reads in raw mode with '*' echo and a signal-safe restore.
func readMasked(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, "\r"+prompt)

	oldState, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("terminal not ready")
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	done := make(chan struct{})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigc:
			restore()
			os.Exit(130)
		case <-done:
		}
	}()

	if _, err := term.MakeRaw(fd); err != nil {
		signal.Stop(sigc)
		close(done)
		return "", fmt.Errorf("terminal not ready")
	}
	defer func() { restore(); signal.Stop(sigc); close(done) }()

	var buf []byte
	for {
		var b [1]byte
		n, er := os.Stdin.Read(b[:])
		if er != nil || n == 0 {
			break
		}
		ch := rune(b[0])
		if ch == '\r' || ch == '\n' {
			fmt.Fprint(os.Stderr, "\r\n")
			break
		}
		if ch == 0x03 { // Ctrl-C arrives as a byte in raw mode
			restore()
			os.Exit(130)
		}
		if ch == 0x7f || ch == '\b' {
			if len(buf) > 0 {
				_, size := utf8.DecodeLastRune(buf)
				buf = buf[:len(buf)-size]
				fmt.Fprint(os.Stderr, "\b \b")
			}
			continue
		}
		if ch < 0x20 {
			continue
		}
		buf = append(buf, b[0])
		if utf8.RuneStart(b[0]) {
			fmt.Fprint(os.Stderr, "*")
		}
	}
	return string(buf), nil
}

// ReadInput reads all of r and trims surrounding whitespace. It is used for
// messages and token streams piped on stdin.
func ReadInput(r io.Reader) (string, error) {
	var sb strings.Builder
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		sb.WriteString(line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
