package internal

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates an hclog logger with standard settings. Output defaults
// to stderr; CYPHER_JSON_LOG=1 switches to JSON lines.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("CYPHER_JSON_LOG") == "1"
	if !jsonFormat {
		output = NewPrefixWriter("💌 ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// PrefixWriter wraps an io.Writer and adds a prefix to each complete line.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{prefix: prefix, writer: w}
}

// Write buffers p until a newline is seen, then writes each prefixed line.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.buffer.Write(p)
	for {
		i := bytes.IndexByte(pw.buffer.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := pw.buffer.Next(i + 1)
		if _, err := pw.writer.Write(append([]byte(pw.prefix), line...)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
