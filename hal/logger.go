package hal

import (
	"bytes"
	"io"
)

type lineWriter struct {
	l Logger
}

// LogWriter adapts a Logger to io.Writer, one WriteLineBytes per line.
// It lets log/slog handlers write to the HAL logger.
func LogWriter(l Logger) io.Writer {
	return lineWriter{l: l}
}

func (w lineWriter) Write(p []byte) (int, error) {
	if w.l == nil {
		return len(p), nil
	}
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		w.l.WriteLineBytes(line)
	}
	return len(p), nil
}
