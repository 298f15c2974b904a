//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

// Package sink provides the output destinations progress lines are written
// to. A Sink is injected into the progress driver instead of reaching for a
// process-wide terminal handle, which keeps rendering deterministic in tests.
package sink

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/agbru/nqdm/internal/logging"
)

// Sink receives rendered progress lines.
type Sink interface {
	// Write emits one rendered line. Writes are fire-and-forget: failures are
	// the sink's concern and never reach the caller.
	Write(line string)
	// Columns returns the width of the output in cells, or 0 when unknown.
	Columns() int
}

// Destination names a standard stream.
type Destination string

const (
	// Stdout selects the process standard output.
	Stdout Destination = "stdout"
	// Stderr selects the process standard error.
	Stderr Destination = "stderr"
)

// ForDestination returns a sink for the named stream, or nil when the
// destination is empty or unrecognized. A nil sink disables output.
func ForDestination(d Destination, logger logging.Logger) Sink {
	switch d {
	case Stdout:
		return NewWriterSink(os.Stdout, logger)
	case Stderr:
		return NewWriterSink(os.Stderr, logger)
	default:
		return nil
	}
}

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// WriterSink writes lines to an io.Writer. When the writer is a terminal its
// width is read with golang.org/x/term.
type WriterSink struct {
	w        io.Writer
	fd       int
	terminal bool
	logger   logging.Logger
}

// NewWriterSink wraps w. A nil logger discards write failures silently.
func NewWriterSink(w io.Writer, logger logging.Logger) *WriterSink {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &WriterSink{w: w, fd: -1, logger: logger}
	if f, ok := w.(fdWriter); ok {
		s.fd = int(f.Fd())
		s.terminal = term.IsTerminal(s.fd)
	}
	return s
}

// Write implements Sink.
func (s *WriterSink) Write(line string) {
	if _, err := io.WriteString(s.w, line); err != nil {
		s.logger.Debug("progress line dropped", logging.Err(err))
	}
}

// Columns implements Sink. Non-terminal writers report 0.
func (s *WriterSink) Columns() int {
	if !s.terminal {
		return 0
	}
	width, _, err := term.GetSize(s.fd)
	if err != nil {
		s.logger.Debug("terminal size unavailable", logging.Err(err))
		return 0
	}
	return width
}

// Memory records every line in memory. It is meant for tests and for
// callers that post-process progress output.
type Memory struct {
	// Lines holds the written lines in order.
	Lines []string
	// Width is reported by Columns.
	Width int
}

// Write implements Sink.
func (m *Memory) Write(line string) { m.Lines = append(m.Lines, line) }

// Columns implements Sink.
func (m *Memory) Columns() int { return m.Width }

// Last returns the most recent line, or "" when nothing was written.
func (m *Memory) Last() string {
	if len(m.Lines) == 0 {
		return ""
	}
	return m.Lines[len(m.Lines)-1]
}
