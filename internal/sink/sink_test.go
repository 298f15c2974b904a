package sink

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/agbru/nqdm/internal/logging"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestForDestination(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		dest    Destination
		wantNil bool
	}{
		{"stdout", Stdout, false},
		{"stderr", Stderr, false},
		{"empty disables output", "", true},
		{"unknown disables output", "file", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := ForDestination(tt.dest, nil)
			if (s == nil) != tt.wantNil {
				t.Errorf("ForDestination(%q) nil = %v, want %v", tt.dest, s == nil, tt.wantNil)
			}
		})
	}
}

func TestWriterSink_Write(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := NewWriterSink(&buf, nil)
	s.Write("\rline one")
	s.Write("\rline two")
	if got, want := buf.String(), "\rline one\rline two"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
	if s.Columns() != 0 {
		t.Errorf("Columns() = %d, want 0 for a non-terminal writer", s.Columns())
	}
}

func TestWriterSink_WriteFailureIsLogged(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := NewWriterSink(failingWriter{}, logging.NewStdLoggerAdapter(log.New(&logs, "", 0)))

	s.Write("\rignored")

	if !strings.Contains(logs.String(), "broken pipe") {
		t.Errorf("write failure should be logged, got %q", logs.String())
	}
}

func TestWriterSink_RegularFile(t *testing.T) {
	t.Parallel()
	f, err := os.CreateTemp(t.TempDir(), "progress")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewWriterSink(f, nil)
	if s.Columns() != 0 {
		t.Errorf("Columns() = %d, want 0 for a regular file", s.Columns())
	}
	s.Write("\rdone")
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\rdone" {
		t.Errorf("file content = %q, want %q", data, "\rdone")
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()
	m := &Memory{Width: 40}
	if m.Last() != "" {
		t.Errorf("Last() on empty sink = %q, want empty", m.Last())
	}
	m.Write("a")
	m.Write("b")
	if m.Last() != "b" || len(m.Lines) != 2 {
		t.Errorf("Lines = %v, want [a b]", m.Lines)
	}
	if m.Columns() != 40 {
		t.Errorf("Columns() = %d, want 40", m.Columns())
	}
}
