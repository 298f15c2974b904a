package nqdm

import (
	"io"

	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/logging"
	"github.com/agbru/nqdm/internal/sink"
	"github.com/agbru/nqdm/internal/source"
	"github.com/agbru/nqdm/internal/stats"
)

// Snapshot is the per-step statistics record passed to callbacks.
type Snapshot = stats.Snapshot

// Sink receives rendered progress lines.
type Sink = sink.Sink

// MemorySink records rendered lines in memory.
type MemorySink = sink.Memory

// Destination names a standard output stream.
type Destination = sink.Destination

// Standard destinations.
const (
	Stdout = sink.Stdout
	Stderr = sink.Stderr
)

// Kind identifies the progress source variant.
type Kind = source.Kind

// Source variants.
const (
	KindUnbounded = source.KindUnbounded
	KindCount     = source.KindCount
	KindSequence  = source.KindSequence
	KindTransform = source.KindTransform
)

// Iterator is any type with pull semantics.
type Iterator[T any] = source.Iterator[T]

// Pair is the value a Handle yields for an iter.Seq2-shaped entity such as
// maps.All.
type Pair = source.Pair

// CallbackError is returned when a progress callback fails.
type CallbackError = apperrors.CallbackError

// NewWriterSink returns a Sink writing to w. Terminal widths are detected
// when w is a terminal file.
func NewWriterSink(w io.Writer) Sink {
	return sink.NewWriterSink(w, logging.NewNopLogger())
}
