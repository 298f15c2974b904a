package progress

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/format"
	"github.com/agbru/nqdm/internal/sink"
	"github.com/agbru/nqdm/internal/sink/mocks"
	"github.com/agbru/nqdm/internal/stats"
)

// fakeClock advances by a fixed step on every reading after the first.
type fakeClock struct {
	now  time.Time
	step time.Duration
	read bool
}

func (c *fakeClock) Now() time.Time {
	if c.read {
		c.now = c.now.Add(c.step)
	}
	c.read = true
	return c.now
}

func TestDriver_StepRendersAndCounts(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Unix(0, 0), step: time.Second}
	mem := &sink.Memory{Width: 80}
	d := New(Config{Total: 4, HasTotal: true, Sink: mem, Clock: clock.Now})

	for i := range 5 {
		if d.Current() != i {
			t.Fatalf("Current() = %d before step %d", d.Current(), i)
		}
		if err := d.Step(); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}

	if len(mem.Lines) != 5 {
		t.Fatalf("wrote %d lines, want 5", len(mem.Lines))
	}
	for _, line := range mem.Lines {
		if !strings.HasPrefix(line, "\r") {
			t.Errorf("line %q lacks carriage return", line)
		}
		if len(line) != 81 {
			t.Errorf("line %q has length %d, want 81", line, len(line))
		}
	}
	if !strings.HasPrefix(mem.Lines[0], "\r  0.00% [>") {
		t.Errorf("first line = %q", mem.Lines[0])
	}
	if !strings.Contains(mem.Last(), "100.00%") || !strings.Contains(mem.Last(), "00:00:05 00:00:00") {
		t.Errorf("last line = %q", mem.Last())
	}
}

func TestDriver_CallbackSnapshots(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Unix(0, 0), step: 500 * time.Millisecond}
	var snaps []stats.Snapshot
	d := New(Config{
		Total:    2,
		HasTotal: true,
		Clock:    clock.Now,
		Callback: func(s stats.Snapshot) error {
			snaps = append(snaps, s)
			return nil
		},
	})
	for range 3 {
		if err := d.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if len(snaps) != 3 {
		t.Fatalf("callback ran %d times, want 3", len(snaps))
	}
	for i, s := range snaps {
		if s.Current != i {
			t.Errorf("snapshot %d Current = %d", i, s.Current)
		}
	}
	if snaps[0].HasETA || snaps[0].Throughput != 0 {
		t.Errorf("first snapshot should have no ETA and zero throughput: %+v", snaps[0])
	}
	if snaps[1].Ratio != 0.5 || !snaps[1].HasETA || snaps[1].ETA != time.Second || snaps[1].Throughput != 1 {
		t.Errorf("second snapshot = %+v", snaps[1])
	}
	if snaps[2].Ratio != 1 || !snaps[2].HasETA || snaps[2].ETA != 0 {
		t.Errorf("third snapshot = %+v", snaps[2])
	}
}

func TestDriver_CallbackErrorAbortsStep(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	mem := &sink.Memory{}
	fail := true
	d := New(Config{
		Sink: mem,
		Callback: func(stats.Snapshot) error {
			if fail {
				return boom
			}
			return nil
		},
	})

	err := d.Step()
	var cbErr apperrors.CallbackError
	if !errors.As(err, &cbErr) || !errors.Is(err, boom) || cbErr.Step != 0 {
		t.Fatalf("Step() error = %v, want CallbackError wrapping boom", err)
	}
	if len(mem.Lines) != 0 {
		t.Errorf("failed step rendered %d lines", len(mem.Lines))
	}
	if d.Current() != 0 {
		t.Errorf("failed step advanced counter to %d", d.Current())
	}

	fail = false
	if err := d.Step(); err != nil {
		t.Fatalf("retry Step() error = %v", err)
	}
	if d.Current() != 1 || len(mem.Lines) != 1 {
		t.Errorf("retry: current %d, lines %d", d.Current(), len(mem.Lines))
	}
}

func TestDriver_SilentStillCallsBack(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	mockSink := mocks.NewMockSink(ctrl)
	mockSink.EXPECT().Columns().Return(120).Times(1)
	mockSink.EXPECT().Write(gomock.Any()).Times(0)

	calls := 0
	d := New(Config{
		Total:    3,
		HasTotal: true,
		Silent:   true,
		Sink:     mockSink,
		Callback: func(stats.Snapshot) error { calls++; return nil },
	})
	for range 4 {
		if err := d.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 4 {
		t.Errorf("callback ran %d times, want 4", calls)
	}
	if d.Width() != 120 {
		t.Errorf("Width() = %d, want 120", d.Width())
	}
}

func TestDriver_WidthFallback(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	mockSink := mocks.NewMockSink(ctrl)
	mockSink.EXPECT().Columns().Return(0)
	mockSink.EXPECT().Write(gomock.Any()).Do(func(line string) {
		if !strings.HasPrefix(line, "\r0 [>] 00:00:00 [0.00 iter/sec]") {
			t.Errorf("narrow line = %q", line)
		}
	})

	d := New(Config{Sink: mockSink, Clock: func() time.Time { return time.Unix(0, 0) }})
	if d.Width() != DefaultWidth {
		t.Errorf("Width() = %d, want %d", d.Width(), DefaultWidth)
	}
	if err := d.Step(); err != nil {
		t.Fatal(err)
	}
}

func TestDriver_NoSink(t *testing.T) {
	t.Parallel()
	d := New(Config{})
	for range 3 {
		if err := d.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if d.Current() != 3 {
		t.Errorf("Current() = %d, want 3", d.Current())
	}
}

func TestDriver_EstablishTotal(t *testing.T) {
	t.Parallel()
	d := New(Config{})
	if _, ok := d.Total(); ok {
		t.Fatal("new driver should have no total")
	}
	d.EstablishTotal(10)
	d.EstablishTotal(99)
	if total, ok := d.Total(); !ok || total != 10 {
		t.Errorf("Total() = (%d, %v), want (10, true)", total, ok)
	}

	neg := New(Config{Total: -1, HasTotal: true})
	if total, _ := neg.Total(); total != 0 {
		t.Errorf("negative total clamped to %d, want 0", total)
	}
}

func TestDriver_Style(t *testing.T) {
	t.Parallel()
	mem := &sink.Memory{Width: 60}
	d := New(Config{
		Total: 2, HasTotal: true, Sink: mem,
		Style: format.BarStyle{Fill: "#", Head: "|"},
		Clock: func() time.Time { return time.Unix(0, 0) },
	})
	_ = d.Step()
	_ = d.Step()
	if !strings.Contains(mem.Last(), "#|") {
		t.Errorf("styled line = %q", mem.Last())
	}
}
