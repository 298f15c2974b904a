package orchestration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/agbru/nqdm"
	"github.com/agbru/nqdm/internal/config"
	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/metrics"
)

// fakeReporter records its lifecycle and can fail at a given step.
type fakeReporter struct {
	started, stopped bool
	calls            int
	failAt           int
}

func (r *fakeReporter) Start() { r.started = true }
func (r *fakeReporter) Stop()  { r.stopped = true }
func (r *fakeReporter) Callback() func(nqdm.Snapshot) error {
	return func(s nqdm.Snapshot) error {
		r.calls++
		if r.failAt > 0 && s.Current == r.failAt {
			return errors.New("reporter failed")
		}
		return nil
	}
}

// fakeServer blocks until its context is done, or fails immediately.
type fakeServer struct {
	err     error
	stopped atomic.Bool
}

func (s *fakeServer) ListenAndServe(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	s.stopped.Store(true)
	return nil
}

func TestWorkload_Modes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode      string
		length    int
		wantSteps int
		wantTotal bool
	}{
		{config.ModeCount, 0, 6, true},
		{config.ModeSlice, 0, 6, true},
		{config.ModeSeq, 0, 6, false},
		{config.ModeSeq, 5, 6, true},
		{config.ModeChan, 0, 6, false},
		{config.ModeFunc, 0, 5, true},
		{config.ModeUnbounded, 0, 5, false},
		{config.ModeUnbounded, 5, 5, true},
		{config.ModeAuto, 0, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			var snaps []nqdm.Snapshot
			w := Workload{Mode: tt.mode, N: 5, Length: tt.length}
			items, err := w.Run(context.Background(), nqdm.WithCallback(func(s nqdm.Snapshot) error {
				snaps = append(snaps, s)
				return nil
			}))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if items != 5 {
				t.Errorf("items = %d, want 5", items)
			}
			if len(snaps) != tt.wantSteps {
				t.Fatalf("steps = %d, want %d", len(snaps), tt.wantSteps)
			}
			if last := snaps[len(snaps)-1]; last.HasTotal != tt.wantTotal {
				t.Errorf("HasTotal = %v, want %v", last.HasTotal, tt.wantTotal)
			}
		})
	}
}

func TestWorkload_Canceled(t *testing.T) {
	t.Parallel()
	for _, mode := range config.Modes {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := Workload{Mode: mode, N: 5}.Run(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestWorkload_UnknownMode(t *testing.T) {
	t.Parallel()
	_, err := Workload{Mode: "loop", N: 1}.Run(context.Background())
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Run() error = %v, want ValidationError", err)
	}
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()
	reporter := &fakeReporter{}
	m := metrics.NewMetrics()
	srv := &fakeServer{}

	res := Execute(context.Background(), Workload{Mode: config.ModeCount, N: 3}, Options{
		Reporter: reporter,
		Metrics:  m,
		Server:   srv,
	})

	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if res.Items != 3 || res.Steps != 4 || res.Mode != config.ModeCount {
		t.Errorf("result = %+v", res)
	}
	if res.Last.Ratio != 1 {
		t.Errorf("final ratio = %v, want 1", res.Last.Ratio)
	}
	if !reporter.started || !reporter.stopped || reporter.calls != 4 {
		t.Errorf("reporter = %+v", reporter)
	}
	if !srv.stopped.Load() {
		t.Error("metrics server should be stopped when the run ends")
	}

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if !strings.Contains(rec.Body.String(), "nqdm_steps_total 4") {
		t.Error("metrics should record every step")
	}
}

func TestExecute_CallbackFailure(t *testing.T) {
	t.Parallel()
	m := metrics.NewMetrics()
	res := Execute(context.Background(), Workload{Mode: config.ModeSlice, N: 5}, Options{
		Reporter: &fakeReporter{failAt: 2},
		Metrics:  m,
	})

	var cbErr apperrors.CallbackError
	if !errors.As(res.Err, &cbErr) || cbErr.Step != 2 {
		t.Fatalf("Err = %v, want CallbackError at step 2", res.Err)
	}
	if res.Items != 2 {
		t.Errorf("items = %d, want 2", res.Items)
	}
	if apperrors.ExitCodeFor(res.Err) != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d", apperrors.ExitCodeFor(res.Err))
	}

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if !strings.Contains(rec.Body.String(), "nqdm_callback_failures_total 1") {
		t.Error("callback failure should be counted")
	}
}

func TestExecute_ServerFailure(t *testing.T) {
	t.Parallel()
	listenErr := errors.New("address already in use")
	res := Execute(context.Background(), Workload{Mode: config.ModeUnbounded, N: 1 << 20, Delay: 1},
		Options{Server: &fakeServer{err: listenErr}})
	if !errors.Is(res.Err, listenErr) {
		t.Errorf("Err = %v, want the server error", res.Err)
	}
}

func TestChainCallbacks(t *testing.T) {
	t.Parallel()
	var order []string
	stop := errors.New("stop")
	chain := ChainCallbacks(
		func(nqdm.Snapshot) error { order = append(order, "a"); return nil },
		nil,
		func(nqdm.Snapshot) error { order = append(order, "b"); return stop },
		func(nqdm.Snapshot) error { order = append(order, "c"); return nil },
	)
	if err := chain(nqdm.Snapshot{}); !errors.Is(err, stop) {
		t.Errorf("chain() = %v, want stop", err)
	}
	if strings.Join(order, "") != "ab" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestNullProgressReporter(t *testing.T) {
	t.Parallel()
	var r ProgressReporter = NullProgressReporter{}
	r.Start()
	if err := r.Callback()(nqdm.Snapshot{}); err != nil {
		t.Errorf("Callback() = %v", err)
	}
	r.Stop()
}
