package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds cmd/nqdm and runs it as a user would.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	binName := "nqdm"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs in the package directory; build from the module root.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/nqdm")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build nqdm: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		env      []string
		wantOut  string
		wantCode int
	}{
		{"count to stdout", []string{"-n", "5", "-delay", "0s", "-dest", "stdout"}, nil, "100.00% [", 0},
		{"summary", []string{"-n", "3", "-delay", "0s", "-dest", "none"}, nil, "Status    OK", 0},
		{"unknown total shows count", []string{"-n", "3", "-delay", "0s", "-mode", "seq", "-dest", "stdout"}, nil, "\r3 [", 0},
		{"custom glyphs", []string{"-n", "4", "-delay", "0s", "-dest", "stdout", "-fill", "#", "-head", "|"}, nil, "|]", 0},
		{"env override", []string{"-delay", "0s", "-dest", "none"}, []string{"NQDM_N=7"}, "Items     7", 0},
		{"help", []string{"-help"}, nil, "usage", 0},
		{"version", []string{"--version"}, nil, "nqdm", 0},
		{"bad mode", []string{"-mode", "loop"}, nil, "unknown mode", 4},
		{"timeout", []string{"-n", "1000", "-delay", "50ms", "-timeout", "10ms", "-dest", "none"}, nil, "Timed out", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(append(os.Environ(), "NO_COLOR=1"), tt.env...)
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput:\n%s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("output missing %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
