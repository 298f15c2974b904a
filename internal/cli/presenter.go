package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/format"
	"github.com/agbru/nqdm/internal/orchestration"
	"github.com/agbru/nqdm/internal/ui"
)

// CLIResultPresenter prints a colored run summary.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentResult implements orchestration.ResultPresenter.
func (CLIResultPresenter) PresentResult(res orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n%s\n", ui.Accent("--- Run Summary ---"))
	row := func(label, value string) {
		fmt.Fprintf(out, "%s %s\n", ui.Dim(fmt.Sprintf("%-9s", label)), value)
	}
	row("Mode", res.Mode)
	row("Items", fmt.Sprintf("%d", res.Items))
	row("Steps", fmt.Sprintf("%d", res.Steps))
	row("Duration", format.FormatExecutionDuration(res.Duration))
	if res.Duration > 0 {
		row("Rate", format.FormatRate(float64(res.Items)/res.Duration.Seconds()))
	}
	row("Status", statusText(res.Err))
}

func statusText(err error) string {
	switch {
	case err == nil:
		return ui.Success("OK")
	case errors.Is(err, context.DeadlineExceeded):
		return ui.Warning("Timed out: " + err.Error())
	case errors.Is(err, context.Canceled):
		return ui.Warning("Canceled")
	default:
		return ui.Error(fmt.Sprintf("Failed (exit %d): %v", apperrors.ExitCodeFor(err), err))
	}
}
