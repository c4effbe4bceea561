package output

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/temirov/codedoc/internal/services/stream"
	"github.com/temirov/codedoc/internal/types"
)

const (
	progressTitle     = "Generating " + types.OutputFileName
	outputPathFormat  = "Output: %s"
	progressUnitTotal = 100
)

type rawStreamRenderer struct {
	stdout         io.Writer
	progressWriter io.Writer
	logger         *zap.Logger
	progressBar    *pterm.ProgressbarPrinter
	lastPercent    int
	result         *types.ScanResult
}

// NewRawStreamRenderer logs scan messages through logger and prints the final
// summary to stdout. When progressWriter is non-nil a progress bar is drawn on it.
func NewRawStreamRenderer(stdout io.Writer, progressWriter io.Writer, logger *zap.Logger) StreamRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rawStreamRenderer{
		stdout:         stdout,
		progressWriter: progressWriter,
		logger:         logger,
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindLog:
		renderer.handleLog(event.Message)
	case stream.EventKindProgress:
		return renderer.handleProgress(event.Progress)
	case stream.EventKindDone:
		renderer.result = event.Result
	}
	// Fatal errors are returned by the scan itself and reported by the caller.
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.progressBar != nil {
		if _, stopError := renderer.progressBar.Stop(); stopError != nil {
			return stopError
		}
		renderer.progressBar = nil
	}
	if renderer.stdout == nil || renderer.result == nil || !renderer.result.DocumentWritten {
		return nil
	}
	fmt.Fprintln(renderer.stdout, FormatSummaryLine(*renderer.result))
	fmt.Fprintf(renderer.stdout, outputPathFormat+"\n", renderer.result.OutputPath)
	return nil
}

func (renderer *rawStreamRenderer) handleLog(message *stream.LogEvent) {
	if message == nil {
		return
	}
	switch message.Level {
	case stream.LogLevelError:
		renderer.logger.Error(message.Message)
	case stream.LogLevelWarning:
		renderer.logger.Warn(message.Message)
	default:
		renderer.logger.Info(message.Message)
	}
}

func (renderer *rawStreamRenderer) handleProgress(progress *stream.ProgressEvent) error {
	if renderer.progressWriter == nil || progress == nil {
		return nil
	}
	if renderer.progressBar == nil {
		progressBar, startError := pterm.DefaultProgressbar.
			WithTotal(progressUnitTotal).
			WithTitle(progressTitle).
			WithWriter(renderer.progressWriter).
			WithRemoveWhenDone(true).
			Start()
		if startError != nil {
			return startError
		}
		renderer.progressBar = progressBar
	}
	if delta := progress.Percent - renderer.lastPercent; delta > 0 {
		renderer.progressBar.Add(delta)
		renderer.lastPercent = progress.Percent
	}
	return nil
}
