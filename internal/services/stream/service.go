// Package stream runs a codebase scan and reports its progress as events.
package stream

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/codedoc/internal/commands"
	"github.com/temirov/codedoc/internal/document"
	"github.com/temirov/codedoc/internal/filter"
	"github.com/temirov/codedoc/internal/language"
	"github.com/temirov/codedoc/internal/tokenizer"
	"github.com/temirov/codedoc/internal/types"
)

const (
	processedLogFormat = "Processed: %s"
	createdLogFormat   = "Created %s with %d files."
	tokenWarningFormat = "Warning: failed to count tokens: %v"

	errorGitIgnoreFormat  = "load .gitignore: %w"
	errorDiscoverFormat   = "discover files: %w"
	errorRenderTreeFormat = "render tree: %w"
	errorDeliveryFormat   = "deliver scan events: %w"

	percentComplete = 100
)

// Options configures one scan.
type Options struct {
	Root            string
	ExtraExclusions []string
	UseGitignore    bool

	// Now stamps the document header; defaults to time.Now.
	Now func() time.Time
	// ReadFile loads file contents; defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	// ReadDir lists directories for both discovery and the tree; defaults to os.ReadDir.
	ReadDir commands.DirectoryReader

	// TokenCounter, when set, estimates the token cost of the finished document.
	TokenCounter tokenizer.Counter
	TokenModel   string

	Logger *zap.Logger
}

type emitter struct {
	ctx    context.Context
	out    chan<- Event
	result *types.ScanResult
	logger *zap.Logger
	// closed is set once delivery fails; the scan carries on without events.
	closed bool
}

func newEmitter(ctx context.Context, out chan<- Event, result *types.ScanResult, logger *zap.Logger) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, result: result, logger: logger}
}

func (e *emitter) send(event Event) {
	if e.out == nil || e.closed {
		return
	}
	event.Version = SchemaVersion
	if event.Path == "" {
		event.Path = e.result.Root
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		e.closed = true
	case e.out <- event:
	}
}

func (e *emitter) transition(state types.ScanState) {
	e.logger.Debug("scan state", zap.String("root", e.result.Root), zap.String("state", string(state)))
	e.result.State = state
	e.send(Event{Kind: EventKindState, State: state})
}

func (e *emitter) log(level string, message string) {
	e.result.Log = append(e.result.Log, message)
	e.send(Event{Kind: EventKindLog, Message: &LogEvent{Level: level, Message: message}})
}

func (e *emitter) progress(handled int, total int) {
	percent := percentComplete
	if total > 0 {
		percent = handled * percentComplete / total
	}
	e.send(Event{Kind: EventKindProgress, Progress: &ProgressEvent{Percent: percent, Handled: handled, Total: total}})
}

func (e *emitter) fail(err error) error {
	e.result.Message = err.Error()
	e.logger.Debug("scan failed", zap.String("root", e.result.Root), zap.Error(err))
	e.send(Event{Kind: EventKindError, Err: &ErrorEvent{Kind: KindOf(err), Message: err.Error()}})
	e.transition(types.StateFailed)
	return err
}

func (e *emitter) done() {
	snapshot := *e.result
	snapshot.Log = append([]string(nil), e.result.Log...)
	e.send(Event{Kind: EventKindDone, Result: &snapshot})
}

// GenerateDocument scans options.Root and writes codebase.md at its top,
// sending events to out as it goes. out may be nil. Events are never waited on
// by the scan beyond the channel send; if ctx is cancelled delivery stops but
// the scan still runs to completion. Validation and output write failures are
// returned; per-file read failures are logged and skipped.
func GenerateDocument(ctx context.Context, options Options, out chan<- Event) (types.ScanResult, error) {
	startedAt := time.Now()
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	result := types.ScanResult{Root: options.Root, State: types.StateIdle, Log: []string{}}
	events := newEmitter(ctx, out, &result, logger)
	finish := func(err error) (types.ScanResult, error) {
		// OutputPath names a document only when this scan wrote one; a file left
		// by an earlier run is not touched and not reported.
		if !result.DocumentWritten {
			result.OutputPath = ""
		}
		result.Duration = time.Since(startedAt)
		events.done()
		return result, err
	}

	events.send(Event{Kind: EventKindStart})

	events.transition(types.StateValidating)
	rootPath, validationError := validateRoot(options.Root)
	if validationError != nil {
		return finish(events.fail(validationError))
	}
	result.Root = rootPath
	result.OutputPath = filepath.Join(rootPath, types.OutputFileName)

	events.transition(types.StateDiscovering)
	rootFilter := filter.New(rootPath, options.ExtraExclusions)
	if options.UseGitignore {
		matcher, gitIgnoreError := filter.LoadGitIgnore(rootPath)
		if gitIgnoreError != nil {
			return finish(events.fail(fmt.Errorf(errorGitIgnoreFormat, gitIgnoreError)))
		}
		if matcher != nil {
			rootFilter = rootFilter.WithGitIgnore(matcher)
		}
	}
	// Discovery and tree rendering both visit unreadable directories; warn once.
	warned := map[string]struct{}{}
	warn := func(message string) {
		message = strings.TrimRight(message, "\n")
		if _, seen := warned[message]; seen {
			return
		}
		warned[message] = struct{}{}
		events.log(LogLevelWarning, message)
	}
	discoverer := &commands.FileDiscoverer{Filter: rootFilter, Warn: warn, ReadDir: options.ReadDir}
	files, discoverError := discoverer.Discover(rootPath)
	if discoverError != nil {
		return finish(events.fail(fmt.Errorf(errorDiscoverFormat, discoverError)))
	}
	result.DiscoveredCount = len(files)
	if len(files) == 0 {
		events.log(LogLevelInfo, MessageNoFiles)
		result.Message = MessageNoFiles
		events.transition(types.StateComplete)
		return finish(nil)
	}

	events.transition(types.StateRendering)
	now := options.Now
	if now == nil {
		now = time.Now
	}
	markdown := document.New(rootPath, now())
	treeBuilder := &commands.TreeBuilder{Filter: rootFilter, Warn: warn, ReadDir: options.ReadDir}
	tree, renderError := treeBuilder.Render(rootPath)
	if renderError != nil {
		return finish(events.fail(fmt.Errorf(errorRenderTreeFormat, renderError)))
	}
	markdown.WriteTree(tree)

	events.transition(types.StateEmitting)
	readFile := options.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	for index, file := range files {
		content, readError := readFile(file.Path)
		if readError != nil {
			events.log(LogLevelError, (&FileReadError{Path: file.Path, Err: readError}).Error())
		} else {
			markdown.AppendFile(file.RelativePath, language.HintForFile(file.Name, file.Extension), string(content))
			events.log(LogLevelInfo, fmt.Sprintf(processedLogFormat, file.RelativePath))
		}
		events.progress(index+1, len(files))
	}

	if writeError := markdown.WriteFile(result.OutputPath); writeError != nil {
		return finish(events.fail(&OutputWriteError{Path: result.OutputPath, Err: writeError}))
	}
	result.DocumentWritten = true
	result.IncludedCount = markdown.FileCount()
	result.Bytes = int64(markdown.Len())
	result.Digest = markdown.Digest()
	if options.TokenCounter != nil {
		countResult, countError := tokenizer.CountText(options.TokenCounter, markdown.String())
		if countError != nil {
			events.log(LogLevelWarning, fmt.Sprintf(tokenWarningFormat, countError))
		} else if countResult.Counted {
			result.Tokens = countResult.Tokens
			result.TokenModel = options.TokenModel
		}
	}

	events.progress(len(files), len(files))
	result.Message = fmt.Sprintf(createdLogFormat, types.OutputFileName, result.IncludedCount)
	events.log(LogLevelInfo, result.Message)
	events.transition(types.StateComplete)
	return finish(nil)
}

// Run executes GenerateDocument on a background goroutine and hands every event
// to consume, in order, on a single consumer goroutine. Events are queued
// between the two, so a slow consumer never holds up the scan. Cancelling ctx
// does not interrupt the scan. If consume fails, delivery stops, the scan still
// finishes and the consumer error is returned unless the scan itself failed.
func Run(ctx context.Context, options Options, consume func(Event) error) (types.ScanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	group, streamCtx := errgroup.WithContext(context.WithoutCancel(ctx))
	produced := make(chan Event)
	queued := make(chan Event)

	var result types.ScanResult
	var scanError error
	group.Go(func() error {
		defer close(produced)
		result, scanError = GenerateDocument(streamCtx, options, produced)
		return nil
	})

	group.Go(func() error {
		forwardEvents(streamCtx, produced, queued)
		return nil
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-queued:
				if !ok {
					return nil
				}
				if consume == nil {
					continue
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	deliveryError := group.Wait()
	if scanError != nil {
		return result, scanError
	}
	if deliveryError != nil && !errors.Is(deliveryError, context.Canceled) {
		return result, fmt.Errorf(errorDeliveryFormat, deliveryError)
	}
	return result, nil
}

// forwardEvents moves events from in to out through an unbounded queue, so
// sends on in complete as soon as the event is queued. Order is preserved. out
// is closed once in is closed and the queue is empty; if ctx ends first, the
// queue is dropped and in is drained until closed.
func forwardEvents(ctx context.Context, in <-chan Event, out chan<- Event) {
	defer close(out)
	var pending []Event
	for in != nil || len(pending) > 0 {
		var deliver chan<- Event
		var next Event
		if len(pending) > 0 {
			deliver = out
			next = pending[0]
		}
		select {
		case <-ctx.Done():
			if in != nil {
				for range in {
				}
			}
			return
		case event, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, event)
		case deliver <- next:
			pending[0] = Event{}
			pending = pending[1:]
		}
	}
}

func validateRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", &ValidationError{Path: root, Message: MessageSelectDirectory}
	}
	absolutePath, absoluteError := filepath.Abs(trimmed)
	if absoluteError != nil {
		return "", &ValidationError{Path: trimmed, Message: MessageDirectoryMissing, Err: absoluteError}
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil || !info.IsDir() {
		return "", &ValidationError{Path: absolutePath, Message: MessageDirectoryMissing}
	}
	return filepath.Clean(absolutePath), nil
}
