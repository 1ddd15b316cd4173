package bren

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sokinpui/bren/rename"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Config struct {
	Rule         rename.Rule
	Paths        []string
	Extensions   []string
	Apply        bool
	Yes          bool
	OutputScript bool
	Undo         bool
	Redo         bool
	StateDir     string
}

type ProgressUpdate func(current, total int)

// ConfirmFunc is asked before a batch is applied; returning false cancels
// it.
type ConfirmFunc func(previews []rename.Preview, plan *ExecutionPlan) (bool, error)

type App struct {
	cfg              *Config
	log              *zap.Logger
	out              io.Writer
	stateManager     *StateManager
	pathResolver     *PathResolver
	sourceProvider   *SourceProvider
	fileManager      *FileManager
	progressCallback ProgressUpdate
	confirm          ConfirmFunc
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

func NewApp(cfg *Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sm, err := NewStateManager(cfg.StateDir, log)
	if err != nil {
		return nil, err
	}

	pr, err := NewPathResolver()
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:            cfg,
		log:            log,
		out:            os.Stdout,
		stateManager:   sm,
		pathResolver:   pr,
		sourceProvider: NewSourceProvider(),
		fileManager:    NewFileManager(log),
	}, nil
}

func (a *App) SetProgressCallback(cb ProgressUpdate) { a.progressCallback = cb }
func (a *App) SetConfirm(fn ConfirmFunc)             { a.confirm = fn }
func (a *App) SetOutput(w io.Writer)                 { a.out = w }

func (a *App) Execute() (summary Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastOperation()
	case a.cfg.Redo:
		return a.redoLastOperation()
	default:
		return a.processBatch()
	}
}

func (a *App) processBatch() (Summary, error) {
	if a.cfg.Rule == nil {
		return Summary{}, errors.New("no rename rule selected")
	}

	files, skipped, err := a.collect()
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{Message: "No files", Failed: skipped}, nil
	}

	previews := rename.GeneratePreview(files, a.cfg.Rule)
	plan := CreatePlan(files, previews)

	if a.cfg.OutputScript {
		_, err := io.WriteString(a.out, FormatScript(plan))
		return Summary{}, err
	}

	s := Summary{Unchanged: plan.Unchanged, Failed: skipped}
	for _, r := range plan.Refused() {
		s.Failed = append(s.Failed, fmt.Sprintf("%s -> %s (%s)", r.OldPath, r.NewName, r.Reason))
	}

	if !a.cfg.Apply {
		s.Previews = previews
		s.Message = fmt.Sprintf("Preview: %d of %d file(s) would change", len(plan.Renames), len(previews))
		a.relativizeSummaryPaths(&s)
		return s, nil
	}

	if len(plan.Ready()) == 0 {
		s.Message = "Nothing to do"
		a.relativizeSummaryPaths(&s)
		return s, nil
	}

	if !a.cfg.Yes && a.confirm != nil {
		ok, err := a.confirm(previews, plan)
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			return Summary{Message: "Cancelled"}, nil
		}
	}

	return a.applyChanges(plan, s)
}

// collect resolves the batch. Paths given on the command line win; otherwise
// the list is read from stdin or the clipboard.
func (a *App) collect() ([]rename.FileDescriptor, []string, error) {
	paths := a.cfg.Paths
	if len(paths) == 0 {
		c, err := a.sourceProvider.GetContent()
		if err != nil {
			return nil, nil, fmt.Errorf("reading file list: %w", err)
		}
		if paths, err = ExtractPaths(c); err != nil {
			return nil, nil, fmt.Errorf("parsing file list: %w", err)
		}
	}

	files, err := CollectFiles(paths, a.pathResolver, a.cfg.Extensions)
	var skipped []string
	for _, e := range multierr.Errors(err) {
		a.log.Warn("skipping path", zap.Error(e))
		skipped = append(skipped, e.Error())
	}
	a.log.Debug("collected files", zap.Int("count", len(files)), zap.Int("skipped", len(skipped)))
	return files, skipped, nil
}

func (a *App) applyChanges(plan *ExecutionPlan, s Summary) (Summary, error) {
	ready := plan.Ready()
	total := len(ready)
	a.reportProgress(0, total)

	if err := a.stateManager.Sync(); err != nil {
		a.log.Warn("could not sync history", zap.Error(err))
	}

	renamed, failed := a.fileManager.Rename(ready, func(n int) {
		a.reportProgress(n, total)
	})

	a.recordHistory(renamed)
	syncEditorBuffers(a.log, renamed)

	for _, r := range renamed {
		s.Renamed = append(s.Renamed, fmt.Sprintf("%s -> %s", r.OldPath, r.NewPath))
	}
	s.Failed = append(s.Failed, failed...)
	s.Message = fmt.Sprintf("Renamed %d of %d file(s)", len(renamed), total)
	a.relativizeSummaryPaths(&s)
	return s, nil
}

func (a *App) recordHistory(renamed []FileRename) {
	if len(renamed) == 0 {
		return
	}
	ops := a.stateManager.CreateOperations(renamed)
	if len(ops) == 0 {
		return
	}
	if err := a.stateManager.Write(ops); err != nil {
		a.log.Warn("could not record history; this batch cannot be undone", zap.Error(err))
	}
}

func (a *App) reportProgress(current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(current, total)
	}
}

func (a *App) undoLastOperation() (Summary, error) {
	ops, err := a.stateManager.GetOperationsToUndo()
	if err != nil {
		return Summary{}, fmt.Errorf("updating history: %w", err)
	}
	if len(ops) == 0 {
		return Summary{Message: "No undo"}, nil
	}
	s, moved := a.fileManager.Undo(ops, func(n int) { a.reportProgress(n, len(ops)) })
	syncEditorBuffers(a.log, moved)
	s.Message = "Undone"
	a.relativizeSummaryPaths(&s)
	return s, nil
}

func (a *App) redoLastOperation() (Summary, error) {
	ops, err := a.stateManager.GetOperationsToRedo()
	if err != nil {
		return Summary{}, fmt.Errorf("updating history: %w", err)
	}
	if len(ops) == 0 {
		return Summary{Message: "No redo"}, nil
	}
	s, moved := a.fileManager.Redo(ops, func(n int) { a.reportProgress(n, len(ops)) })
	syncEditorBuffers(a.log, moved)
	s.Message = "Redone"
	a.relativizeSummaryPaths(&s)
	return s, nil
}

func (a *App) relativizeSummaryPaths(s *Summary) {
	relList := func(entries []string) []string {
		var res []string
		for _, e := range entries {
			if strings.Contains(e, " -> ") {
				parts := strings.SplitN(e, " -> ", 2)
				res = append(res, fmt.Sprintf("%s -> %s", a.pathResolver.Rel(parts[0]), a.pathResolver.Rel(parts[1])))
			} else {
				res = append(res, a.pathResolver.Rel(e))
			}
		}
		return res
	}
	s.Renamed = relList(s.Renamed)
}
