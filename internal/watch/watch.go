// Package watch re-validates a pipeline config, or a directory of stanza files,
// whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
)

// Evaluation is the outcome of checking a watched target once.
type Evaluation struct {
	Path string
	// Dir is true when Path is a stanza directory that was joined in memory.
	Dir    bool
	Files  []string
	Result pipeconf.Result
}

// Evaluate validates path. A directory is treated as a set of stanza files: they are
// joined in memory, nothing is written, and the joined text is validated.
func Evaluate(path string) Evaluation {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return Evaluation{Path: path, Result: pipeconf.ValidateFile(path)}
	}
	bodies, names, err := pipeconf.ReadStanzaDir(path)
	if err != nil {
		res := pipeconf.Result{Errors: []pipeconf.Finding{{
			Message:  "Failed to load config file: " + err.Error(),
			Severity: pipeconf.SeverityError,
		}}, Warnings: []pipeconf.Finding{}}
		return Evaluation{Path: path, Dir: true, Result: res}
	}
	return Evaluation{
		Path:   path,
		Dir:    true,
		Files:  names,
		Result: pipeconf.Validate(pipeconf.JoinBlocks(bodies)),
	}
}

type Options struct {
	Path     string
	Debounce time.Duration
	Logger   *zap.Logger
	// OnEvaluate receives every evaluation, including the initial one.
	OnEvaluate func(Evaluation)
}

// Run evaluates the target once, then again after each burst of relevant file
// events settles for opts.Debounce. It returns when ctx is done.
func Run(ctx context.Context, opts Options) error {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return errors.New("watch path is empty")
	}
	if opts.OnEvaluate == nil {
		return errors.New("watch callback is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	// Editors often replace files on save, so a single file is watched through its
	// parent directory.
	watchDir, match := path, ""
	if !fi.IsDir() {
		watchDir, match = filepath.Dir(path), filepath.Base(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(watchDir); err != nil {
		return err
	}
	logger.Info("watching", zap.String("path", path), zap.Duration("debounce", debounce))

	opts.OnEvaluate(Evaluate(path))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-timerC:
			timerC = nil
			opts.OnEvaluate(Evaluate(path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ShouldTrigger(evt, match) {
				continue
			}
			logger.Debug("change detected", zap.String("file", evt.Name), zap.String("op", evt.Op.String()))
			resetTimer()
		}
	}
}

// ShouldTrigger reports whether evt affects the watched target. With match empty the
// target is a stanza directory and any non-hidden `.conf` file counts; otherwise only
// the file named match does.
func ShouldTrigger(evt fsnotify.Event, match string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(evt.Name)
	if match != "" {
		return base == match
	}
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == pipeconf.StanzaExt
}
