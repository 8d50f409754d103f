package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/pipelint/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
	format   string
	color    string
}

func newWatchCmd(root *rootOptions) *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-lint a config file, or a directory of stanza files, on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return cmd.Help()
			}
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, e, opts, args[0])
		},
	}
	fs := cmd.Flags()
	fs.DurationVar(&opts.debounce, "debounce", 0, "quiet period before re-linting (default from config)")
	fs.StringVar(&opts.format, "format", "", "report format: text or json (default from config)")
	fs.StringVar(&opts.color, "color", "", "colorize text output: auto, always or never (default from config)")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, e *env, opts watchOptions, path string) error {
	debounce := opts.debounce
	if debounce <= 0 {
		debounce = time.Duration(e.cfg.Watch.DebounceMs) * time.Millisecond
	}
	var renderErr error
	err := watch.Run(ctx, watch.Options{
		Path:     path,
		Debounce: debounce,
		Logger:   e.logger,
		OnEvaluate: func(ev watch.Evaluation) {
			out := cmd.OutOrStdout()
			header := ev.Path
			if ev.Dir {
				header = fmt.Sprintf("%s (%d stanza files)", ev.Path, len(ev.Files))
			}
			_, _ = fmt.Fprintf(out, "== %s %s ==\n", time.Now().Format("15:04:05"), header)
			if err := renderReport(cmd, e, ev.Result, ev.Path, opts.format, opts.color); err != nil && renderErr == nil {
				renderErr = err
			}
		},
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return renderErr
}
