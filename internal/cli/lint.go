package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
	"github.com/r9s-ai/pipelint/pkg/report"
)

type lintOptions struct {
	format string
	color  string
	strict bool
}

func newLintCmd(root *rootOptions) *cobra.Command {
	opts := lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint <path>",
		Short: "Check a config file for duplicate ids and unbalanced braces",
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
			return runLint(cmd, e, opts, args[0])
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.format, "format", "", "report format: text or json (default from config)")
	fs.StringVar(&opts.color, "color", "", "colorize text output: auto, always or never (default from config)")
	fs.BoolVar(&opts.strict, "strict", false, "exit with an error when the report has errors")
	return cmd
}

func runLint(cmd *cobra.Command, e *env, opts lintOptions, path string) error {
	res := pipeconf.ValidateFile(path)
	e.logger.Debug("lint finished",
		zap.String("path", path), zap.Int("errors", len(res.Errors)), zap.Int("warnings", len(res.Warnings)))

	if err := renderReport(cmd, e, res, path, opts.format, opts.color); err != nil {
		return err
	}
	if opts.strict && !res.OK() {
		return fmt.Errorf("%s: %d error(s) found", path, len(res.Errors))
	}
	return nil
}

func renderReport(cmd *cobra.Command, e *env, res pipeconf.Result, path, format, color string) error {
	out := cmd.OutOrStdout()
	return report.Render(out, res, report.Options{
		Format: firstNonEmpty(format, e.cfg.Report.Format),
		Color:  report.ColorEnabled(firstNonEmpty(color, e.cfg.Report.Color), out),
		File:   path,
	})
}
