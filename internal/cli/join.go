package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
)

func newJoinCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join [input_dir] [output_file]",
		Short: "Recombine stanza files into one config and lint it",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			inputDir, outputFile := e.cfg.Join.InputDir, e.cfg.Join.OutputFile
			if len(args) > 0 {
				inputDir = args[0]
			}
			if len(args) > 1 {
				outputFile = args[1]
			}
			return runJoin(cmd, e, inputDir, outputFile)
		},
	}
}

func runJoin(cmd *cobra.Command, e *env, inputDir, outputFile string) error {
	jr, err := pipeconf.JoinDir(inputDir, outputFile)
	if err != nil {
		return fmt.Errorf("join %s: %w", inputDir, err)
	}
	e.logger.Info("join finished", zap.String("input_dir", inputDir), zap.Strings("files", jr.Files))

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Wrote %s\n", jr.OutputFile); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, "Running linter on the joined configuration..."); err != nil {
		return err
	}
	return renderReport(cmd, e, jr.Result, jr.OutputFile, "", "")
}
