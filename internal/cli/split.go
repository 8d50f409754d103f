package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
)

func newSplitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "split <pipeline.conf> [output_dir]",
		Short: "Write each input/filter/output stanza to its own file",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return cmd.Help()
			}
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			outDir := e.cfg.Split.OutputDir
			if len(args) > 1 {
				outDir = args[1]
			}
			return runSplit(cmd, e, args[0], outDir)
		},
	}
}

func runSplit(cmd *cobra.Command, e *env, source, outDir string) error {
	written, err := pipeconf.SplitFile(source, outDir)
	// Files written before a failure are still reported.
	for _, p := range written {
		if _, werr := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Base(p)); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("split %s: %w", source, err)
	}
	e.logger.Info("split finished", zap.String("source", source), zap.String("output_dir", outDir), zap.Int("files", len(written)))
	return nil
}
