package cli

import (
	"github.com/spf13/cobra"

	"github.com/r9s-ai/pipelint/internal/tui"
)

func newBrowseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <path>",
		Short: "Open the lint report and annotated source in a scrollable view",
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
			return tui.Run(args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
