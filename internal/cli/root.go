// Package cli wires the pipelint command tree.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r9s-ai/pipelint/internal/config"
	"github.com/r9s-ai/pipelint/internal/logx"
)

type rootOptions struct {
	cfgPath  string
	logLevel string
}

// env is what every command needs after the global flags are applied.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	close  func()
}

func Execute(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfgPath: config.DefaultPath}
	cmd := &cobra.Command{
		Use:   "pipelint",
		Short: "Lint, split and join pipeline configuration files",
		Example: strings.Join([]string{
			"  pipelint lint pipeline.conf",
			"  pipelint split pipeline.conf parts/",
			"  pipelint join parts/ pipeline.conf",
		}, "\n"),
		SilenceUsage:  true,
		SilenceErrors: true,
		// An unrecognized command prints usage instead of failing.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "config yaml path (optional)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	cmd.AddCommand(
		newLintCmd(opts),
		newSplitCmd(opts),
		newJoinCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newBrowseCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadIfExists(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl := strings.TrimSpace(o.logLevel); lvl != "" {
		if _, err := logx.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.Logging.Level = lvl
	}
	logger, closer, err := logx.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{
		cfg:    cfg,
		logger: logger,
		close: func() {
			_ = logger.Sync()
			_ = closer.Close()
		},
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
