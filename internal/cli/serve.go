package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/pipelint/internal/web"
)

type serveOptions struct {
	listen string
	h2c    bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for lint, split and join",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if !strings.EqualFold(e.cfg.Logging.Level, "debug") {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.Run(ctx, web.Options{
				Listen:       firstNonEmpty(opts.listen, e.cfg.Serve.Listen),
				MaxBodyBytes: e.cfg.Serve.MaxBodyBytes,
				H2C:          opts.h2c || e.cfg.Serve.H2C,
				Logger:       e.logger,
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.listen, "listen", "", "http listen address (overrides config and PIPELINT_LISTEN)")
	fs.BoolVar(&opts.h2c, "h2c", false, "also accept cleartext HTTP/2")
	return cmd
}
