package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/api"
)

// shutdownTimeout bounds graceful HTTP shutdown
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command
type ServeOptions struct {
	Addr string // Overrides serve.addr from config
}

// NewServeCmd creates the serve command
func NewServeCmd(app *App) *cobra.Command {
	opts := ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pull request evaluation over HTTP",
		Long: `Serve exposes:

  GET  /healthz                  liveness
  GET  /pulls/{number}           dry-run report
  POST /pulls/{number}/evaluate  evaluate with side effects
  GET  /pulls/{number}/history   recorded evaluations (sqlite store)
  POST /sweep                    evaluate every open pull request`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// RunServe starts the HTTP server and blocks until interrupted
func (a *App) RunServe(cmd *cobra.Command, opts ServeOptions) error {
	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := rt.Config.Serve.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	var history api.History
	if rt.DB != nil {
		history = rt.DB
	}
	handler := api.NewHandler(rt.Evaluator, history, rt.Repo(), rt.Logger)
	srv := api.NewServer(addr, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := NewSignalHandler(cancel, rt.Logger)
	signals.Start()
	defer signals.Stop()

	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "revwatch serving %s on %s\n", rt.Repo(), srv.Addr())

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		rt.Logger.Warn("shutdown incomplete", zap.Error(err))
		return err
	}
	return nil
}
