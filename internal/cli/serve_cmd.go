package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartallies/incident/internal/api"
	"github.com/smartallies/incident/internal/app"
)

func newServeCmd(a *App, opts *app.Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Long: `Start the HTTP server exposing POST /api/chat, GET /api/health and
DELETE /api/sessions/{id}. Sessions live in memory until the process exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.Build(ctx, *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr == "" {
				addr = rt.Config.Server.Addr
			}
			router := api.NewRouter(api.NewHandler(rt.Engine, rt.Logger), rt.Logger)
			return api.NewServer(addr, router, rt.Config.Server.ShutdownGrace(), rt.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
