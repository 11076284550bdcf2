package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dhamidi/javalyzer/ui"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis API",
		Long: `Serve the analyzer as a JSON API:

  POST /api/analyze             analyze the request body
  POST /api/jobs                queue a directory, archive or inline sources
  GET  /api/jobs                list jobs
  GET  /api/jobs/{id}           job status and summaries
  GET  /api/jobs/{id}/results   full results of a finished job

Set JAVA_SRC to a directory or archive to queue it at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			handler := ui.NewServer(a.cfg)
			defer handler.Close()

			srv := &http.Server{Addr: addr, Handler: handler}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)

			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on; defaults to server.addr")

	return cmd
}
