package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/api"
	"github.com/rgehrsitz/riseplan/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appCfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		var store storage.RunStore
		if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			store = s
		}

		server := api.NewServer(newEngine(false), store, logger).HTTPServer(addr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("Starting server on %s", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default $RISEPLAN_HTTP_ADDR or :8080)")
	serveCmd.Flags().Bool("no-store", false, "Serve without the saved-run endpoints")

	rootCmd.AddCommand(serveCmd)
}
