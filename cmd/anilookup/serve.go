// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/anilookup/internal/delivery"
	"github.com/pdiddy/anilookup/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve bot commands to websocket clients",
	Long: `Serve listens for websocket connections on /ws. Each connection is one
conversation: text frames such as "$search num=5 bleach" or "$next" are
commands, and every reply is a JSON frame holding the page to show. Results
expire after the configured idle timeout.

/healthz and /metrics (Prometheus) are served on the same address.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if appConfig.Log.Format == "" {
		logging.Init(logging.Config{Level: appConfig.Log.Level, Format: "json"})
	}

	a := newApp(appConfig)
	ws := delivery.NewServer(a.dispatcher, a.dispatcher.Sessions())
	handler := delivery.Router(ws, func() map[string]any {
		return map[string]any{"breaker": a.breaker.State().String()}
	})

	srv := &http.Server{
		Addr:              appConfig.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("serving websocket conversations")
		errCh <- srv.ListenAndServe()
	}()

	ctx := cmd.Context()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	a.dispatcher.Sessions().CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
