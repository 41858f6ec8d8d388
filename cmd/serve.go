/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/opustran/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translation web page",
	Long: `Start an HTTP server with a single-page translation UI. Models are
loaded on first use and kept for the life of the process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, cleanup, err := buildFacade(true)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           web.NewServer(f, f.Registry().Names(), logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", srv.Addr))
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8501", "Listen address")
	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}
