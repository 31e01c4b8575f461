package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/logger"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long: `Serves extract, export and categories over HTTP:

  POST /api/extract     {"paths": [...]}
  POST /api/export      {"paths": [...], "categories": [1, 3], "output": "out.csv"}
  POST /api/categories  {"paths": [...]}
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServer(parent context.Context) error {
	// 1. Setup
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.Setup(server.NewHandler(a.service, a.parser.CategoryTemplates), logger.Named(a.logger, "http"))

	// 2. Start Server
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("api server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 3. Shut down on signal
	select {
	case err := <-errCh:
		if err != nil {
			return apperr.Wrap(apperr.KindIO, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperr.Wrap(apperr.KindIO, err)
	}
	return nil
}
