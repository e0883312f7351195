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
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
	appsession "github.com/bryanwahyu/contract-analyzer/internal/application/session"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/httpserver"
	"github.com/bryanwahyu/contract-analyzer/internal/middleware"
)

var secureCookies bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contract analysis dashboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "mark the session cookie Secure (behind TLS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	store := appsession.NewStore(cfg.Session.IdleTimeout, application.SystemClock{}, log.Named("session"))

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(ctx, cfg.Server.RateLimit)
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis: svc.analysis,
		Exporter: svc.exporter,
		Sessions: store,
		Metrics:  middleware.NewMetrics(),
		Log:      log.Named("http"),
	}, httpserver.Options{
		Version:        version,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimiter:    limiter,
		Checkers:       svc.checkers,
		SecureCookies:  secureCookies,
	})

	// an analysis call can run for minutes; the write deadline has to cover it
	writeTimeout := 10 * time.Minute
	if cfg.AI.Timeout > 0 {
		writeTimeout = cfg.AI.Timeout + time.Minute
	}
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("provider", cfg.AI.Provider), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		ctx2, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(ctx2)
	})
	return g.Wait()
}
