package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-penelitian/access"
	"resume-penelitian/handlers"
	"resume-penelitian/logger"
	"resume-penelitian/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on SERVER_HOST:SERVER_PORT.

Configuration is read from the environment and an optional .env file.

Example:
  resume serve
  SEED_DEMO_USERS=true resume serve --port 9090`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "override SERVER_PORT")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if opts.Port != "" {
		cfg.Server.Port = opts.Port
	}
	if cfg.UsesDefaultSecret() {
		logger.Warnf("JWT_SECRET is not set; using the built-in development secret")
	}
	if cfg.SeedDemo {
		if err := a.authService.SeedDemoUsers(ctx); err != nil {
			return err
		}
	}
	logger.Infof("research store at %s holds %d records", a.store.Path(), len(a.store.Load(ctx)))

	gin.SetMode(cfg.Server.Mode)

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := handlers.NewRouter(handlers.RouterDeps{
		AuthService:     a.authService,
		ResearchService: a.researchService,
		ReportService:   a.reportService,
		Sessions:        a.sessions,
		Policy:          access.Default(),
		RateLimit:       cfg.RateLimit,
		Redis:           a.redis,
		Registry:        reg,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server starting on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
