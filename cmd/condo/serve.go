package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"condo/internal/auth"
	"condo/internal/config"
	"condo/internal/metrics"
	"condo/internal/ratelimit"
	"condo/internal/telemetry"
	"condo/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, prometheus.NewRegistry())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port for the dashboard (default 3000)")
	serveCmd.Flags().Int("metrics-port", 0, "Port for Prometheus metrics (default 2112, 0 disables)")
	serveCmd.Flags().Bool("random-errors", false, "Inject random API failures")

	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("metrics_port", serveCmd.Flags().Lookup("metrics-port"))
	viper.BindPFlag("mock.random_errors", serveCmd.Flags().Lookup("random-errors"))
}

// newSessionStore is swapped in tests.
var newSessionStore = func(ctx context.Context, c config.SessionConfig) (auth.SessionStore, error) {
	switch c.Store {
	case "redis":
		rdb, err := auth.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			_ = rdb.Close()
		}()
		return auth.NewRedisSessionStore(rdb), nil
	default:
		return auth.NewMemorySessionStore(), nil
	}
}

// runServe starts the dashboard and, when configured, the metrics server and
// blocks until ctx is cancelled or one of them fails.
func runServe(ctx context.Context, reg *prometheus.Registry) error {
	m := metrics.NewMetrics(reg)

	a, err := openApp(ctx, m)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	g, ctx := errgroup.WithContext(ctx)

	sessions, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	authn := auth.New(a.api, sessions, auth.Options{
		TTL:         cfg.Session.TTL,
		IdleTimeout: cfg.Session.IdleTimeout,
		LoginDelay:  cfg.Mock.LoginDelay,
		Metrics:     m,
	})
	if _, inProcess := sessions.(*auth.MemorySessionStore); inProcess {
		g.Go(func() error {
			authn.RunSweeper(ctx, time.Minute)
			return nil
		})
	}

	var limiter *ratelimit.Store
	if cfg.Login.RPS > 0 {
		limiter = ratelimit.NewStore(cfg.Login.RPS, cfg.Login.Burst)
		limiter.StartJanitor(ctx)
	}

	srv, err := web.NewServer(a.api, authn, web.Options{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Breakpoint:   cfg.Layout.Breakpoint,
		LoginLimiter: limiter,
		TrustXFF:     cfg.Login.TrustXFF,
		Metrics:      m,
	})
	if err != nil {
		return err
	}

	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	if cfg.MetricsPort != 0 {
		ms := telemetry.NewMetricsServer(fmt.Sprintf(":%d", cfg.MetricsPort), m.Handler())
		g.Go(func() error {
			return ms.Serve(ctx)
		})
	}

	slog.Info("Dashboard ready",
		"port", cfg.Port,
		"store", cfg.Store.Type,
		"sessions", cfg.Session.Store,
		"mock_delay", cfg.Mock.Delay.String(),
		"random_errors", cfg.Mock.RandomErrors,
	)
	return g.Wait()
}
