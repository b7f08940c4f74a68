// Command gosignin serves the goSignin engine over HTTP.
//
//	GOSIGNIN_TOKEN=s3cret gosignin --addr :8001 --metrics-addr :9090
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/api"
	"github.com/MrEthical07/goSignin/metrics/export/prometheus"
	"github.com/alicebob/miniredis/v2"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := &Options{}
	if _, err := flags.ParseArgs(opts, args); err != nil {
		return err
	}

	logger, err := newLogger(opts.Dev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	key, err := sessionKey(opts.SessionKey, logger)
	if err != nil {
		return err
	}
	cfg, err := opts.engineConfig(key)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ---------- redis ----------
	var rdb redis.UniversalClient
	if opts.needsRedis() {
		client, cleanup, err := redisClient(opts.RedisAddr, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		rdb = client
	}

	// ---------- engine ----------
	builder := goSignin.New().
		WithConfig(cfg).
		WithLogger(logger)
	if rdb != nil {
		builder = builder.WithRedis(rdb)
	}
	if opts.Audit {
		builder = builder.WithAuditSink(goSignin.NewZapAuditSink(logger))
	}
	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	server, err := api.NewServer(engine, api.Config{
		Token:          opts.Token,
		TrustForwarded: opts.TrustForwarded,
	}, logger)
	if err != nil {
		return err
	}

	// ---------- servers ----------
	servers := []*http.Server{{
		Addr:              opts.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", prometheus.NewPrometheusExporter(engine).Handler())
		servers = append(servers, &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// sessionKey returns the configured key, or a random one that only lives as
// long as this process.
func sessionKey(configured string, logger *zap.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	logger.Warn("no session key configured; sealed sessions will not survive a restart")
	return key, nil
}

// redisClient connects to addr, or starts an in-process miniredis when addr
// is empty.
func redisClient(addr string, logger *zap.Logger) (redis.UniversalClient, func(), error) {
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		logger.Info("using redis", zap.String("addr", addr))
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	logger.Warn("no redis address configured; using in-process miniredis", zap.String("addr", mr.Addr()))
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}
