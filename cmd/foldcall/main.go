// Command foldcall submits the sample prediction payloads to an
// AlphaFold2-Multimer service and prints the response.
//
// Usage:
//
//	foldcall [-env local] [-config path] [-base-url URL] [-strict] [-metrics-file path] msa|structure|health
//
// Env vars:
//
//	ENV                 config environment (default: local)
//	FOLDCALL_BASE_URL   service address used by the shipped configs
//	VALKEY_ADDR         response cache address when cache.enabled
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/foldcall/internal/config"
	"github.com/kailas-cloud/foldcall/internal/db"
	dbValkey "github.com/kailas-cloud/foldcall/internal/db/valkey"
	"github.com/kailas-cloud/foldcall/internal/domain"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	logpkg "github.com/kailas-cloud/foldcall/internal/logger"
	"github.com/kailas-cloud/foldcall/internal/metrics"
	"github.com/kailas-cloud/foldcall/internal/repository/respcache"
	"github.com/kailas-cloud/foldcall/internal/sample"
	"github.com/kailas-cloud/foldcall/internal/transport/httpclient"
	healthuc "github.com/kailas-cloud/foldcall/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/foldcall/internal/usecase/prediction"
	"github.com/kailas-cloud/foldcall/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1 // non-2xx, transport or decode error
	exitUsage   = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

type options struct {
	env         string
	configPath  string
	baseURL     string
	strict      bool
	metricsFile string
	command     string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("foldcall", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "usage: foldcall [flags] msa|structure|health")
		fs.PrintDefaults()
	}

	opts := options{}
	fs.StringVar(&opts.env, "env", config.GetEnv(), "config environment: local, dev, docker, prod")
	fs.StringVar(&opts.configPath, "config", "", "config file path (overrides -env lookup)")
	fs.StringVar(&opts.baseURL, "base-url", "", "prediction service URL (overrides config)")
	fs.BoolVar(&opts.strict, "strict", false, "validate requests before sending")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New("exactly one command required")
	}
	opts.command = fs.Arg(0)
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitUsage
	}

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("Starting foldcall",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.String("command", opts.command),
		zap.String("base_url", cfg.Service.BaseURL),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register prediction metrics explicitly (no init())
	metrics.RegisterPredictionMetrics()
	if opts.metricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer); err != nil {
				logger.Warn("Failed to write metrics file", zap.String("path", opts.metricsFile), zap.Error(err))
			}
		}()
	}

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", zap.Error(err))
		return exitFailure
	}
	defer app.close()

	// Per-call logger carries the request id that is also sent as X-Request-ID.
	requestID := uuid.NewString()
	ctx = httpclient.ContextWithRequestID(ctx, requestID)
	ctx = logpkg.ContextWithLogger(ctx, logger.With(zap.String("request_id", requestID)))

	switch opts.command {
	case "health":
		return printHealth(stdout, app.health.Check(ctx))
	default:
		endpoint, err := domain.ParseEndpoint(opts.command)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%v\n", err)
			return exitUsage
		}
		return submit(ctx, app.prediction, endpoint, stdout)
	}
}

func loadConfig(opts options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(opts.env)
	}
	if err != nil {
		return config.Config{}, err
	}

	if opts.baseURL != "" {
		cfg.Service.BaseURL = opts.baseURL
	}
	if opts.strict {
		cfg.Validation.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app holds the wired services. Composition root.
type app struct {
	prediction *predictionuc.Service
	health     *healthuc.Service
	store      db.Store
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	client, err := httpclient.New(&httpclient.Config{
		BaseURL:   cfg.Service.BaseURL,
		Timeout:   cfg.Service.Timeout(),
		UserAgent: version.UserAgent(),
		Transport: httpclient.TransportConfig{
			DialTimeout:         time.Duration(cfg.Transport.DialTimeoutMs) * time.Millisecond,
			KeepAlive:           time.Duration(cfg.Transport.KeepAliveMs) * time.Millisecond,
			MaxIdleConns:        cfg.Transport.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
			IdleConnTimeout:     time.Duration(cfg.Transport.IdleConnTimeoutMs) * time.Millisecond,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create prediction client: %w", err)
	}

	a := &app{}
	var poster domain.Poster = client

	// Pass nil interface (not typed nil pointer) when the cache is off.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:      cfg.Cache.Addrs,
			Username:   cfg.Cache.Username,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			Standalone: cfg.Cache.Standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Cache.Driver, err)
		}
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Debug("Connected to response cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)
		a.store = store
		cachePinger = store
		poster = respcache.New(client, store, cfg.Cache.TTL(), metrics.PredictionCacheTotal, logger).
			WithScope(client.BaseURL())
	}

	a.prediction = predictionuc.New(poster, logger).WithStrictValidation(cfg.Validation.Strict)
	a.health = healthuc.New(client, cachePinger)
	return a, nil
}

func submit(ctx context.Context, svc *predictionuc.Service, endpoint domain.Endpoint, stdout io.Writer) int {
	var (
		out outcome.Outcome
		err error
	)
	switch endpoint {
	case domain.EndpointMSA:
		out, err = svc.PredictMSA(ctx, sample.MSARequest())
	case domain.EndpointStructure:
		out, err = svc.PredictStructure(ctx, sample.StructureRequest())
	}
	if err != nil {
		_, _ = fmt.Fprintf(stdout, "Request error: %v\n", err)
		return exitFailure
	}

	if !out.IsSuccess() {
		_, _ = fmt.Fprintf(stdout, "Request failed: %d %s\n", out.StatusCode(), out.Text())
		return exitFailure
	}
	_, _ = fmt.Fprintf(stdout, "Request succeeded: %s\n", encodeValue(out))
	return exitOK
}

// encodeValue re-encodes the decoded body as compact JSON.
func encodeValue(out outcome.Outcome) string {
	b, err := json.Marshal(out.Value())
	if err != nil {
		return strings.TrimSpace(out.Text())
	}
	return string(b)
}

func printHealth(stdout io.Writer, report healthuc.Report) int {
	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, report.Checks[name]))
	}
	_, _ = fmt.Fprintf(stdout, "Health: %s (%s)\n", report.Status, strings.Join(parts, ", "))

	if report.Status == healthuc.Unhealthy {
		return exitFailure
	}
	return exitOK
}
