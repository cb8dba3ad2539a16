package foldcall

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/foldcall/internal/db"
	dbValkey "github.com/kailas-cloud/foldcall/internal/db/valkey"
	"github.com/kailas-cloud/foldcall/internal/domain"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	"github.com/kailas-cloud/foldcall/internal/domain/prediction"
	"github.com/kailas-cloud/foldcall/internal/repository/respcache"
	"github.com/kailas-cloud/foldcall/internal/transport/httpclient"
	healthuc "github.com/kailas-cloud/foldcall/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/foldcall/internal/usecase/prediction"
	"github.com/kailas-cloud/foldcall/internal/version"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Internal interface for substitution in tests.
type predictionUseCase interface {
	Submit(ctx context.Context, req prediction.Request) (outcome.Outcome, error)
}

// Client is the foldcall SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store // nil without a response cache
	predSvc   predictionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With a response cache configured, New connects to
// the cache and waits until it answers PING.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig(opts...)

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.cacheDriver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.readiness)
		defer cancel()
		if err := store.WaitForReady(ctx, cfg.readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("foldcall: cache not ready: %w", err)
		}
	}

	c, err := wireClient(cfg, store, obs)
	if err != nil && store != nil {
		store.Close()
	}
	return c, err
}

func newClientConfig(opts ...Option) *clientConfig {
	cfg := &clientConfig{
		baseURL:   domain.DefaultBaseURL,
		userAgent: version.UserAgent(),
		cacheTTL:  defaultCacheTTL,
		readiness: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.readiness <= 0 {
		cfg.readiness = defaultReadinessTimeout
	}
	if cfg.cacheTTL <= 0 {
		cfg.cacheTTL = defaultCacheTTL
	}
	return cfg
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "valkey", "redis":
		// rueidis speaks the same protocol to both.
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:      cfg.cacheAddrs,
			Username:   cfg.cacheUser,
			Password:   cfg.cachePass,
			DB:         cfg.cacheDB,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("foldcall: create %s store: %w", cfg.cacheDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("foldcall: unknown cache driver %q", cfg.cacheDriver)
	}
}

func wireClient(cfg *clientConfig, store db.Store, obs *observer) (*Client, error) {
	ms := obs.predictionSet()
	httpCfg := &httpclient.Config{
		BaseURL:   cfg.baseURL,
		Timeout:   cfg.timeout,
		UserAgent: cfg.userAgent,
		Metrics:   ms,
	}
	var (
		hc  *httpclient.Client
		err error
	)
	if cfg.httpClient != nil {
		hc, err = httpclient.NewWithHTTPClient(httpCfg, cfg.httpClient)
	} else {
		hc, err = httpclient.New(httpCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("foldcall: %w", err)
	}

	var poster domain.Poster = hc
	var cachePinger healthuc.CachePinger
	if store != nil {
		poster = respcache.New(hc, store, cfg.cacheTTL, ms.CacheTotal, nil).WithScope(hc.BaseURL())
		cachePinger = store
	}

	return &Client{
		store:     store,
		predSvc:   predictionuc.New(poster, nil).WithStrictValidation(cfg.strict),
		healthSvc: healthuc.New(hc, cachePinger),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// SubmitMSAPrediction asks the service to compute multiple sequence
// alignments for sequences against databases.
//
// A non-2xx response is returned as an Outcome with IsSuccess() == false
// and a nil error. Transport failures wrap ErrTransport.
func (c *Client) SubmitMSAPrediction(
	ctx context.Context, sequences, databases []string,
) (out Outcome, err error) {
	start := time.Now()
	defer func() { c.obs.observe("submit_msa", start, out, err) }()

	return c.submit(ctx, prediction.MSARequest{
		Sequences: sequences,
		Databases: databases,
	})
}

// SubmitStructurePrediction asks the service to predict a structure from
// precomputed alignments and templates. alignments[i] and templates[i]
// belong to sequences[i].
func (c *Client) SubmitStructurePrediction(
	ctx context.Context, sequences []string, alignments []Alignment, templates []TemplateSet,
) (out Outcome, err error) {
	start := time.Now()
	defer func() { c.obs.observe("submit_structure", start, out, err) }()

	return c.submit(ctx, prediction.StructureRequest{
		Sequences:  sequences,
		Alignments: alignments,
		Templates:  templates,
	})
}

func (c *Client) submit(ctx context.Context, req prediction.Request) (Outcome, error) {
	o, err := c.predSvc.Submit(ctx, req)
	return toOutcome(o), err
}
