// Package query orchestrates one conversational turn: confirmation
// handling, intent routing, entity resolution, domain lookup, pagination,
// caching and answer wording.
package query

import (
	"context"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/adapter"
	"github.com/dinver-app/dinver-sub005/pkg/answer"
	"github.com/dinver-app/dinver-sub005/pkg/cache"
	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/pagination"
	"github.com/dinver-app/dinver-sub005/pkg/repository"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/dinver-app/dinver-sub005/pkg/session"
	"github.com/m-mizutani/goerr/v2"
)

// Config carries the tunable limits of the engine.
type Config struct {
	MaxRadiusKm     float64
	DefaultRadiusKm float64
	DefaultPageSize int
	OracleTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRadiusKm <= 0 {
		c.MaxRadiusKm = 25
	}
	if c.DefaultRadiusKm <= 0 {
		c.DefaultRadiusKm = 5
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = pagination.DefaultPageSize
	}
	if c.OracleTimeout <= 0 {
		c.OracleTimeout = 8 * time.Second
	}
	return c
}

// UseCase is the conversational query engine.
type UseCase struct {
	repo     repository.Repository
	gemini   adapter.Gemini
	registry *intent.Registry

	taxonomy *resolver.Taxonomy
	geo      *resolver.Geo
	temporal *resolver.Temporal

	sessions  *session.Store
	results   *cache.Result
	formatter *answer.Formatter

	cfg Config
}

// NewInput contains the engine dependencies. Gemini may be nil, in which
// case every turn goes through the heuristic parser and templated answers.
type NewInput struct {
	Repo     repository.Repository
	Gemini   adapter.Gemini
	Sessions *session.Store
	Cache    *cache.Result
	Config   Config
}

// New wires the engine.
func New(input NewInput) (*UseCase, error) {
	if input.Repo == nil {
		return nil, goerr.New("repository is required")
	}

	registry, err := intent.NewRegistry()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build intent registry")
	}

	taxonomy, err := resolver.NewTaxonomy()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build taxonomy resolver")
	}
	geo, err := resolver.NewGeo()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build geo resolver")
	}
	temporal, err := resolver.NewTemporal()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build temporal resolver")
	}

	cfg := input.Config.withDefaults()

	sessions := input.Sessions
	if sessions == nil {
		sessions = session.NewStore()
	}
	results := input.Cache
	if results == nil {
		results = cache.New()
	}

	return &UseCase{
		repo:      input.Repo,
		gemini:    input.Gemini,
		registry:  registry,
		taxonomy:  taxonomy,
		geo:       geo,
		temporal:  temporal,
		sessions:  sessions,
		results:   results,
		formatter: answer.New(input.Gemini, answer.WithTimeout(cfg.OracleTimeout)),
		cfg:       cfg,
	}, nil
}

// maintenanceInterval is how often the session sweep and cache cleanup run.
const maintenanceInterval = time.Minute

// StartMaintenance launches the periodic session sweep and cache cleanup.
// Both stop when ctx is done. One-shot callers can skip this; eviction on
// access already keeps stale entries out of results.
func (u *UseCase) StartMaintenance(ctx context.Context) {
	u.sessions.StartSweep(ctx, maintenanceInterval)
	u.results.StartCleanup(ctx, maintenanceInterval)
}
