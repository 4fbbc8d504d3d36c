package cli

import (
	"context"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/adapter"
	"github.com/dinver-app/dinver-sub005/pkg/cache"
	"github.com/dinver-app/dinver-sub005/pkg/repository"
	"github.com/dinver-app/dinver-sub005/pkg/session"
	"github.com/dinver-app/dinver-sub005/pkg/usecase/query"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Oracle
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Engine limits
	maxRadiusKm     float64
	defaultRadiusKm float64
	pageSize        int64
	cacheMaxSize    int64
	cacheTTL        time.Duration
	sessionTTL      time.Duration
	oracleTimeout   time.Duration

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("DINVER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for oracle configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini (empty disables the oracle)",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// engineFlags returns the engine limit flags with destination config
func engineFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "max-radius-km",
			Usage:       "Maximum search radius in km",
			Value:       25,
			Sources:     cli.EnvVars("DINVER_MAX_RADIUS_KM"),
			Destination: &cfg.maxRadiusKm,
		},
		&cli.FloatFlag{
			Name:        "default-radius-km",
			Usage:       "Default search radius in km",
			Value:       5,
			Sources:     cli.EnvVars("DINVER_DEFAULT_RADIUS_KM"),
			Destination: &cfg.defaultRadiusKm,
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Default page size",
			Value:       10,
			Sources:     cli.EnvVars("DINVER_PAGE_SIZE"),
			Destination: &cfg.pageSize,
		},
		&cli.IntFlag{
			Name:        "cache-max-size",
			Usage:       "Result cache capacity",
			Value:       cache.DefaultMaxSize,
			Sources:     cli.EnvVars("DINVER_CACHE_MAX_SIZE"),
			Destination: &cfg.cacheMaxSize,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "Result cache entry lifetime",
			Value:       cache.DefaultTTL,
			Sources:     cli.EnvVars("DINVER_CACHE_TTL"),
			Destination: &cfg.cacheTTL,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Session inactivity expiry",
			Value:       session.DefaultTTL,
			Sources:     cli.EnvVars("DINVER_SESSION_TTL"),
			Destination: &cfg.sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "oracle-timeout",
			Usage:       "Timeout for a single oracle call",
			Value:       8 * time.Second,
			Sources:     cli.EnvVars("DINVER_ORACLE_TIMEOUT"),
			Destination: &cfg.oracleTimeout,
		},
	}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance. A missing project is not
// an error: the engine runs oracle-less with heuristic routing.
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, nil
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newUseCase assembles the full query engine from the configuration.
func (cfg *config) newUseCase(ctx context.Context) (*query.UseCase, repository.Repository, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, nil, err
	}

	uc, err := query.New(query.NewInput{
		Repo:     repo,
		Gemini:   gemini,
		Sessions: session.NewStore(session.WithTTL(cfg.sessionTTL)),
		Cache:    cache.New(cache.WithMaxSize(int(cfg.cacheMaxSize)), cache.WithTTL(cfg.cacheTTL)),
		Config: query.Config{
			MaxRadiusKm:     cfg.maxRadiusKm,
			DefaultRadiusKm: cfg.defaultRadiusKm,
			DefaultPageSize: int(cfg.pageSize),
			OracleTimeout:   cfg.oracleTimeout,
		},
	})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create query engine")
	}
	return uc, repo, nil
}
