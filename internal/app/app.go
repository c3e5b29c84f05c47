package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/cfb-edge/external/cfbd"
	"github.com/riskibarqy/cfb-edge/external/oddsapi"
	"github.com/riskibarqy/cfb-edge/internal/config"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	cacherepo "github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/cfb-edge/internal/interfaces/httpapi"
	"github.com/riskibarqy/cfb-edge/internal/platform/cache"
	"github.com/riskibarqy/cfb-edge/internal/platform/database"
	idgen "github.com/riskibarqy/cfb-edge/internal/platform/id"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

type providerRepositories struct {
	games    game.Repository
	rankings ranking.Repository
	teams    teaminfo.Repository
	odds     odds.Repository
	cache    *cache.Store
}

// NewHTTPServer assembles the API. The returned cleanup releases the archive
// database and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	providers := newProviderRepositories(cfg, logger)
	if providers.cache != nil {
		go sweepCache(ctx, providers.cache, cfg.CacheTTL, logger)
	}

	archiveRepo, closeArchive, err := newArchiveRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	slateSvc := usecase.NewSlateService(
		providers.games,
		providers.rankings,
		providers.teams,
		providers.odds,
		cfg.CFBDWeatherEnabled,
		logger.Named("slate"),
	)
	trendSvc := usecase.NewTrendService(slateSvc, usecase.TrendOptions{
		Poll:    cfg.RankingPoll,
		Aliases: cfg.TeamAliases,
	})
	archiveSvc := usecase.NewArchiveService(
		trendSvc,
		archiveRepo,
		idgen.NewRandomGenerator(),
		cfg.ArchiveWorkers,
		logger.Named("archive"),
	)
	edgeSvc := usecase.NewEdgeService(archiveSvc, usecase.EdgeConfig{
		DefaultSource: cfg.EdgeDefaultSource,
		SampleSize:    cfg.EdgeSampleSize,
		Seed:          cfg.EdgeSeed,
	})

	handler := httpapi.NewHandler(slateSvc, trendSvc, edgeSvc, archiveSvc, httpapi.HandlerConfig{
		DefaultSeason:     cfg.DefaultSeason,
		DefaultSeasonType: game.SeasonType(cfg.DefaultSeasonType),
		RankingPoll:       cfg.RankingPoll,
	}, logger.Named("http"))
	if store := providers.cache; store != nil {
		handler.WithCacheStats(store.Stats).WithCachePurge(func(ctx context.Context, scope string) int {
			return cacherepo.Purge(ctx, store, scope)
		})
	}
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeArchive, nil
}

func newProviderRepositories(cfg config.Config, logger *logging.Logger) providerRepositories {
	cfbdClient := cfbd.NewClient(cfbd.ClientConfig{
		BaseURL:        cfg.CFBD.BaseURL,
		APIKey:         cfg.CFBD.APIKey,
		Timeout:        cfg.CFBD.Timeout,
		MaxRetries:     cfg.CFBD.MaxRetries,
		Logger:         logger.Named("cfbd"),
		CircuitBreaker: cfg.CFBD.CircuitBreaker,
	})
	oddsClient := oddsapi.NewClient(oddsapi.ClientConfig{
		BaseURL:        cfg.Odds.BaseURL,
		APIKey:         cfg.Odds.APIKey,
		Regions:        cfg.OddsRegions,
		Bookmaker:      cfg.OddsBookmaker,
		Timeout:        cfg.Odds.Timeout,
		MaxRetries:     cfg.Odds.MaxRetries,
		Logger:         logger.Named("odds"),
		CircuitBreaker: cfg.Odds.CircuitBreaker,
	})

	if !cfg.CacheEnabled {
		return providerRepositories{
			games:    cfbdClient,
			rankings: cfbdClient,
			teams:    cfbdClient,
			odds:     oddsClient,
		}
	}

	store := cache.NewStore(cfg.CacheTTL)
	return providerRepositories{
		games:    cacherepo.NewGameRepository(cfbdClient, store),
		rankings: cacherepo.NewRankingRepository(cfbdClient, store),
		teams:    cacherepo.NewTeamRepository(cfbdClient, store),
		odds:     cacherepo.NewOddsRepository(oddsClient, store),
		cache:    store,
	}
}

func newArchiveRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (trend.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.ArchiveDriver {
	case config.ArchiveDriverPostgres:
		db, err := database.OpenPostgres(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive database: %w", err)
		}
		logger.Info("archive storage ready", "driver", cfg.ArchiveDriver, "db", database.NameFromURL(cfg.DBURL))
		return postgres.NewTrendRepository(db), db.Close, nil
	case config.ArchiveDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive database: %w", err)
		}
		logger.Info("archive storage ready", "driver", cfg.ArchiveDriver, "path", cfg.SQLitePath)
		return sqlite.NewTrendRepository(db), db.Close, nil
	case config.ArchiveDriverMemory, "":
		logger.Info("archive storage ready", "driver", config.ArchiveDriverMemory)
		return memory.NewTrendRepository(), noop, nil
	default:
		return nil, nil, errors.New("unknown archive driver " + cfg.ArchiveDriver)
	}
}

// sweepCache drops expired provider responses until ctx ends.
func sweepCache(ctx context.Context, store *cache.Store, interval time.Duration, logger *logging.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug("provider cache swept", "removed", removed)
			}
		}
	}
}
