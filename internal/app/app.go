package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/leaderboard"
	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	cacherepo "github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

// Container holds the wired use cases of one process.
type Container struct {
	Roster      *usecase.RosterService
	Scoring     *usecase.ScoringService
	Leaderboard *usecase.LeaderboardService
	// MatchCache is nil when caching is disabled.
	MatchCache *cacherepo.MatchResults

	db *sqlx.DB
}

type stores struct {
	leagues  league.Repository
	registry player.Registry
	results  match.Results
	squads   fantasy.Repository
	scores   scoring.Repository
	boards   leaderboard.Reader

	// liveRegistry bypasses the cache. Roster changes debit and refund
	// current prices and must not see a stale one.
	liveRegistry player.Registry
	matchCache   *cacherepo.MatchResults
}

// cached wraps the read-only ports in read-through decorators sharing store.
func (s stores) cached(store *basecache.Store) stores {
	out := s
	out.liveRegistry = s.registry
	out.matchCache = cacherepo.NewMatchResults(s.results, store)
	out.leagues = cacherepo.NewLeagueRepository(s.leagues, store)
	out.registry = cacherepo.NewPlayerRegistry(s.registry, store)
	out.results = out.matchCache
	return out
}

func memoryStores() stores {
	seed := memory.DemoSeed()
	scores := memory.NewScoringRepository(seed.Periods)
	registry := memory.NewPlayerRegistry(seed.Players, seed.Registrations)
	return stores{
		leagues:      memory.NewLeagueRepository(seed.Leagues),
		registry:     registry,
		results:      memory.NewMatchRepository(seed.Matches, seed.Stats, seed.Lineups),
		squads:       memory.NewSquadRepository(),
		scores:       scores,
		boards:       scores,
		liveRegistry: registry,
	}
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	mode, err := usecase.ParseCumulativeMode(cfg.CumulativeMode)
	if err != nil {
		return nil, fmt.Errorf("parse CUMULATIVE_MODE: %w", err)
	}

	c := &Container{}
	var s stores
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := OpenDB(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		c.db = db
		if cfg.DBSeedEnabled {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		scores := postgres.NewScoringRepository(db)
		registry := postgres.NewPlayerRegistry(db)
		s = stores{
			leagues:      postgres.NewLeagueRepository(db),
			registry:     registry,
			results:      postgres.NewMatchRepository(db),
			squads:       postgres.NewSquadRepository(db),
			scores:       scores,
			boards:       scores,
			liveRegistry: registry,
		}
	default:
		s = memoryStores()
	}

	if cfg.CacheEnabled {
		s = s.cached(basecache.NewStore(cfg.CacheTTL))
		c.MatchCache = s.matchCache
	}

	ids := idgen.NewUUIDGenerator()
	c.Leaderboard = usecase.NewLeaderboardService(s.boards, ids, mode, logger.Named("leaderboard"))
	c.Roster = usecase.NewRosterService(s.leagues, s.liveRegistry, s.scores, s.squads, ids, logger.Named("roster")).
		WithLocation(cfg.ScoringTimezone)
	c.Scoring = usecase.NewScoringService(
		s.leagues,
		s.registry,
		s.results,
		s.squads,
		s.scores,
		c.Leaderboard,
		ids,
		logger.Named("scoring"),
		usecase.ScoringOptions{
			Workers:           cfg.ScoringWorkers,
			LeagueConcurrency: cfg.ScoringLeagueConcurrency,
		},
	).WithLocation(cfg.ScoringTimezone)

	logger.Info("services wired",
		"storage_driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"cumulative_mode", string(mode),
	)
	return c, nil
}

func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
