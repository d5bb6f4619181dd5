package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
)

const (
	leaguePrefix = "league"
	playerPrefix = "player"
	matchPrefix  = "match"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.Config, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.Key(leaguePrefix, "list"), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.Config(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.Config)
	out := make([]league.Config, 0, len(items))
	for _, item := range items {
		out = append(out, cloneLeague(item))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.Config, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.Key(leaguePrefix, "id", leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.Config{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cloneLeague(cached.value), cached.exists, nil
}

type cachedLeagueByID struct {
	value  league.Config
	exists bool
}

// cloneLeague keeps callers from mutating the cached rule set.
func cloneLeague(cfg league.Config) league.Config {
	out := cfg
	if cfg.ScoringRules != nil {
		out.ScoringRules = cfg.ScoringRules.Clone()
	}
	return out
}

type PlayerRegistry struct {
	next  player.Registry
	cache *basecache.Store
}

func NewPlayerRegistry(next player.Registry, cache *basecache.Store) *PlayerRegistry {
	return &PlayerRegistry{next: next, cache: cache}
}

func (r *PlayerRegistry) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.Key(playerPrefix, "id", playerID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRegistry) TeamForSeason(ctx context.Context, playerID, seasonID string) (string, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.Key(playerPrefix, "season", seasonID, playerID), func(ctx context.Context) (any, error) {
		teamID, exists, err := r.next.TeamForSeason(ctx, playerID, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedSeasonTeam{teamID: teamID, exists: exists}, nil
	})
	if err != nil {
		return "", false, err
	}

	cached, _ := v.(cachedSeasonTeam)
	return cached.teamID, cached.exists, nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

type cachedSeasonTeam struct {
	teamID string
	exists bool
}

// MatchResults caches the read side of the results feed. Invalidate drops
// every cached result so the next scoring run sees fresh data.
type MatchResults struct {
	next  match.Results
	cache *basecache.Store
}

func NewMatchResults(next match.Results, cache *basecache.Store) *MatchResults {
	return &MatchResults{next: next, cache: cache}
}

func (r *MatchResults) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, matchPrefix+":")
}

func (r *MatchResults) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.SetKey(basecache.Key(matchPrefix, "ids"), matchIDs), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, matchIDs)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchResults) ListBetween(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	key := basecache.Key(matchPrefix, "between", from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchResults) PlayerTotals(ctx context.Context, playerID string, matchIDs []string) (match.StatLine, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.SetKey(basecache.Key(matchPrefix, "totals", playerID), matchIDs), func(ctx context.Context) (any, error) {
		return r.next.PlayerTotals(ctx, playerID, matchIDs)
	})
	if err != nil {
		return match.StatLine{}, err
	}

	line, _ := v.(match.StatLine)
	return line, nil
}

func (r *MatchResults) InLineup(ctx context.Context, matchID, teamID, playerID string) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, basecache.Key(matchPrefix, "lineup", matchID, teamID, playerID), func(ctx context.Context) (any, error) {
		return r.next.InLineup(ctx, matchID, teamID, playerID)
	})
	if err != nil {
		return false, err
	}

	in, _ := v.(bool)
	return in, nil
}
