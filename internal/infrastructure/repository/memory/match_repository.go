package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
	stats   map[string][]match.PlayerStat
	lineups map[string]match.Lineup
}

func NewMatchRepository(matches []match.Match, stats []match.PlayerStat, lineups []match.Lineup) *MatchRepository {
	r := &MatchRepository{
		matches: make(map[string]match.Match, len(matches)),
		stats:   make(map[string][]match.PlayerStat),
		lineups: make(map[string]match.Lineup, len(lineups)),
	}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	for _, s := range stats {
		r.stats[s.PlayerID] = append(r.stats[s.PlayerID], s)
	}
	for _, l := range lineups {
		l.PlayerIDs = append([]string(nil), l.PlayerIDs...)
		r.lineups[lineupKey(l.MatchID, l.TeamID)] = l
	}
	return r
}

func (r *MatchRepository) ListByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(matchIDs))
	seen := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if m, ok := r.matches[id]; ok {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListBetween(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) PlayerTotals(_ context.Context, playerID string, matchIDs []string) (match.StatLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}

	var total match.StatLine
	for _, s := range r.stats[playerID] {
		if _, ok := wanted[s.MatchID]; ok {
			total = total.Add(s.StatLine)
		}
	}
	return total, nil
}

func (r *MatchRepository) InLineup(_ context.Context, matchID, teamID, playerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lineups[lineupKey(matchID, teamID)]
	if !ok {
		return false, nil
	}
	return l.Contains(playerID), nil
}

func lineupKey(matchID, teamID string) string {
	return matchID + "::" + teamID
}

func sortMatches(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
}
