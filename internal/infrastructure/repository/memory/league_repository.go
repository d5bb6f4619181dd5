package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.Config
	orders []string
}

func NewLeagueRepository(leagues []league.Config) *LeagueRepository {
	r := &LeagueRepository{items: make(map[string]league.Config, len(leagues))}
	for _, l := range leagues {
		r.put(l)
	}
	return r
}

// Save validates and stores a league configuration.
func (r *LeagueRepository) Save(_ context.Context, cfg league.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("save league=%s: %w", cfg.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(cfg)
	return nil
}

func (r *LeagueRepository) put(cfg league.Config) {
	if _, exists := r.items[cfg.ID]; !exists {
		r.orders = append(r.orders, cfg.ID)
	}
	r.items[cfg.ID] = cloneLeague(cfg)
}

func (r *LeagueRepository) List(_ context.Context) ([]league.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Config, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneLeague(r.items[id]))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.items[leagueID]
	if !ok {
		return league.Config{}, false, nil
	}
	return cloneLeague(cfg), true, nil
}

func cloneLeague(cfg league.Config) league.Config {
	out := cfg
	if cfg.ScoringRules != nil {
		out.ScoringRules = cfg.ScoringRules.Clone()
	} else {
		out.ScoringRules = scoring.RuleSet{}
	}
	return out
}
