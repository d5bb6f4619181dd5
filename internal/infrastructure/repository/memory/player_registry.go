package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

type PlayerRegistry struct {
	mu          sync.RWMutex
	players     map[string]player.Player
	seasonTeams map[string]string
}

func NewPlayerRegistry(players []player.Player, registrations []player.SeasonRegistration) *PlayerRegistry {
	r := &PlayerRegistry{
		players:     make(map[string]player.Player, len(players)),
		seasonTeams: make(map[string]string, len(registrations)),
	}
	for _, p := range players {
		r.players[p.ID] = p
	}
	for _, reg := range registrations {
		r.seasonTeams[seasonKey(reg.PlayerID, reg.SeasonID)] = reg.TeamID
	}
	return r
}

func (r *PlayerRegistry) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	return p, ok, nil
}

func (r *PlayerRegistry) TeamForSeason(_ context.Context, playerID, seasonID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.seasonTeams[seasonKey(playerID, seasonID)]
	return teamID, ok, nil
}

// SetPrice updates a player's market price as the data feed would.
func (r *PlayerRegistry) SetPrice(playerID string, price int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return false
	}
	p.Price = price
	r.players[playerID] = p
	return true
}

func seasonKey(playerID, seasonID string) string {
	return playerID + "::" + seasonID
}
