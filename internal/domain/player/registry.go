package player

import "context"

// Registry is the read-only view of real players owned by the data feed.
type Registry interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	// TeamForSeason resolves the real team a player is registered with for a season.
	TeamForSeason(ctx context.Context, playerID, seasonID string) (string, bool, error)
}
