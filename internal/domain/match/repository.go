package match

import (
	"context"
	"time"
)

// Results is the read-only view of real match outcomes, stats and lineups.
type Results interface {
	ListByIDs(ctx context.Context, matchIDs []string) ([]Match, error)
	// ListBetween returns matches whose date falls within [from, to].
	ListBetween(ctx context.Context, from, to time.Time) ([]Match, error)
	// PlayerTotals sums a player's stats over the given matches. Missing rows count as zero.
	PlayerTotals(ctx context.Context, playerID string, matchIDs []string) (StatLine, error)
	InLineup(ctx context.Context, matchID, teamID, playerID string) (bool, error)
}
