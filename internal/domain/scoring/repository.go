package scoring

import (
	"context"

	"github.com/riskibarqy/fantasy-roster/internal/domain/leaderboard"
)

// PeriodRepository reads league scoring periods.
type PeriodRepository interface {
	ListPeriods(ctx context.Context, leagueID string) ([]Period, error)
	GetPeriod(ctx context.Context, periodID string) (Period, bool, error)
	GetPeriodByIndex(ctx context.Context, leagueID string, index int) (Period, bool, error)
}

type Repository interface {
	PeriodRepository
	ListPlayerScores(ctx context.Context, periodID string) ([]WeeklyPlayerScore, error)
	// WithinResultsTx runs fn as one atomic unit for a league's batch writes.
	// Nothing fn writes is visible to readers unless fn returns nil.
	WithinResultsTx(ctx context.Context, leagueID string, fn func(ctx context.Context, tx ResultsTx) error) error
}

// ResultsTx is the write surface of one scoring batch.
type ResultsTx interface {
	UpsertPlayerScore(ctx context.Context, score WeeklyPlayerScore) error
	leaderboard.Writer
}
