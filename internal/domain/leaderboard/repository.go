package leaderboard

import "context"

// Reader serves presentation queries. Results come back ordered by rank.
type Reader interface {
	ListWeekly(ctx context.Context, periodID string) ([]Entry, error)
	ListOverall(ctx context.Context, leagueID string) ([]Entry, error)
}

// Writer is the mutation surface available inside a scoring batch.
type Writer interface {
	Reader
	GetOverall(ctx context.Context, squadID string) (Entry, bool, error)
	ListBySquad(ctx context.Context, squadID string) ([]Entry, error)
	// UpsertEntry inserts or replaces by (squad, period) or (squad, overall),
	// keeping the stored id of an existing row.
	UpsertEntry(ctx context.Context, entry Entry) error
}
