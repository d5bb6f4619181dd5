package league

import "context"

// Repository describes league configuration persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Config, error)
	GetByID(ctx context.Context, leagueID string) (Config, bool, error)
}
