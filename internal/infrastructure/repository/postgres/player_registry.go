package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

// PlayerRegistry reads players and their per-season team registrations.
type PlayerRegistry struct {
	db *sqlx.DB
}

func NewPlayerRegistry(db *sqlx.DB) *PlayerRegistry {
	return &PlayerRegistry{db: db}
}

func (r *PlayerRegistry) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("public_id", playerID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return player.Player{
		ID:       row.PublicID,
		Name:     row.Name,
		Position: player.Position(row.Position),
		Price:    row.Price,
		TeamID:   row.TeamID,
	}, true, nil
}

func (r *PlayerRegistry) TeamForSeason(ctx context.Context, playerID, seasonID string) (string, bool, error) {
	query, args, err := qb.Select("team_public_id").From("player_season_teams").
		Where(qb.Eq("player_public_id", playerID), qb.Eq("season_public_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select player season team query: %w", err)
	}

	var teamID string
	if err := r.db.GetContext(ctx, &teamID, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get player season team: %w", err)
	}
	return teamID, true, nil
}
