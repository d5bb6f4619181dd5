package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

// MatchRepository is the read side of the match results feed.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return []match.Match{}, nil
	}

	query, args, err := sqlx.In(`
SELECT *
FROM matches
WHERE public_id IN (?)
ORDER BY match_date, public_id`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("bind select matches by ids query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by ids: %w", err)
	}
	return toMatches(rows), nil
}

func (r *MatchRepository) ListBetween(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Expr("match_date BETWEEN ? AND ?", from.UTC(), to.UTC())).
		OrderBy("match_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches between query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches between: %w", err)
	}
	return toMatches(rows), nil
}

func (r *MatchRepository) PlayerTotals(ctx context.Context, playerID string, matchIDs []string) (match.StatLine, error) {
	if len(matchIDs) == 0 {
		return match.StatLine{}, nil
	}

	query, args, err := sqlx.In(`
SELECT
    COALESCE(SUM(goals), 0) AS goals,
    COALESCE(SUM(assists), 0) AS assists,
    COALESCE(SUM(yellow_cards), 0) AS yellow_cards,
    COALESCE(SUM(red_cards), 0) AS red_cards
FROM match_player_stats
WHERE player_public_id = ?
  AND match_public_id IN (?)`, playerID, matchIDs)
	if err != nil {
		return match.StatLine{}, fmt.Errorf("bind player totals query: %w", err)
	}
	query = r.db.Rebind(query)

	var row struct {
		Goals       int `db:"goals"`
		Assists     int `db:"assists"`
		YellowCards int `db:"yellow_cards"`
		RedCards    int `db:"red_cards"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.StatLine{}, fmt.Errorf("sum player stats: %w", err)
	}

	return match.StatLine{
		Goals:       row.Goals,
		Assists:     row.Assists,
		YellowCards: row.YellowCards,
		RedCards:    row.RedCards,
	}, nil
}

func (r *MatchRepository) InLineup(ctx context.Context, matchID, teamID, playerID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM match_lineups
    WHERE match_public_id = $1
      AND team_public_id = $2
      AND player_public_id = $3
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, matchID, teamID, playerID); err != nil {
		return false, fmt.Errorf("check match lineup: %w", err)
	}
	return exists, nil
}

func toMatches(rows []matchTableModel) []match.Match {
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:         row.PublicID,
			SeasonID:   row.SeasonID,
			Date:       row.MatchDate.UTC(),
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
		})
	}
	return out
}
