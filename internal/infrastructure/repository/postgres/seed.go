package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

const onConflictNothing = "ON CONFLICT DO NOTHING"

// BootstrapSeed loads the demo dataset into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	seed := memory.DemoSeed()

	for _, cfg := range seed.Leagues {
		if err := saveLeague(ctx, tx, cfg); err != nil {
			return fmt.Errorf("seed league %s: %w", cfg.ID, err)
		}
	}

	for _, p := range seed.Players {
		err := seedInsert(ctx, tx, "players", playerInsertModel{
			PublicID: p.ID,
			Name:     p.Name,
			Position: string(p.Position),
			Price:    p.Price,
			TeamID:   p.TeamID,
		})
		if err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, reg := range seed.Registrations {
		err := seedInsert(ctx, tx, "player_season_teams", playerSeasonTeamModel{
			PlayerID: reg.PlayerID,
			SeasonID: reg.SeasonID,
			TeamID:   reg.TeamID,
		})
		if err != nil {
			return fmt.Errorf("seed registration %s/%s: %w", reg.PlayerID, reg.SeasonID, err)
		}
	}

	for _, m := range seed.Matches {
		err := seedInsert(ctx, tx, "matches", matchInsertModel{
			PublicID:   m.ID,
			SeasonID:   m.SeasonID,
			MatchDate:  m.Date.UTC(),
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
		})
		if err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	for _, s := range seed.Stats {
		err := seedInsert(ctx, tx, "match_player_stats", matchPlayerStatModel{
			MatchID:     s.MatchID,
			PlayerID:    s.PlayerID,
			Goals:       s.Goals,
			Assists:     s.Assists,
			YellowCards: s.YellowCards,
			RedCards:    s.RedCards,
		})
		if err != nil {
			return fmt.Errorf("seed stats %s/%s: %w", s.MatchID, s.PlayerID, err)
		}
	}

	for _, l := range seed.Lineups {
		for _, playerID := range l.PlayerIDs {
			err := seedInsert(ctx, tx, "match_lineups", matchLineupModel{
				MatchID:  l.MatchID,
				TeamID:   l.TeamID,
				PlayerID: playerID,
			})
			if err != nil {
				return fmt.Errorf("seed lineup %s/%s: %w", l.MatchID, l.TeamID, err)
			}
		}
	}

	for _, p := range seed.Periods {
		err := seedInsert(ctx, tx, "scoring_periods", periodInsertModel{
			PublicID:   p.ID,
			LeagueID:   p.LeagueID,
			Index:      p.Index,
			Name:       p.Name,
			StartDate:  scoring.DateOf(p.StartDate),
			EndDate:    scoring.DateOf(p.EndDate),
			DeadlineAt: p.Deadline.UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed period %s: %w", p.ID, err)
		}

		for _, matchID := range p.MatchIDs {
			query, args, err := qb.InsertInto("scoring_period_matches").
				Columns("period_public_id", "match_public_id").
				Values(p.ID, matchID).
				Suffix(onConflictNothing).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build seed period match query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("seed period %s match %s: %w", p.ID, matchID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func seedInsert(ctx context.Context, tx *sqlx.Tx, table string, model any) error {
	query, args, err := qb.InsertModel(table, model, onConflictNothing)
	if err != nil {
		return fmt.Errorf("build seed insert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}
