package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/leaderboard"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

var periodColumns = []string{
	"p.public_id",
	"p.league_public_id",
	"p.period_index",
	"p.name",
	"p.start_date",
	"p.end_date",
	"p.deadline_at",
	"COALESCE(array_agg(pm.match_public_id ORDER BY pm.match_public_id) FILTER (WHERE pm.match_public_id IS NOT NULL), '{}') AS match_ids",
}

const periodSource = "scoring_periods p LEFT JOIN scoring_period_matches pm ON pm.period_public_id = p.public_id"

// entryOrder puts unranked rows last, matching the board presentation order.
const entryOrder = "(rank = 0), rank, CASE WHEN period_public_id IS NULL THEN cumulative_points ELSE points_this_period END DESC, squad_public_id"

// ScoringRepository stores periods, weekly player scores and leaderboards.
// A results transaction holds a league-scoped advisory lock until it ends.
type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) ListPeriods(ctx context.Context, leagueID string) ([]scoring.Period, error) {
	query, args, err := qb.Select(periodColumns...).From(periodSource).
		Where(qb.Eq("p.league_public_id", leagueID)).
		GroupBy("p.id").
		OrderBy("p.period_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select periods query: %w", err)
	}

	var rows []periodTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select periods: %w", err)
	}

	out := make([]scoring.Period, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ScoringRepository) GetPeriod(ctx context.Context, periodID string) (scoring.Period, bool, error) {
	return r.getPeriod(ctx, qb.Eq("p.public_id", periodID))
}

func (r *ScoringRepository) GetPeriodByIndex(ctx context.Context, leagueID string, index int) (scoring.Period, bool, error) {
	return r.getPeriod(ctx, qb.Eq("p.league_public_id", leagueID), qb.Eq("p.period_index", index))
}

func (r *ScoringRepository) getPeriod(ctx context.Context, conditions ...qb.Condition) (scoring.Period, bool, error) {
	query, args, err := qb.Select(periodColumns...).From(periodSource).
		Where(conditions...).
		GroupBy("p.id").
		Limit(1).
		ToSQL()
	if err != nil {
		return scoring.Period{}, false, fmt.Errorf("build select period query: %w", err)
	}

	var row periodTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.Period{}, false, nil
		}
		return scoring.Period{}, false, fmt.Errorf("get period: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ScoringRepository) ListPlayerScores(ctx context.Context, periodID string) ([]scoring.WeeklyPlayerScore, error) {
	query, args, err := qb.Select("*").From("weekly_player_scores").
		Where(qb.Eq("period_public_id", periodID)).
		OrderBy("squad_public_id", "membership_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player scores query: %w", err)
	}

	var rows []playerScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player scores: %w", err)
	}

	out := make([]scoring.WeeklyPlayerScore, 0, len(rows))
	for _, row := range rows {
		score, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	return out, nil
}

func (r *ScoringRepository) ListWeekly(ctx context.Context, periodID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, r.db, qb.Eq("period_public_id", periodID))
}

func (r *ScoringRepository) ListOverall(ctx context.Context, leagueID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, r.db, qb.Eq("league_public_id", leagueID), qb.IsNull("period_public_id"))
}

func (r *ScoringRepository) WithinResultsTx(ctx context.Context, leagueID string, fn func(ctx context.Context, tx scoring.ResultsTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "scoring:"+leagueID); err != nil {
		return crerr.Wrapf(err, "lock league %s results", leagueID)
	}

	if err := fn(ctx, &resultsTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit results tx league=%s", leagueID)
	}
	return nil
}

type resultsTx struct {
	tx *sqlx.Tx
}

func (t *resultsTx) UpsertPlayerScore(ctx context.Context, score scoring.WeeklyPlayerScore) error {
	if score.MembershipID == "" || score.PeriodID == "" {
		return fmt.Errorf("player score requires membership and period")
	}

	breakdown, err := sonic.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("encode score breakdown membership=%s: %w", score.MembershipID, err)
	}

	query, args, err := qb.InsertModel("weekly_player_scores", playerScoreInsertModel{
		PublicID:     score.ID,
		MembershipID: score.MembershipID,
		SquadID:      score.SquadID,
		PlayerID:     score.PlayerID,
		PeriodID:     score.PeriodID,
		Points:       score.Points,
		BasePoints:   score.BasePoints,
		Multiplier:   score.Multiplier,
		Breakdown:    string(breakdown),
		CalculatedAt: score.CalculatedAt.UTC(),
	}, `ON CONFLICT (membership_public_id, period_public_id) DO UPDATE SET
    squad_public_id = EXCLUDED.squad_public_id,
    player_public_id = EXCLUDED.player_public_id,
    points = EXCLUDED.points,
    base_points = EXCLUDED.base_points,
    multiplier = EXCLUDED.multiplier,
    breakdown = EXCLUDED.breakdown,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert player score query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player score membership=%s: %w", score.MembershipID, err)
	}
	return nil
}

func (t *resultsTx) ListWeekly(ctx context.Context, periodID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, t.tx, qb.Eq("period_public_id", periodID))
}

func (t *resultsTx) ListOverall(ctx context.Context, leagueID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, t.tx, qb.Eq("league_public_id", leagueID), qb.IsNull("period_public_id"))
}

func (t *resultsTx) GetOverall(ctx context.Context, squadID string) (leaderboard.Entry, bool, error) {
	items, err := listEntries(ctx, t.tx, qb.Eq("squad_public_id", squadID), qb.IsNull("period_public_id"))
	if err != nil {
		return leaderboard.Entry{}, false, err
	}
	if len(items) == 0 {
		return leaderboard.Entry{}, false, nil
	}
	return items[0], true, nil
}

func (t *resultsTx) ListBySquad(ctx context.Context, squadID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, t.tx, qb.Eq("squad_public_id", squadID))
}

func (t *resultsTx) UpsertEntry(ctx context.Context, entry leaderboard.Entry) error {
	if entry.SquadID == "" {
		return fmt.Errorf("leaderboard entry requires squad id")
	}

	conflict := "(squad_public_id, period_public_id) WHERE period_public_id IS NOT NULL"
	if entry.IsOverall() {
		conflict = "(squad_public_id) WHERE period_public_id IS NULL"
	}

	query, args, err := qb.InsertModel("leaderboard_entries", entryInsertModel{
		PublicID:         entry.ID,
		LeagueID:         entry.LeagueID,
		SquadID:          entry.SquadID,
		SquadName:        entry.SquadName,
		PeriodID:         nullableString(entry.PeriodID),
		PointsThisPeriod: entry.PointsThisPeriod,
		CumulativePoints: entry.CumulativePoints,
		Rank:             entry.Rank,
		PreviousRank:     nullableInt(entry.PreviousRank),
		UpdatedAt:        entry.UpdatedAt.UTC(),
	}, `ON CONFLICT `+conflict+` DO UPDATE SET
    squad_name = EXCLUDED.squad_name,
    points_this_period = EXCLUDED.points_this_period,
    cumulative_points = EXCLUDED.cumulative_points,
    rank = EXCLUDED.rank,
    previous_rank = EXCLUDED.previous_rank,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert leaderboard entry query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert leaderboard entry squad=%s: %w", entry.SquadID, err)
	}
	return nil
}

func listEntries(ctx context.Context, q sqlx.QueryerContext, conditions ...qb.Condition) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").From("leaderboard_entries").
		Where(conditions...).
		OrderBy(entryOrder).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leaderboard entries query: %w", err)
	}

	var rows []entryTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m periodTableModel) toDomain() scoring.Period {
	return scoring.Period{
		ID:        m.PublicID,
		LeagueID:  m.LeagueID,
		Index:     m.Index,
		Name:      m.Name,
		StartDate: m.StartDate.UTC(),
		EndDate:   m.EndDate.UTC(),
		Deadline:  m.DeadlineAt.UTC(),
		MatchIDs:  append([]string(nil), m.MatchIDs...),
	}
}

func (m playerScoreTableModel) toDomain() (scoring.WeeklyPlayerScore, error) {
	var breakdown scoring.Breakdown
	if len(m.Breakdown) > 0 {
		if err := sonic.Unmarshal(m.Breakdown, &breakdown); err != nil {
			return scoring.WeeklyPlayerScore{}, fmt.Errorf("decode score breakdown %s: %w", m.PublicID, err)
		}
	}

	return scoring.WeeklyPlayerScore{
		ID:           m.PublicID,
		MembershipID: m.MembershipID,
		SquadID:      m.SquadID,
		PlayerID:     m.PlayerID,
		PeriodID:     m.PeriodID,
		Points:       m.Points,
		BasePoints:   m.BasePoints,
		Multiplier:   m.Multiplier,
		Breakdown:    breakdown,
		CalculatedAt: m.CalculatedAt.UTC(),
	}, nil
}

func (m entryTableModel) toDomain() leaderboard.Entry {
	return leaderboard.Entry{
		ID:               m.PublicID,
		LeagueID:         m.LeagueID,
		SquadID:          m.SquadID,
		SquadName:        m.SquadName,
		PeriodID:         stringPtr(m.PeriodID),
		PointsThisPeriod: m.PointsThisPeriod,
		CumulativePoints: m.CumulativePoints,
		Rank:             m.Rank,
		PreviousRank:     intPtr(m.PreviousRank),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}
