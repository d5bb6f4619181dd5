package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.Config, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("start_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.Config, 0, len(rows))
	for _, row := range rows {
		cfg, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.Config, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.Config{}, false, fmt.Errorf("build select league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Config{}, false, nil
		}
		return league.Config{}, false, fmt.Errorf("get league by id: %w", err)
	}

	cfg, err := row.toDomain()
	if err != nil {
		return league.Config{}, false, err
	}
	return cfg, true, nil
}

// Save validates and upserts a league configuration.
func (r *LeagueRepository) Save(ctx context.Context, cfg league.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return saveLeague(ctx, r.db, cfg)
}

func saveLeague(ctx context.Context, db sqlx.ExtContext, cfg league.Config) error {
	rules, err := scoring.EncodeRuleSet(cfg.ScoringRules)
	if err != nil {
		return fmt.Errorf("encode league %s rules: %w", cfg.ID, err)
	}

	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID:                 cfg.ID,
		Name:                     cfg.Name,
		ScoringRules:             string(rules),
		BudgetCap:                cfg.BudgetCap,
		SquadSizeLimit:           cfg.SquadSizeLimit,
		TransferLimitPerWeek:     cfg.TransferLimitPerWeek,
		MaxPlayersPerRealTeam:    cfg.MaxPlayersPerRealTeam,
		CaptainMultiplierEnabled: cfg.CaptainMultiplierEnabled,
		CaptainMultiplierValue:   cfg.CaptainMultiplierValue,
		RefundPolicy:             string(cfg.RefundPolicy),
		StartDate:                scoring.DateOf(cfg.StartDate),
		EndDate:                  scoring.DateOf(cfg.EndDate),
	}, `ON CONFLICT (public_id) DO UPDATE SET
    name = EXCLUDED.name,
    scoring_rules = EXCLUDED.scoring_rules,
    budget_cap = EXCLUDED.budget_cap,
    squad_size_limit = EXCLUDED.squad_size_limit,
    transfer_limit_per_week = EXCLUDED.transfer_limit_per_week,
    max_players_per_real_team = EXCLUDED.max_players_per_real_team,
    captain_multiplier_enabled = EXCLUDED.captain_multiplier_enabled,
    captain_multiplier_value = EXCLUDED.captain_multiplier_value,
    refund_policy = EXCLUDED.refund_policy,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league %s: %w", cfg.ID, err)
	}
	return nil
}

func (m leagueTableModel) toDomain() (league.Config, error) {
	rules, err := scoring.ParseRuleSet(m.ScoringRules)
	if err != nil {
		return league.Config{}, fmt.Errorf("decode league %s rules: %w", m.PublicID, err)
	}

	return league.Config{
		ID:                       m.PublicID,
		Name:                     m.Name,
		ScoringRules:             rules,
		BudgetCap:                m.BudgetCap,
		SquadSizeLimit:           m.SquadSizeLimit,
		TransferLimitPerWeek:     m.TransferLimitPerWeek,
		MaxPlayersPerRealTeam:    m.MaxPlayersPerRealTeam,
		CaptainMultiplierEnabled: m.CaptainMultiplierEnabled,
		CaptainMultiplierValue:   m.CaptainMultiplierValue,
		RefundPolicy:             league.RefundPolicy(m.RefundPolicy),
		StartDate:                m.StartDate.UTC(),
		EndDate:                  m.EndDate.UTC(),
	}, nil
}
