package postgres

import "time"

type leagueTableModel struct {
	ID                       int64      `db:"id"`
	PublicID                 string     `db:"public_id"`
	Name                     string     `db:"name"`
	ScoringRules             []byte     `db:"scoring_rules"`
	BudgetCap                int64      `db:"budget_cap"`
	SquadSizeLimit           int        `db:"squad_size_limit"`
	TransferLimitPerWeek     int        `db:"transfer_limit_per_week"`
	MaxPlayersPerRealTeam    int        `db:"max_players_per_real_team"`
	CaptainMultiplierEnabled bool       `db:"captain_multiplier_enabled"`
	CaptainMultiplierValue   int        `db:"captain_multiplier_value"`
	RefundPolicy             string     `db:"refund_policy"`
	StartDate                time.Time  `db:"start_date"`
	EndDate                  time.Time  `db:"end_date"`
	CreatedAt                time.Time  `db:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at"`
	DeletedAt                *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID                 string    `db:"public_id"`
	Name                     string    `db:"name"`
	ScoringRules             string    `db:"scoring_rules"`
	BudgetCap                int64     `db:"budget_cap"`
	SquadSizeLimit           int       `db:"squad_size_limit"`
	TransferLimitPerWeek     int       `db:"transfer_limit_per_week"`
	MaxPlayersPerRealTeam    int       `db:"max_players_per_real_team"`
	CaptainMultiplierEnabled bool      `db:"captain_multiplier_enabled"`
	CaptainMultiplierValue   int       `db:"captain_multiplier_value"`
	RefundPolicy             string    `db:"refund_policy"`
	StartDate                time.Time `db:"start_date"`
	EndDate                  time.Time `db:"end_date"`
}
