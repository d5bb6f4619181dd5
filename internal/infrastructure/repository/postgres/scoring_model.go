package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type periodTableModel struct {
	PublicID   string         `db:"public_id"`
	LeagueID   string         `db:"league_public_id"`
	Index      int            `db:"period_index"`
	Name       string         `db:"name"`
	StartDate  time.Time      `db:"start_date"`
	EndDate    time.Time      `db:"end_date"`
	DeadlineAt time.Time      `db:"deadline_at"`
	MatchIDs   pq.StringArray `db:"match_ids"`
}

type periodInsertModel struct {
	PublicID   string    `db:"public_id"`
	LeagueID   string    `db:"league_public_id"`
	Index      int       `db:"period_index"`
	Name       string    `db:"name"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	DeadlineAt time.Time `db:"deadline_at"`
}

type playerScoreTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	MembershipID string    `db:"membership_public_id"`
	SquadID      string    `db:"squad_public_id"`
	PlayerID     string    `db:"player_public_id"`
	PeriodID     string    `db:"period_public_id"`
	Points       int       `db:"points"`
	BasePoints   int       `db:"base_points"`
	Multiplier   int       `db:"multiplier"`
	Breakdown    []byte    `db:"breakdown"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type playerScoreInsertModel struct {
	PublicID     string    `db:"public_id"`
	MembershipID string    `db:"membership_public_id"`
	SquadID      string    `db:"squad_public_id"`
	PlayerID     string    `db:"player_public_id"`
	PeriodID     string    `db:"period_public_id"`
	Points       int       `db:"points"`
	BasePoints   int       `db:"base_points"`
	Multiplier   int       `db:"multiplier"`
	Breakdown    string    `db:"breakdown"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type entryTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	LeagueID         string         `db:"league_public_id"`
	SquadID          string         `db:"squad_public_id"`
	SquadName        string         `db:"squad_name"`
	PeriodID         sql.NullString `db:"period_public_id"`
	PointsThisPeriod int            `db:"points_this_period"`
	CumulativePoints int            `db:"cumulative_points"`
	Rank             int            `db:"rank"`
	PreviousRank     sql.NullInt64  `db:"previous_rank"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type entryInsertModel struct {
	PublicID         string         `db:"public_id"`
	LeagueID         string         `db:"league_public_id"`
	SquadID          string         `db:"squad_public_id"`
	SquadName        string         `db:"squad_name"`
	PeriodID         sql.NullString `db:"period_public_id"`
	PointsThisPeriod int            `db:"points_this_period"`
	CumulativePoints int            `db:"cumulative_points"`
	Rank             int            `db:"rank"`
	PreviousRank     sql.NullInt64  `db:"previous_rank"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
