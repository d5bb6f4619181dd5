package postgres

import (
	"database/sql"
	"time"
)

type squadTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	OwnerID   string    `db:"owner_id"`
	LeagueID  string    `db:"league_public_id"`
	Name      string    `db:"name"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type squadInsertModel struct {
	PublicID  string    `db:"public_id"`
	OwnerID   string    `db:"owner_id"`
	LeagueID  string    `db:"league_public_id"`
	Name      string    `db:"name"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type membershipTableModel struct {
	ID            int64        `db:"id"`
	PublicID      string       `db:"public_id"`
	SquadID       string       `db:"squad_public_id"`
	PlayerID      string       `db:"player_public_id"`
	PurchasePrice int64        `db:"purchase_price"`
	IsCaptain     bool         `db:"is_captain"`
	IsViceCaptain bool         `db:"is_vice_captain"`
	ActiveFrom    time.Time    `db:"active_from"`
	ActiveTo      sql.NullTime `db:"active_to"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type membershipInsertModel struct {
	PublicID      string       `db:"public_id"`
	SquadID       string       `db:"squad_public_id"`
	PlayerID      string       `db:"player_public_id"`
	PurchasePrice int64        `db:"purchase_price"`
	IsCaptain     bool         `db:"is_captain"`
	IsViceCaptain bool         `db:"is_vice_captain"`
	ActiveFrom    time.Time    `db:"active_from"`
	ActiveTo      sql.NullTime `db:"active_to"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type transferTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	SquadID          string         `db:"squad_public_id"`
	PeriodID         sql.NullString `db:"period_public_id"`
	Action           string         `db:"action"`
	IncomingPlayerID string         `db:"incoming_player_public_id"`
	OutgoingPlayerID string         `db:"outgoing_player_public_id"`
	Cost             int64          `db:"cost"`
	CreatedAt        time.Time      `db:"created_at"`
}

type transferInsertModel struct {
	PublicID         string         `db:"public_id"`
	SquadID          string         `db:"squad_public_id"`
	PeriodID         sql.NullString `db:"period_public_id"`
	Action           string         `db:"action"`
	IncomingPlayerID string         `db:"incoming_player_public_id"`
	OutgoingPlayerID string         `db:"outgoing_player_public_id"`
	Cost             int64          `db:"cost"`
	CreatedAt        time.Time      `db:"created_at"`
}
