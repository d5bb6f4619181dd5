package postgres

import "time"

type matchTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	SeasonID   string    `db:"season_public_id"`
	MatchDate  time.Time `db:"match_date"`
	HomeTeamID string    `db:"home_team_public_id"`
	AwayTeamID string    `db:"away_team_public_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID   string    `db:"public_id"`
	SeasonID   string    `db:"season_public_id"`
	MatchDate  time.Time `db:"match_date"`
	HomeTeamID string    `db:"home_team_public_id"`
	AwayTeamID string    `db:"away_team_public_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
}

type matchPlayerStatModel struct {
	MatchID     string `db:"match_public_id"`
	PlayerID    string `db:"player_public_id"`
	Goals       int    `db:"goals"`
	Assists     int    `db:"assists"`
	YellowCards int    `db:"yellow_cards"`
	RedCards    int    `db:"red_cards"`
}

type matchLineupModel struct {
	MatchID  string `db:"match_public_id"`
	TeamID   string `db:"team_public_id"`
	PlayerID string `db:"player_public_id"`
}
