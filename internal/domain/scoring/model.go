package scoring

import "time"

// WeeklyPlayerScore is the points one membership earned in one period.
type WeeklyPlayerScore struct {
	ID           string
	MembershipID string
	SquadID      string
	PlayerID     string
	PeriodID     string
	Points       int
	BasePoints   int
	Multiplier   int
	Breakdown    Breakdown
	CalculatedAt time.Time
}

// WeekSummary is the outcome of one CalculateWeek run.
type WeekSummary struct {
	LeagueID     string
	PeriodID     string
	PeriodIndex  int
	SquadCount   int
	MemberScores int
	SquadTotals  map[string]int
	CalculatedAt time.Time
}
