package leaderboard

import "time"

type RankMovement string

const (
	RankMovementUp   RankMovement = "up"
	RankMovementDown RankMovement = "down"
	RankMovementSame RankMovement = "same"
	RankMovementNew  RankMovement = "new"
)

// Entry is one squad's row on a weekly board (PeriodID set) or the overall board.
type Entry struct {
	ID               string
	LeagueID         string
	SquadID          string
	SquadName        string
	PeriodID         *string
	PointsThisPeriod int
	CumulativePoints int
	Rank             int
	PreviousRank     *int
	UpdatedAt        time.Time
}

func (e Entry) IsOverall() bool {
	return e.PeriodID == nil
}

// Points is the value the entry is ranked by on its board.
func (e Entry) Points() int {
	if e.IsOverall() {
		return e.CumulativePoints
	}
	return e.PointsThisPeriod
}

func (e Entry) Movement() RankMovement {
	if e.Rank <= 0 || e.PreviousRank == nil || *e.PreviousRank <= 0 {
		return RankMovementNew
	}
	switch {
	case e.Rank < *e.PreviousRank:
		return RankMovementUp
	case e.Rank > *e.PreviousRank:
		return RankMovementDown
	default:
		return RankMovementSame
	}
}
