package scoring

import (
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

const DefaultCaptainMultiplier = 2

// BreakdownItem records how one stat kind contributed to a member's total.
type BreakdownItem struct {
	Count  int `json:"count"`
	Rate   int `json:"per"`
	Points int `json:"points"`
}

type Breakdown map[StatKind]BreakdownItem

// Counts converts a summed stat line and clean-sheet count into per-kind counts.
func Counts(line match.StatLine, cleanSheets int) map[StatKind]int {
	return map[StatKind]int{
		StatGoal:       line.Goals,
		StatAssist:     line.Assists,
		StatCleanSheet: cleanSheets,
		StatYellowCard: line.YellowCards,
		StatRedCard:    line.RedCards,
	}
}

// Calculate returns the pre-multiplier total and the per-kind breakdown.
func Calculate(rules RuleSet, pos player.Position, counts map[StatKind]int) (int, Breakdown) {
	total := 0
	breakdown := make(Breakdown, len(AllStatKinds))
	for _, kind := range AllStatKinds {
		count := counts[kind]
		rate := rules.Rate(kind, pos)
		points := count * rate
		breakdown[kind] = BreakdownItem{Count: count, Rate: rate, Points: points}
		total += points
	}
	return total, breakdown
}

// CaptainPolicy is the league's captain bonus configuration.
type CaptainPolicy struct {
	Enabled    bool
	Multiplier int
}

// Apply multiplies strictly positive captain totals. Negative and zero totals are left as is.
// It returns the final points and the multiplier actually applied.
func (p CaptainPolicy) Apply(points int, isCaptain bool) (int, int) {
	if !p.Enabled || !isCaptain || points <= 0 {
		return points, 1
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = DefaultCaptainMultiplier
	}
	return points * multiplier, multiplier
}

// CountCleanSheet reports whether a match earns the player a clean sheet. The
// player must have a known position, their season team must have played and
// conceded nothing, and they must appear in that team's lineup.
func CountCleanSheet(pos player.Position, m match.Match, teamID string, inLineup bool) bool {
	if !pos.Known() {
		return false
	}
	conceded, played := m.Conceded(teamID)
	if !played || conceded != 0 {
		return false
	}
	return inLineup
}
