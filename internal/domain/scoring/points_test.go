package scoring

import (
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

func TestCalculate(t *testing.T) {
	rules := DefaultRuleSet()

	tests := []struct {
		name   string
		pos    player.Position
		line   match.StatLine
		sheets int
		want   int
	}{
		{name: "defender goal and clean sheet", pos: player.PositionDefender, line: match.StatLine{Goals: 1}, sheets: 1, want: 10},
		{name: "forward goal assist and yellow", pos: player.PositionForward, line: match.StatLine{Goals: 1, Assists: 1, YellowCards: 1}, want: 6},
		{name: "red card only", pos: player.PositionMidfielder, line: match.StatLine{RedCards: 1}, want: -3},
		{name: "nothing happened", pos: player.PositionGoalkeeper, want: 0},
		{name: "unknown position only earns flat rates", pos: "COACH", line: match.StatLine{Goals: 2, Assists: 1}, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, breakdown := Calculate(rules, tc.pos, Counts(tc.line, tc.sheets))
			if got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
			if len(breakdown) != len(AllStatKinds) {
				t.Fatalf("expected breakdown for every stat kind, got %d", len(breakdown))
			}
			sum := 0
			for _, item := range breakdown {
				if item.Points != item.Count*item.Rate {
					t.Fatalf("breakdown item inconsistent: %+v", item)
				}
				sum += item.Points
			}
			if sum != got {
				t.Fatalf("breakdown sum %d does not match total %d", sum, got)
			}
		})
	}
}

func TestCalculate_AbsentRateScoresZero(t *testing.T) {
	rules := RuleSet{StatGoal: FlatRate(4)}
	got, breakdown := Calculate(rules, player.PositionForward, Counts(match.StatLine{Goals: 1, Assists: 3}, 0))
	if got != 4 {
		t.Fatalf("expected only goal points, got %d", got)
	}
	if breakdown[StatAssist].Points != 0 || breakdown[StatAssist].Count != 3 {
		t.Fatalf("unexpected assist breakdown: %+v", breakdown[StatAssist])
	}
}

func TestCaptainPolicyApply(t *testing.T) {
	tests := []struct {
		name      string
		policy    CaptainPolicy
		points    int
		isCaptain bool
		want      int
		wantMult  int
	}{
		{name: "captain doubled", policy: CaptainPolicy{Enabled: true, Multiplier: 2}, points: 7, isCaptain: true, want: 14, wantMult: 2},
		{name: "custom multiplier", policy: CaptainPolicy{Enabled: true, Multiplier: 3}, points: 5, isCaptain: true, want: 15, wantMult: 3},
		{name: "zero multiplier falls back to default", policy: CaptainPolicy{Enabled: true}, points: 5, isCaptain: true, want: 10, wantMult: 2},
		{name: "negative captain score untouched", policy: CaptainPolicy{Enabled: true, Multiplier: 2}, points: -3, isCaptain: true, want: -3, wantMult: 1},
		{name: "zero captain score untouched", policy: CaptainPolicy{Enabled: true, Multiplier: 2}, points: 0, isCaptain: true, want: 0, wantMult: 1},
		{name: "disabled", policy: CaptainPolicy{Multiplier: 2}, points: 7, isCaptain: true, want: 7, wantMult: 1},
		{name: "not captain", policy: CaptainPolicy{Enabled: true, Multiplier: 2}, points: 7, want: 7, wantMult: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, mult := tc.policy.Apply(tc.points, tc.isCaptain)
			if got != tc.want || mult != tc.wantMult {
				t.Fatalf("unexpected result: got=(%d,%d) want=(%d,%d)", got, mult, tc.want, tc.wantMult)
			}
		})
	}
}

func TestCountCleanSheet(t *testing.T) {
	m := match.Match{ID: "m1", HomeTeamID: "home", AwayTeamID: "away", HomeScore: 1, AwayScore: 0}

	tests := []struct {
		name     string
		pos      player.Position
		teamID   string
		inLineup bool
		want     bool
	}{
		{name: "home keeper kept clean sheet", pos: player.PositionGoalkeeper, teamID: "home", inLineup: true, want: true},
		{name: "not in lineup", pos: player.PositionGoalkeeper, teamID: "home", inLineup: false, want: false},
		{name: "away side conceded", pos: player.PositionDefender, teamID: "away", inLineup: true, want: false},
		{name: "team not in match", pos: player.PositionDefender, teamID: "other", inLineup: true, want: false},
		{name: "unknown position", pos: "COACH", teamID: "home", inLineup: true, want: false},
		{name: "forward can count a clean sheet", pos: player.PositionForward, teamID: "home", inLineup: true, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountCleanSheet(tc.pos, m, tc.teamID, tc.inLineup); got != tc.want {
				t.Fatalf("unexpected clean sheet: got=%t want=%t", got, tc.want)
			}
		})
	}
}
