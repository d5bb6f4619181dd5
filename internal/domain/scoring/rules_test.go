package scoring

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

func TestMergeRules(t *testing.T) {
	defaults := DefaultRuleSet()
	overrides := RuleSet{
		StatGoal:       PositionRate(map[player.Position]int{player.PositionForward: 5}),
		StatAssist:     PositionRate(map[player.Position]int{player.PositionMidfielder: 4}),
		StatCleanSheet: FlatRate(2),
	}

	merged := MergeRules(defaults, overrides)

	tests := []struct {
		name string
		kind StatKind
		pos  player.Position
		want int
	}{
		{name: "table merged key by key keeps defaults", kind: StatGoal, pos: player.PositionGoalkeeper, want: 6},
		{name: "table merged key by key applies override", kind: StatGoal, pos: player.PositionForward, want: 5},
		{name: "table replaces flat default", kind: StatAssist, pos: player.PositionMidfielder, want: 4},
		{name: "replaced flat default drops other positions", kind: StatAssist, pos: player.PositionForward, want: 0},
		{name: "flat replaces table default", kind: StatCleanSheet, pos: player.PositionForward, want: 2},
		{name: "untouched default", kind: StatRedCard, pos: player.PositionDefender, want: -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := merged.Rate(tc.kind, tc.pos); got != tc.want {
				t.Fatalf("unexpected rate: got=%d want=%d", got, tc.want)
			}
		})
	}

	if got := defaults.Rate(StatGoal, player.PositionForward); got != 4 {
		t.Fatalf("defaults must not be modified by merge, got FW goal=%d", got)
	}
}

func TestParseRuleSet(t *testing.T) {
	rules, err := ParseRuleSet([]byte(`{"goal":{"FW":5,"MF":6},"assist":2,"red_card":-4}`))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	if got := rules.Rate(StatGoal, player.PositionForward); got != 5 {
		t.Fatalf("unexpected FW goal rate: %d", got)
	}
	if got := rules.Rate(StatAssist, player.PositionGoalkeeper); got != 2 {
		t.Fatalf("unexpected assist rate: %d", got)
	}
	if got := rules.Rate(StatRedCard, player.PositionForward); got != -4 {
		t.Fatalf("unexpected red card rate: %d", got)
	}

	empty, err := ParseRuleSet(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty rule set, got %v err=%v", empty, err)
	}

	invalid := []string{
		`{"own_goal":1}`,
		`{"goal":{"ST":4}}`,
		`{"assist":1.5}`,
		`{"assist":"three"}`,
		`not json`,
	}
	for _, raw := range invalid {
		if _, err := ParseRuleSet([]byte(raw)); !errors.Is(err, ErrInvalidRules) {
			t.Fatalf("expected ErrInvalidRules for %s, got %v", raw, err)
		}
	}
}

func TestEncodeRuleSet_RoundTripsThroughParse(t *testing.T) {
	raw, err := EncodeRuleSet(DefaultRuleSet())
	if err != nil {
		t.Fatalf("encode rules: %v", err)
	}
	decoded, err := ParseRuleSet(raw)
	if err != nil {
		t.Fatalf("parse encoded rules: %v", err)
	}
	for _, kind := range AllStatKinds {
		for pos := range player.AllPositions {
			if decoded.Rate(kind, pos) != DefaultRuleSet().Rate(kind, pos) {
				t.Fatalf("rate mismatch for %s/%s", kind, pos)
			}
		}
	}
}
