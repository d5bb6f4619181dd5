package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

var ErrInvalidRules = errors.New("invalid scoring rules")

// StatKind is one countable statistic that earns points.
type StatKind string

const (
	StatGoal       StatKind = "goal"
	StatAssist     StatKind = "assist"
	StatCleanSheet StatKind = "clean_sheet"
	StatYellowCard StatKind = "yellow_card"
	StatRedCard    StatKind = "red_card"
)

// AllStatKinds is the closed set of scored statistics in breakdown order.
var AllStatKinds = []StatKind{
	StatGoal,
	StatAssist,
	StatCleanSheet,
	StatYellowCard,
	StatRedCard,
}

func (k StatKind) Known() bool {
	for _, kind := range AllStatKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Rate is either a flat rate or a per-position table. ByPosition is nil for flat rates.
type Rate struct {
	Flat       int
	ByPosition map[player.Position]int
}

func FlatRate(points int) Rate {
	return Rate{Flat: points}
}

func PositionRate(byPosition map[player.Position]int) Rate {
	out := make(map[player.Position]int, len(byPosition))
	for pos, points := range byPosition {
		out[pos] = points
	}
	return Rate{ByPosition: out}
}

func (r Rate) PerPosition() bool {
	return r.ByPosition != nil
}

// For returns the points per unit for a position. Positions missing from a table earn 0.
func (r Rate) For(pos player.Position) int {
	if r.ByPosition == nil {
		return r.Flat
	}
	return r.ByPosition[pos]
}

func (r Rate) clone() Rate {
	if r.ByPosition == nil {
		return r
	}
	return PositionRate(r.ByPosition)
}

// RuleSet maps stat kinds to their rates. Absent kinds score 0.
type RuleSet map[StatKind]Rate

// DefaultRuleSet returns the base rules every league starts from.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		StatGoal: PositionRate(map[player.Position]int{
			player.PositionGoalkeeper: 6,
			player.PositionDefender:   6,
			player.PositionMidfielder: 5,
			player.PositionForward:    4,
		}),
		StatAssist: FlatRate(3),
		StatCleanSheet: PositionRate(map[player.Position]int{
			player.PositionGoalkeeper: 4,
			player.PositionDefender:   4,
			player.PositionMidfielder: 1,
			player.PositionForward:    0,
		}),
		StatYellowCard: FlatRate(-1),
		StatRedCard:    FlatRate(-3),
	}
}

func (rs RuleSet) Rate(kind StatKind, pos player.Position) int {
	rate, ok := rs[kind]
	if !ok {
		return 0
	}
	return rate.For(pos)
}

func (rs RuleSet) Clone() RuleSet {
	out := make(RuleSet, len(rs))
	for kind, rate := range rs {
		out[kind] = rate.clone()
	}
	return out
}

func (rs RuleSet) Validate() error {
	for kind, rate := range rs {
		if !kind.Known() {
			return fmt.Errorf("%w: unknown stat kind %q", ErrInvalidRules, kind)
		}
		for pos := range rate.ByPosition {
			if !pos.Known() {
				return fmt.Errorf("%w: unknown position %q for %s", ErrInvalidRules, pos, kind)
			}
		}
	}
	return nil
}

// MergeRules overlays league overrides on defaults. When both sides hold a
// per-position table the tables merge key by key; otherwise the override wins.
func MergeRules(defaults, overrides RuleSet) RuleSet {
	merged := defaults.Clone()
	for kind, override := range overrides {
		base, ok := merged[kind]
		if !ok || !base.PerPosition() || !override.PerPosition() {
			merged[kind] = override.clone()
			continue
		}
		for pos, points := range override.ByPosition {
			base.ByPosition[pos] = points
		}
		merged[kind] = base
	}
	return merged
}

// ParseRuleSet decodes league rule overrides of the form
// {"goal": {"FW": 5}, "assist": 2}. Empty input yields an empty set.
func ParseRuleSet(raw []byte) (RuleSet, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return RuleSet{}, nil
	}

	var decoded map[string]any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRules, err)
	}

	out := make(RuleSet, len(decoded))
	for key, value := range decoded {
		kind := StatKind(key)
		if !kind.Known() {
			return nil, fmt.Errorf("%w: unknown stat kind %q", ErrInvalidRules, key)
		}

		switch v := value.(type) {
		case float64:
			points, err := wholePoints(key, v)
			if err != nil {
				return nil, err
			}
			out[kind] = FlatRate(points)
		case map[string]any:
			table := make(map[player.Position]int, len(v))
			for posKey, posValue := range v {
				pos := player.Position(posKey)
				if !pos.Known() {
					return nil, fmt.Errorf("%w: unknown position %q for %s", ErrInvalidRules, posKey, key)
				}
				number, ok := posValue.(float64)
				if !ok {
					return nil, fmt.Errorf("%w: %s.%s must be a number", ErrInvalidRules, key, posKey)
				}
				points, err := wholePoints(key+"."+posKey, number)
				if err != nil {
					return nil, err
				}
				table[pos] = points
			}
			out[kind] = Rate{ByPosition: table}
		default:
			return nil, fmt.Errorf("%w: %s must be a number or a position table", ErrInvalidRules, key)
		}
	}

	return out, nil
}

// EncodeRuleSet is the inverse of ParseRuleSet.
func EncodeRuleSet(rs RuleSet) ([]byte, error) {
	payload := make(map[string]any, len(rs))
	kinds := make([]string, 0, len(rs))
	for kind := range rs {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, key := range kinds {
		rate := rs[StatKind(key)]
		if !rate.PerPosition() {
			payload[key] = rate.Flat
			continue
		}
		table := make(map[string]int, len(rate.ByPosition))
		for pos, points := range rate.ByPosition {
			table[string(pos)] = points
		}
		payload[key] = table
	}

	out, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode scoring rules: %w", err)
	}
	return out, nil
}

func wholePoints(field string, v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidRules, field, v)
	}
	return int(v), nil
}
