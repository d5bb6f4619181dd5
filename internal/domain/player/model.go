package player

import "fmt"

// Position represents football position categories used in scoring rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Known reports whether the position is one of the four scoring positions.
func (p Position) Known() bool {
	_, ok := AllPositions[p]
	return ok
}

// Player is a real athlete that fantasy squads can buy.
type Player struct {
	ID       string
	Name     string
	Position Position
	Price    int64
	TeamID   string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("player price must not be negative")
	}

	return nil
}

// SeasonRegistration records which real team a player was registered with in a season.
type SeasonRegistration struct {
	PlayerID string
	SeasonID string
	TeamID   string
}
