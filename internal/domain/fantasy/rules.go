package fantasy

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrSquadFull            = errors.New("squad is full")
	ErrRealTeamCapExceeded  = errors.New("max players from same real team exceeded")
	ErrTransferLimitReached = errors.New("transfer limit reached for current period")
	ErrDeadlinePassed       = errors.New("transfer deadline has passed")
	ErrDuplicateMembership  = errors.New("player already active in squad")
	ErrSquadNotFound        = errors.New("squad not found")
	ErrSquadExists          = errors.New("owner already has a squad in league")
)

// AddCheck is the squad state an incoming player is checked against.
// For a swap the caller passes values with the outgoing member already removed.
type AddCheck struct {
	Balance        int64
	Price          int64
	ActiveCount    int
	SquadSizeLimit int
	TeamID         string
	SameTeamCount  int
	MaxPerRealTeam int
	// InPeriod is false when no scoring period covers today; transfer and
	// deadline checks are skipped then.
	InPeriod       bool
	TransfersUsed  int
	TransferLimit  int
	DeadlinePassed bool
}

// Validate runs the checks in a fixed order and reports the first failure.
func (c AddCheck) Validate() error {
	if c.Price > c.Balance {
		return fmt.Errorf("%w: price=%d balance=%d", ErrInsufficientBalance, c.Price, c.Balance)
	}
	if c.ActiveCount >= c.SquadSizeLimit {
		return fmt.Errorf("%w: max=%d", ErrSquadFull, c.SquadSizeLimit)
	}
	if c.SameTeamCount >= c.MaxPerRealTeam {
		return fmt.Errorf("%w: team=%s max=%d", ErrRealTeamCapExceeded, c.TeamID, c.MaxPerRealTeam)
	}
	if !c.InPeriod {
		return nil
	}
	if c.TransfersUsed >= c.TransferLimit {
		return fmt.Errorf("%w: used=%d limit=%d", ErrTransferLimitReached, c.TransfersUsed, c.TransferLimit)
	}
	if c.DeadlinePassed {
		return ErrDeadlinePassed
	}

	return nil
}

// FindActive returns the active membership with the given id.
func FindActive(memberships []Membership, membershipID string) (Membership, bool) {
	for _, m := range memberships {
		if m.ID == membershipID && m.Active() {
			return m, true
		}
	}
	return Membership{}, false
}

// HasActivePlayer reports whether playerID already has an open membership.
func HasActivePlayer(memberships []Membership, playerID string) bool {
	for _, m := range memberships {
		if m.PlayerID == playerID && m.Active() {
			return true
		}
	}
	return false
}

// ReassignRole moves an armband to target. It returns every membership whose
// flags changed, the previous holder first.
func ReassignRole(memberships []Membership, target Membership, role Role) []Membership {
	changed := make([]Membership, 0, 2)
	for _, m := range memberships {
		if !m.Active() || m.ID == target.ID || !m.Holds(role) {
			continue
		}
		changed = append(changed, m.WithRole(role, false))
	}
	if !target.Holds(role) {
		changed = append(changed, target.WithRole(role, true))
	}
	return changed
}
