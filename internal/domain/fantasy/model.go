package fantasy

import (
	"fmt"
	"time"
)

// Squad is one manager's fantasy team inside a league.
type Squad struct {
	ID        string
	OwnerID   string
	LeagueID  string
	Name      string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("squad name is required")
	}
	if s.Balance < 0 {
		return fmt.Errorf("squad balance must not be negative")
	}

	return nil
}

type MembershipStatus string

const (
	MembershipActive MembershipStatus = "ACTIVE"
	MembershipEnded  MembershipStatus = "ENDED"
)

// Lifecycle is the explicit state of a membership.
type Lifecycle struct {
	Status  MembershipStatus
	EndedOn *time.Time
}

// Membership is a player's time-bounded presence in a squad. Rows are
// closed by setting ActiveTo and are never deleted.
type Membership struct {
	ID            string
	SquadID       string
	PlayerID      string
	PurchasePrice int64
	IsCaptain     bool
	IsViceCaptain bool
	ActiveFrom    time.Time
	ActiveTo      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (m Membership) Active() bool {
	return m.ActiveTo == nil
}

func (m Membership) Lifecycle() Lifecycle {
	if m.ActiveTo == nil {
		return Lifecycle{Status: MembershipActive}
	}
	endedOn := *m.ActiveTo
	return Lifecycle{Status: MembershipEnded, EndedOn: &endedOn}
}

// End closes the membership on the given date. Armbands stay on the closed
// row: it still overlaps later periods and is scored with them.
func (m Membership) End(on time.Time) Membership {
	closed := m
	closed.ActiveTo = &on
	return closed
}

// Role is an armband a squad can hand to one active member. One member may
// hold both armbands.
type Role string

const (
	RoleCaptain     Role = "CAPTAIN"
	RoleViceCaptain Role = "VICE_CAPTAIN"
)

func (m Membership) Holds(role Role) bool {
	switch role {
	case RoleCaptain:
		return m.IsCaptain
	case RoleViceCaptain:
		return m.IsViceCaptain
	default:
		return false
	}
}

func (m Membership) WithRole(role Role, held bool) Membership {
	out := m
	switch role {
	case RoleCaptain:
		out.IsCaptain = held
	case RoleViceCaptain:
		out.IsViceCaptain = held
	}
	return out
}

func CloneMembership(m Membership) Membership {
	out := m
	if m.ActiveTo != nil {
		activeTo := *m.ActiveTo
		out.ActiveTo = &activeTo
	}
	return out
}
