package fantasy

import (
	"errors"
	"testing"
	"time"
)

func TestAddCheckValidate(t *testing.T) {
	base := AddCheck{
		Balance:        100,
		Price:          10,
		ActiveCount:    3,
		SquadSizeLimit: 15,
		TeamID:         "t1",
		SameTeamCount:  1,
		MaxPerRealTeam: 3,
		InPeriod:       true,
		TransfersUsed:  0,
		TransferLimit:  1,
	}

	tests := []struct {
		name      string
		mutate    func(*AddCheck)
		targetErr error
	}{
		{name: "valid", mutate: func(*AddCheck) {}},
		{name: "price equal to balance allowed", mutate: func(c *AddCheck) { c.Price = 100 }},
		{name: "insufficient balance", mutate: func(c *AddCheck) { c.Price = 101 }, targetErr: ErrInsufficientBalance},
		{name: "squad full", mutate: func(c *AddCheck) { c.ActiveCount = 15 }, targetErr: ErrSquadFull},
		{name: "real team cap", mutate: func(c *AddCheck) { c.SameTeamCount = 3 }, targetErr: ErrRealTeamCapExceeded},
		{name: "transfer limit", mutate: func(c *AddCheck) { c.TransfersUsed = 1 }, targetErr: ErrTransferLimitReached},
		{name: "deadline passed", mutate: func(c *AddCheck) { c.DeadlinePassed = true }, targetErr: ErrDeadlinePassed},
		{
			name: "outside any period skips transfer and deadline checks",
			mutate: func(c *AddCheck) {
				c.InPeriod = false
				c.TransfersUsed = 9
				c.DeadlinePassed = true
			},
		},
		{
			name: "balance checked before squad size",
			mutate: func(c *AddCheck) {
				c.Price = 500
				c.ActiveCount = 15
			},
			targetErr: ErrInsufficientBalance,
		},
		{
			name: "transfer limit checked before deadline",
			mutate: func(c *AddCheck) {
				c.TransfersUsed = 1
				c.DeadlinePassed = true
			},
			targetErr: ErrTransferLimitReached,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check := base
			tc.mutate(&check)

			err := check.Validate()
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestReassignRole(t *testing.T) {
	ended := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	members := []Membership{
		{ID: "m1", PlayerID: "p1", IsCaptain: true},
		{ID: "m2", PlayerID: "p2", IsViceCaptain: true},
		{ID: "m3", PlayerID: "p3"},
		{ID: "m4", PlayerID: "p4", IsCaptain: true, ActiveTo: &ended},
	}

	changed := ReassignRole(members, members[2], RoleCaptain)
	if len(changed) != 2 {
		t.Fatalf("expected previous captain and target to change, got %d", len(changed))
	}
	if changed[0].ID != "m1" || changed[0].IsCaptain {
		t.Fatalf("expected m1 captaincy cleared first, got %+v", changed[0])
	}
	if changed[1].ID != "m3" || !changed[1].IsCaptain {
		t.Fatalf("expected m3 to become captain, got %+v", changed[1])
	}

	same := ReassignRole(members, members[0], RoleCaptain)
	if len(same) != 0 {
		t.Fatalf("expected no change when target already holds the armband, got %d", len(same))
	}

	vice := ReassignRole(members, members[0], RoleViceCaptain)
	if len(vice) != 2 || vice[1].ID != "m1" || !vice[1].IsViceCaptain || !vice[1].IsCaptain {
		t.Fatalf("expected m1 to hold both armbands, got %+v", vice)
	}
}

func TestMembershipLifecycle(t *testing.T) {
	m := Membership{ID: "m1", IsCaptain: true, IsViceCaptain: true}
	if lc := m.Lifecycle(); lc.Status != MembershipActive || lc.EndedOn != nil {
		t.Fatalf("expected active lifecycle, got %+v", lc)
	}

	on := time.Date(2027, 5, 30, 0, 0, 0, 0, time.UTC)
	closed := m.End(on)
	if closed.Active() {
		t.Fatalf("expected closed membership")
	}
	if !closed.IsCaptain || !closed.IsViceCaptain {
		t.Fatalf("expected armbands kept on the closed row, got %+v", closed)
	}
	lc := closed.Lifecycle()
	if lc.Status != MembershipEnded || lc.EndedOn == nil || !lc.EndedOn.Equal(on) {
		t.Fatalf("unexpected ended lifecycle: %+v", lc)
	}
	if !m.Active() {
		t.Fatalf("End must not modify the receiver")
	}
}
