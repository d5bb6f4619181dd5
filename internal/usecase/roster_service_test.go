package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	leaguemock "github.com/riskibarqy/fantasy-roster/internal/mocks/domain/league"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func createTestSquad(t *testing.T, env *testEnv, ownerID string) fantasy.Squad {
	t.Helper()

	squad, err := env.roster.CreateSquad(t.Context(), CreateSquadInput{
		OwnerID:  ownerID,
		LeagueID: testLeagueID,
		Name:     "Squad " + ownerID,
	})
	if err != nil {
		t.Fatalf("create squad: %v", err)
	}
	return squad
}

func addTestPlayer(t *testing.T, env *testEnv, squadID, playerID string) fantasy.Membership {
	t.Helper()

	m, err := env.roster.AddPlayer(t.Context(), squadID, playerID)
	if err != nil {
		t.Fatalf("add player %s: %v", playerID, err)
	}
	return m
}

func squadBalance(t *testing.T, env *testEnv, squadID string) int64 {
	t.Helper()

	squad, err := env.roster.GetSquad(t.Context(), squadID)
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	return squad.Balance
}

func TestRosterService_CreateSquad(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	if squad.Balance != 100 {
		t.Fatalf("new squad must start with the budget cap, got %d", squad.Balance)
	}

	_, err := env.roster.CreateSquad(t.Context(), CreateSquadInput{OwnerID: "owner-1", LeagueID: testLeagueID, Name: "Again"})
	if !errors.Is(err, fantasy.ErrSquadExists) {
		t.Fatalf("expected ErrSquadExists, got %v", err)
	}

	_, err = env.roster.CreateSquad(t.Context(), CreateSquadInput{OwnerID: "owner-2", LeagueID: "missing", Name: "Nowhere"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown league, got %v", err)
	}

	_, err = env.roster.CreateSquad(t.Context(), CreateSquadInput{OwnerID: " ", LeagueID: testLeagueID, Name: "Blank"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_AddThenRemoveRestoresBalance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")

	m := addTestPlayer(t, env, squad.ID, "p-mf")
	if got := squadBalance(t, env, squad.ID); got != 80 {
		t.Fatalf("balance after buying: got=%d want=80", got)
	}
	if m.PurchasePrice != 20 || !m.Active() {
		t.Fatalf("unexpected membership %+v", m)
	}

	removed, err := env.roster.RemovePlayer(t.Context(), squad.ID, m.ID)
	if err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if removed.Refund != 20 || removed.Balance != 100 {
		t.Fatalf("unexpected remove result %+v", removed)
	}
	if removed.Membership.Lifecycle().Status != fantasy.MembershipEnded {
		t.Fatalf("removed membership must be ended")
	}

	history, err := env.roster.ListMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(history) != 1 || history[0].Active() {
		t.Fatalf("ended membership must stay in history, got %+v", history)
	}

	transfers, err := env.roster.ListTransfers(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 2 || transfers[0].Action != fantasy.TransferAdd || transfers[1].Action != fantasy.TransferRemove {
		t.Fatalf("unexpected ledger %+v", transfers)
	}
	if transfers[0].Cost != 20 || transfers[1].Cost != 0 {
		t.Fatalf("unexpected ledger costs add=%d remove=%d", transfers[0].Cost, transfers[1].Cost)
	}
	if transfers[0].PeriodID != nil {
		t.Fatalf("pre-season transfer must not carry a period")
	}
}

func TestRosterService_RemoveRefundsCurrentPrice(t *testing.T) {
	t.Parallel()

	cfg := testLeague()
	cfg.RefundPolicy = league.RefundAtCurrentPrice
	env := newTestEnv(t, CumulativeAdditive, cfg)
	squad := createTestSquad(t, env, "owner-1")

	m := addTestPlayer(t, env, squad.ID, "p-mf")
	if !env.registry.SetPrice("p-mf", 26) {
		t.Fatalf("set price")
	}

	removed, err := env.roster.RemovePlayer(t.Context(), squad.ID, m.ID)
	if err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if removed.Refund != 26 || removed.Balance != 106 {
		t.Fatalf("expected refund at current price, got %+v", removed)
	}
}

func TestRosterService_AddPlayerRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   []string
		add     string
		wantErr error
	}{
		{name: "insufficient balance", setup: []string{"p-fw"}, add: "p-star", wantErr: fantasy.ErrInsufficientBalance},
		{name: "squad full", setup: []string{"p-fw", "p-mf", "p-df"}, add: "p-gk", wantErr: fantasy.ErrSquadFull},
		{name: "real team cap", setup: []string{"p-fw", "p-mf"}, add: "p-gk", wantErr: fantasy.ErrRealTeamCapExceeded},
		{name: "duplicate player", setup: []string{"p-fw"}, add: "p-fw", wantErr: fantasy.ErrDuplicateMembership},
		{name: "unknown player", add: "p-missing", wantErr: ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, CumulativeAdditive)
			squad := createTestSquad(t, env, "owner-1")
			for _, playerID := range tc.setup {
				addTestPlayer(t, env, squad.ID, playerID)
			}
			before := squadBalance(t, env, squad.ID)

			_, err := env.roster.AddPlayer(t.Context(), squad.ID, tc.add)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if got := squadBalance(t, env, squad.ID); got != before {
				t.Fatalf("rejected add must not touch balance: got=%d want=%d", got, before)
			}
			active, _ := env.roster.ListActiveMemberships(t.Context(), squad.ID)
			if len(active) != len(tc.setup) {
				t.Fatalf("rejected add must not touch memberships: got=%d want=%d", len(active), len(tc.setup))
			}
		})
	}
}

func TestRosterService_TransferLimitPerPeriod(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	env.setNow(midWeek1)

	addTestPlayer(t, env, squad.ID, "p-fw")

	_, err := env.roster.AddPlayer(t.Context(), squad.ID, "p-df")
	if !errors.Is(err, fantasy.ErrTransferLimitReached) {
		t.Fatalf("expected ErrTransferLimitReached, got %v", err)
	}
	if got := squadBalance(t, env, squad.ID); got != 90 {
		t.Fatalf("balance must stay at 90, got %d", got)
	}
	active, _ := env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if len(active) != 1 {
		t.Fatalf("membership count must stay at 1, got %d", len(active))
	}

	allowance, err := env.roster.TransfersLeft(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("transfers left: %v", err)
	}
	if allowance.PeriodID == nil || *allowance.PeriodID != testWeek1 || allowance.Used != 1 || allowance.Remaining != 0 {
		t.Fatalf("unexpected allowance %+v", allowance)
	}

	// A new period resets the allowance.
	env.setNow(midWeek2)
	addTestPlayer(t, env, squad.ID, "p-df")
}

func TestRosterService_RemoveDoesNotConsumeTransfer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	m := addTestPlayer(t, env, squad.ID, "p-fw")
	env.setNow(midWeek1)

	if _, err := env.roster.RemovePlayer(t.Context(), squad.ID, m.ID); err != nil {
		t.Fatalf("remove player: %v", err)
	}
	addTestPlayer(t, env, squad.ID, "p-df")
}

func TestRosterService_DeadlinePassed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	m := addTestPlayer(t, env, squad.ID, "p-fw")

	env.setNow(week1Deadline)
	if err := env.roster.SetCaptain(t.Context(), squad.ID, m.ID); err != nil {
		t.Fatalf("changes at the deadline instant are allowed: %v", err)
	}

	env.setNow(week1Deadline.Add(1))
	if _, err := env.roster.AddPlayer(t.Context(), squad.ID, "p-df"); !errors.Is(err, fantasy.ErrDeadlinePassed) {
		t.Fatalf("add: expected ErrDeadlinePassed, got %v", err)
	}
	if _, err := env.roster.RemovePlayer(t.Context(), squad.ID, m.ID); !errors.Is(err, fantasy.ErrDeadlinePassed) {
		t.Fatalf("remove: expected ErrDeadlinePassed, got %v", err)
	}
	if err := env.roster.SetViceCaptain(t.Context(), squad.ID, m.ID); !errors.Is(err, fantasy.ErrDeadlinePassed) {
		t.Fatalf("vice captain: expected ErrDeadlinePassed, got %v", err)
	}
}

func TestRosterService_CaptainIsUnique(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	first := addTestPlayer(t, env, squad.ID, "p-fw")
	second := addTestPlayer(t, env, squad.ID, "p-df")

	if err := env.roster.SetCaptain(t.Context(), squad.ID, first.ID); err != nil {
		t.Fatalf("set captain: %v", err)
	}
	if err := env.roster.SetCaptain(t.Context(), squad.ID, second.ID); err != nil {
		t.Fatalf("move captain: %v", err)
	}
	if err := env.roster.SetViceCaptain(t.Context(), squad.ID, first.ID); err != nil {
		t.Fatalf("set vice captain: %v", err)
	}

	active, err := env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list active memberships: %v", err)
	}
	captains, vices := 0, 0
	for _, m := range active {
		if m.IsCaptain {
			captains++
			if m.ID != second.ID {
				t.Fatalf("captain must be %s, got %s", second.ID, m.ID)
			}
		}
		if m.IsViceCaptain {
			vices++
			if m.ID != first.ID {
				t.Fatalf("vice captain must be %s, got %s", first.ID, m.ID)
			}
		}
	}
	if captains != 1 || vices != 1 {
		t.Fatalf("expected one captain and one vice captain, got %d and %d", captains, vices)
	}

	if err := env.roster.SetCaptain(t.Context(), squad.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown membership, got %v", err)
	}
}

func TestRosterService_SwapPlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	out := addTestPlayer(t, env, squad.ID, "p-fw")
	if err := env.roster.SetCaptain(t.Context(), squad.ID, out.ID); err != nil {
		t.Fatalf("set captain: %v", err)
	}

	result, err := env.roster.SwapPlayer(t.Context(), SwapInput{
		SquadID:              squad.ID,
		OutgoingMembershipID: out.ID,
		IncomingPlayerID:     "p-df",
	})
	if err != nil {
		t.Fatalf("swap player: %v", err)
	}
	if result.Balance != 85 || result.Refund != 10 {
		t.Fatalf("unexpected swap result %+v", result)
	}
	if result.Outgoing.Active() || !result.Outgoing.IsCaptain {
		t.Fatalf("outgoing membership must be ended with its armband kept: %+v", result.Outgoing)
	}
	if !result.Incoming.Active() || result.Incoming.IsCaptain {
		t.Fatalf("incoming membership must be active without armband: %+v", result.Incoming)
	}

	transfers, _ := env.roster.ListTransfers(t.Context(), squad.ID)
	last := transfers[len(transfers)-1]
	if last.Action != fantasy.TransferSwap || last.IncomingPlayerID != "p-df" || last.OutgoingPlayerID != "p-fw" {
		t.Fatalf("unexpected swap record %+v", last)
	}
}

func TestRosterService_SwapCountsRefundTowardBudget(t *testing.T) {
	t.Parallel()

	cfg := testLeague()
	cfg.BudgetCap = 20
	env := newTestEnv(t, CumulativeAdditive, cfg)
	squad := createTestSquad(t, env, "owner-1")
	out := addTestPlayer(t, env, squad.ID, "p-fw")

	// 10 left plus a 10 refund covers the 15 defender.
	if _, err := env.roster.SwapPlayer(t.Context(), SwapInput{SquadID: squad.ID, OutgoingMembershipID: out.ID, IncomingPlayerID: "p-df"}); err != nil {
		t.Fatalf("swap player: %v", err)
	}
}

func TestRosterService_BalanceConservation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")

	fw := addTestPlayer(t, env, squad.ID, "p-fw")
	mf := addTestPlayer(t, env, squad.ID, "p-mf")
	if _, err := env.roster.RemovePlayer(t.Context(), squad.ID, fw.ID); err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if _, err := env.roster.SwapPlayer(t.Context(), SwapInput{SquadID: squad.ID, OutgoingMembershipID: mf.ID, IncomingPlayerID: "p-df"}); err != nil {
		t.Fatalf("swap player: %v", err)
	}
	addTestPlayer(t, env, squad.ID, "p-gk")

	active, err := env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list active memberships: %v", err)
	}
	var invested int64
	for _, m := range active {
		invested += m.PurchasePrice
	}
	if got := squadBalance(t, env, squad.ID) + invested; got != 100 {
		t.Fatalf("balance plus active purchase prices must equal the budget, got %d", got)
	}
}

func TestRosterService_ConcurrentChangesOnOneSquad(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	players := []string{"p-fw", "p-mf", "p-gk", "p-df", "p-star"}

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()
			_, _ = env.roster.AddPlayer(t.Context(), squad.ID, playerID)
		}(players[i%len(players)])
	}
	wg.Wait()

	active, err := env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list active memberships: %v", err)
	}
	if len(active) == 0 || len(active) > 3 {
		t.Fatalf("active members must stay within the squad size limit, got %d", len(active))
	}

	for range 10 {
		for _, m := range active {
			wg.Add(1)
			go func(membershipID string) {
				defer wg.Done()
				_ = env.roster.SetCaptain(t.Context(), squad.ID, membershipID)
			}(m.ID)
		}
	}
	wg.Wait()

	active, err = env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list active memberships: %v", err)
	}
	var invested int64
	captains := 0
	seen := make(map[string]bool, len(active))
	for _, m := range active {
		invested += m.PurchasePrice
		if m.IsCaptain {
			captains++
		}
		if seen[m.PlayerID] {
			t.Fatalf("player %s is active twice", m.PlayerID)
		}
		seen[m.PlayerID] = true
	}
	if got := squadBalance(t, env, squad.ID) + invested; got != 100 {
		t.Fatalf("balance plus active purchase prices must equal the budget, got %d", got)
	}
	if captains != 1 {
		t.Fatalf("expected exactly one captain, got %d", captains)
	}
}

func TestRosterService_OneMemberHoldsBothArmbands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	m := addTestPlayer(t, env, squad.ID, "p-fw")

	if err := env.roster.SetViceCaptain(t.Context(), squad.ID, m.ID); err != nil {
		t.Fatalf("set vice captain: %v", err)
	}
	if err := env.roster.SetCaptain(t.Context(), squad.ID, m.ID); err != nil {
		t.Fatalf("set captain on vice captain: %v", err)
	}

	active, err := env.roster.ListActiveMemberships(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("list active memberships: %v", err)
	}
	if len(active) != 1 || !active[0].IsCaptain || !active[0].IsViceCaptain {
		t.Fatalf("expected one member holding both armbands, got %+v", active)
	}
}

func TestRosterService_RemoveKeepsArmbandOnClosedRow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	fw := addTestPlayer(t, env, squad.ID, "p-fw")
	mf := addTestPlayer(t, env, squad.ID, "p-mf")
	if err := env.roster.SetCaptain(t.Context(), squad.ID, fw.ID); err != nil {
		t.Fatalf("set captain: %v", err)
	}

	result, err := env.roster.RemovePlayer(t.Context(), squad.ID, fw.ID)
	if err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if result.Membership.Active() || !result.Membership.IsCaptain {
		t.Fatalf("removed captain must be closed with its armband: %+v", result.Membership)
	}

	// The closed row no longer blocks a new captain.
	if err := env.roster.SetCaptain(t.Context(), squad.ID, mf.ID); err != nil {
		t.Fatalf("set new captain: %v", err)
	}
}

func TestRosterService_TransfersLeftFollowsLocation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	squad := createTestSquad(t, env, "owner-1")
	env.setNow(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))

	allowance, err := env.roster.TransfersLeft(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("transfers left: %v", err)
	}
	if allowance.PeriodID != nil {
		t.Fatalf("expected no current period on the UTC day, got %s", *allowance.PeriodID)
	}

	env.roster.WithLocation(time.FixedZone("UTC+7", 7*60*60))
	allowance, err = env.roster.TransfersLeft(t.Context(), squad.ID)
	if err != nil {
		t.Fatalf("transfers left in UTC+7: %v", err)
	}
	if allowance.PeriodID == nil || *allowance.PeriodID != testWeek1 {
		t.Fatalf("expected week 1 on the UTC+7 day, got %+v", allowance)
	}
}

func TestRosterService_UnknownSquad(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, CumulativeAdditive)
	if _, err := env.roster.AddPlayer(t.Context(), "missing", "p-fw"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.roster.TransfersLeft(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_CreateSquad_LeagueNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "missing-league").
		Return(league.Config{}, false, nil).
		Once()

	service := NewRosterService(leagueRepo, nil, nil, nil, idgen.NewSequenceGenerator("id"), logging.NewNop())
	_, err := service.CreateSquad(ctx, CreateSquadInput{OwnerID: "owner-1", LeagueID: "missing-league", Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
