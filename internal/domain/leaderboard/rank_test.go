package leaderboard

import "testing"

func weekly(squadID, name string, points int) Entry {
	period := "w1"
	return Entry{SquadID: squadID, SquadName: name, PeriodID: &period, PointsThisPeriod: points}
}

func TestAssignRanks(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		wantOrder []string
		wantRanks []int
	}{
		{
			name:      "tie at the top skips next rank",
			entries:   []Entry{weekly("c", "C", 7), weekly("a", "A", 10), weekly("b", "B", 10)},
			wantOrder: []string{"a", "b", "c"},
			wantRanks: []int{1, 1, 3},
		},
		{
			name:      "tie in the middle",
			entries:   []Entry{weekly("a", "A", 10), weekly("b", "B", 9), weekly("c", "C", 9), weekly("d", "D", 5)},
			wantOrder: []string{"a", "b", "c", "d"},
			wantRanks: []int{1, 2, 2, 4},
		},
		{
			name:      "name breaks ties in order only",
			entries:   []Entry{weekly("z", "Zebra", 3), weekly("y", "Alpha", 3)},
			wantOrder: []string{"y", "z"},
			wantRanks: []int{1, 1},
		},
		{
			name:      "negative totals rank below zero",
			entries:   []Entry{weekly("a", "A", -3), weekly("b", "B", 0)},
			wantOrder: []string{"b", "a"},
			wantRanks: []int{1, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssignRanks(tc.entries)
			if len(got) != len(tc.wantOrder) {
				t.Fatalf("unexpected entry count: got=%d want=%d", len(got), len(tc.wantOrder))
			}
			for i := range got {
				if got[i].SquadID != tc.wantOrder[i] {
					t.Fatalf("unexpected order at %d: got=%s want=%s", i, got[i].SquadID, tc.wantOrder[i])
				}
				if got[i].Rank != tc.wantRanks[i] {
					t.Fatalf("unexpected rank for %s: got=%d want=%d", got[i].SquadID, got[i].Rank, tc.wantRanks[i])
				}
			}
		})
	}
}

func TestAssignRanks_OverallUsesCumulativeAndTracksMovement(t *testing.T) {
	entries := []Entry{
		{SquadID: "a", SquadName: "A", CumulativePoints: 20, Rank: 1},
		{SquadID: "b", SquadName: "B", CumulativePoints: 30, Rank: 2},
		{SquadID: "c", SquadName: "C", CumulativePoints: 5},
	}

	got := AssignRanks(entries)
	if got[0].SquadID != "b" || got[0].Rank != 1 {
		t.Fatalf("expected b first, got %s rank=%d", got[0].SquadID, got[0].Rank)
	}
	if got[0].Movement() != RankMovementUp {
		t.Fatalf("expected b to move up, got %s", got[0].Movement())
	}
	if got[1].Movement() != RankMovementDown {
		t.Fatalf("expected a to move down, got %s", got[1].Movement())
	}
	if got[2].Movement() != RankMovementNew {
		t.Fatalf("expected c to be new, got %s", got[2].Movement())
	}
	if entries[0].Rank != 1 {
		t.Fatalf("input slice must not be modified")
	}
}
