package leaderboard

import "sort"

// AssignRanks orders entries by points descending then squad name, and gives
// tied entries the same rank with gaps after ties (10,10,7 -> 1,1,3).
// The previous rank of each entry is kept for movement reporting.
func AssignRanks(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points() != out[j].Points() {
			return out[i].Points() > out[j].Points()
		}
		if out[i].SquadName != out[j].SquadName {
			return out[i].SquadName < out[j].SquadName
		}
		return out[i].SquadID < out[j].SquadID
	})

	rank := 0
	for idx := range out {
		if idx == 0 || out[idx].Points() < out[idx-1].Points() {
			rank = idx + 1
		}
		if out[idx].Rank > 0 {
			previous := out[idx].Rank
			out[idx].PreviousRank = &previous
		}
		out[idx].Rank = rank
	}
	return out
}
