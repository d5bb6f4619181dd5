package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/leaderboard"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
)

const overallKey = "overall"

// ScoringRepository stores periods, weekly player scores and leaderboard
// entries. A results transaction buffers its writes and merges them into the
// shared maps only when the batch succeeds.
type ScoringRepository struct {
	mu      sync.RWMutex
	periods map[string]scoring.Period
	scores  map[string]scoring.WeeklyPlayerScore
	entries map[string]leaderboard.Entry

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewScoringRepository(periods []scoring.Period) *ScoringRepository {
	r := &ScoringRepository{
		periods: make(map[string]scoring.Period, len(periods)),
		scores:  make(map[string]scoring.WeeklyPlayerScore),
		entries: make(map[string]leaderboard.Entry),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, p := range periods {
		r.periods[p.ID] = clonePeriod(p)
	}
	return r
}

func (r *ScoringRepository) ListPeriods(_ context.Context, leagueID string) ([]scoring.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Period, 0)
	for _, p := range r.periods {
		if p.LeagueID == leagueID {
			out = append(out, clonePeriod(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *ScoringRepository) GetPeriod(_ context.Context, periodID string) (scoring.Period, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.periods[periodID]
	if !ok {
		return scoring.Period{}, false, nil
	}
	return clonePeriod(p), true, nil
}

func (r *ScoringRepository) GetPeriodByIndex(_ context.Context, leagueID string, index int) (scoring.Period, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.periods {
		if p.LeagueID == leagueID && p.Index == index {
			return clonePeriod(p), true, nil
		}
	}
	return scoring.Period{}, false, nil
}

func (r *ScoringRepository) ListPlayerScores(_ context.Context, periodID string) ([]scoring.WeeklyPlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterScores(r.scores, nil, periodID), nil
}

func (r *ScoringRepository) ListWeekly(_ context.Context, periodID string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterEntries(r.entries, nil, func(e leaderboard.Entry) bool {
		return !e.IsOverall() && *e.PeriodID == periodID
	}), nil
}

func (r *ScoringRepository) ListOverall(_ context.Context, leagueID string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterEntries(r.entries, nil, func(e leaderboard.Entry) bool {
		return e.IsOverall() && e.LeagueID == leagueID
	}), nil
}

func (r *ScoringRepository) WithinResultsTx(ctx context.Context, leagueID string, fn func(ctx context.Context, tx scoring.ResultsTx) error) error {
	lock := r.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &resultsTx{
		repo:    r,
		scores:  make(map[string]scoring.WeeklyPlayerScore),
		entries: make(map[string]leaderboard.Entry),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range tx.scores {
		r.scores[k] = v
	}
	for k, v := range tx.entries {
		r.entries[k] = v
	}
	return nil
}

func (r *ScoringRepository) leagueLock(leagueID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.locks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[leagueID] = lock
	}
	return lock
}

type resultsTx struct {
	repo    *ScoringRepository
	scores  map[string]scoring.WeeklyPlayerScore
	entries map[string]leaderboard.Entry
}

func (tx *resultsTx) UpsertPlayerScore(_ context.Context, score scoring.WeeklyPlayerScore) error {
	if score.MembershipID == "" || score.PeriodID == "" {
		return fmt.Errorf("player score requires membership and period")
	}
	key := scoreKey(score.MembershipID, score.PeriodID)

	tx.repo.mu.RLock()
	stored, ok := tx.repo.scores[key]
	tx.repo.mu.RUnlock()
	if staged, exists := tx.scores[key]; exists {
		stored, ok = staged, true
	}
	if ok {
		score.ID = stored.ID
	}
	tx.scores[key] = cloneScore(score)
	return nil
}

func (tx *resultsTx) ListWeekly(_ context.Context, periodID string) ([]leaderboard.Entry, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	return filterEntries(tx.repo.entries, tx.entries, func(e leaderboard.Entry) bool {
		return !e.IsOverall() && *e.PeriodID == periodID
	}), nil
}

func (tx *resultsTx) ListOverall(_ context.Context, leagueID string) ([]leaderboard.Entry, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	return filterEntries(tx.repo.entries, tx.entries, func(e leaderboard.Entry) bool {
		return e.IsOverall() && e.LeagueID == leagueID
	}), nil
}

func (tx *resultsTx) GetOverall(_ context.Context, squadID string) (leaderboard.Entry, bool, error) {
	key := entryKey(squadID, nil)
	if e, ok := tx.entries[key]; ok {
		return cloneEntry(e), true, nil
	}

	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()
	e, ok := tx.repo.entries[key]
	if !ok {
		return leaderboard.Entry{}, false, nil
	}
	return cloneEntry(e), true, nil
}

func (tx *resultsTx) ListBySquad(_ context.Context, squadID string) ([]leaderboard.Entry, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	return filterEntries(tx.repo.entries, tx.entries, func(e leaderboard.Entry) bool {
		return e.SquadID == squadID
	}), nil
}

func (tx *resultsTx) UpsertEntry(_ context.Context, entry leaderboard.Entry) error {
	if entry.SquadID == "" {
		return fmt.Errorf("leaderboard entry requires squad id")
	}
	key := entryKey(entry.SquadID, entry.PeriodID)

	tx.repo.mu.RLock()
	stored, ok := tx.repo.entries[key]
	tx.repo.mu.RUnlock()
	if staged, exists := tx.entries[key]; exists {
		stored, ok = staged, true
	}
	if ok {
		entry.ID = stored.ID
	}
	tx.entries[key] = cloneEntry(entry)
	return nil
}

func filterScores(base, overlay map[string]scoring.WeeklyPlayerScore, periodID string) []scoring.WeeklyPlayerScore {
	merged := make(map[string]scoring.WeeklyPlayerScore)
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}

	out := make([]scoring.WeeklyPlayerScore, 0)
	for _, s := range merged {
		if s.PeriodID == periodID {
			out = append(out, cloneScore(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SquadID != out[j].SquadID {
			return out[i].SquadID < out[j].SquadID
		}
		return out[i].MembershipID < out[j].MembershipID
	})
	return out
}

func filterEntries(base, overlay map[string]leaderboard.Entry, keep func(leaderboard.Entry) bool) []leaderboard.Entry {
	out := make([]leaderboard.Entry, 0)
	for k, e := range base {
		if _, shadowed := overlay[k]; shadowed {
			continue
		}
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	for _, e := range overlay {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	sortEntries(out)
	return out
}

// sortEntries orders by rank with unranked rows last.
func sortEntries(items []leaderboard.Entry) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Rank, items[j].Rank
		if (ri > 0) != (rj > 0) {
			return ri > 0
		}
		if ri != rj {
			return ri < rj
		}
		if items[i].Points() != items[j].Points() {
			return items[i].Points() > items[j].Points()
		}
		return items[i].SquadID < items[j].SquadID
	})
}

func scoreKey(membershipID, periodID string) string {
	return membershipID + "::" + periodID
}

func entryKey(squadID string, periodID *string) string {
	if periodID == nil {
		return squadID + "::" + overallKey
	}
	return squadID + "::" + *periodID
}

func clonePeriod(p scoring.Period) scoring.Period {
	out := p
	out.MatchIDs = append([]string(nil), p.MatchIDs...)
	return out
}

func cloneScore(s scoring.WeeklyPlayerScore) scoring.WeeklyPlayerScore {
	out := s
	if s.Breakdown != nil {
		out.Breakdown = make(scoring.Breakdown, len(s.Breakdown))
		for k, v := range s.Breakdown {
			out.Breakdown[k] = v
		}
	}
	return out
}

func cloneEntry(e leaderboard.Entry) leaderboard.Entry {
	out := e
	if e.PeriodID != nil {
		periodID := *e.PeriodID
		out.PeriodID = &periodID
	}
	if e.PreviousRank != nil {
		prev := *e.PreviousRank
		out.PreviousRank = &prev
	}
	return out
}
