package scoring

import (
	"fmt"
	"sort"
	"time"
)

// Period is one scoring week of a league.
type Period struct {
	ID        string
	LeagueID  string
	Index     int
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Deadline  time.Time
	// MatchIDs is the explicit match set. When empty the date window applies.
	MatchIDs []string
}

func (p Period) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("period id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("period league id is required")
	}
	if p.Index < 1 {
		return fmt.Errorf("period index must be >= 1")
	}
	if DateOf(p.EndDate).Before(DateOf(p.StartDate)) {
		return fmt.Errorf("period end date must not be before start date")
	}
	return nil
}

// Contains reports whether asOf's calendar day falls within the period.
func (p Period) Contains(asOf time.Time) bool {
	day := DateOf(asOf)
	return !day.Before(DateOf(p.StartDate)) && !day.After(DateOf(p.EndDate))
}

// DeadlinePassed is true strictly after the deadline.
func (p Period) DeadlinePassed(asOf time.Time) bool {
	return asOf.After(p.Deadline)
}

// Window returns the instant range [start 00:00, end 23:59:59.999999999] in UTC.
func (p Period) Window() (time.Time, time.Time) {
	from := DateOf(p.StartDate)
	to := DateOf(p.EndDate).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}

// Overlaps reports whether a membership active on [activeFrom, activeTo] touches the period.
// A nil activeTo means the membership is still open.
func (p Period) Overlaps(activeFrom time.Time, activeTo *time.Time) bool {
	if DateOf(activeFrom).After(DateOf(p.EndDate)) {
		return false
	}
	if activeTo == nil {
		return true
	}
	return !DateOf(*activeTo).Before(DateOf(p.StartDate))
}

// CurrentPeriod picks the lowest-index period whose date window contains asOf.
func CurrentPeriod(periods []Period, asOf time.Time) (Period, bool) {
	sorted := append([]Period(nil), periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})
	for _, p := range sorted {
		if p.Contains(asOf) {
			return p, true
		}
	}
	return Period{}, false
}

// DateOf truncates t to its calendar day, keeping t's own wall-clock date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
