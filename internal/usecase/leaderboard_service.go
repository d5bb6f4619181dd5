package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/leaderboard"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// CumulativeMode selects how an overall total is derived when a period is scored.
type CumulativeMode string

const (
	// CumulativeAdditive adds the period total to the stored overall total.
	// Scoring the same period twice counts it twice.
	CumulativeAdditive CumulativeMode = "additive"
	// CumulativeRecompute sums the squad's weekly entries across all periods.
	CumulativeRecompute CumulativeMode = "recompute"
)

func ParseCumulativeMode(v string) (CumulativeMode, error) {
	switch mode := CumulativeMode(strings.ToLower(strings.TrimSpace(v))); mode {
	case "", CumulativeAdditive:
		return CumulativeAdditive, nil
	case CumulativeRecompute:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid cumulative mode %q: valid values are %s, %s", v, CumulativeAdditive, CumulativeRecompute)
	}
}

// BoardUpdate carries one period's squad totals into the leaderboards.
type BoardUpdate struct {
	LeagueID string
	PeriodID string
	Squads   []fantasy.Squad
	Totals   map[string]int
	At       time.Time
}

type LeaderboardService struct {
	reader leaderboard.Reader
	idGen  idgen.Generator
	mode   CumulativeMode
	logger *logging.Logger
}

func NewLeaderboardService(reader leaderboard.Reader, idGen idgen.Generator, mode CumulativeMode, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if mode == "" {
		mode = CumulativeAdditive
	}

	return &LeaderboardService{
		reader: reader,
		idGen:  idGen,
		mode:   mode,
		logger: logger,
	}
}

func (s *LeaderboardService) Mode() CumulativeMode {
	return s.mode
}

// Apply writes weekly and overall entries for every squad of the update, then
// re-ranks the whole weekly board of the period and the whole overall board of
// the league. It must run inside the scoring batch transaction.
func (s *LeaderboardService) Apply(ctx context.Context, w leaderboard.Writer, update BoardUpdate) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Apply")
	defer span.End()

	existing, err := w.ListWeekly(ctx, update.PeriodID)
	if err != nil {
		return fmt.Errorf("list weekly entries: %w", err)
	}
	weeklyBySquad := make(map[string]leaderboard.Entry, len(existing))
	for _, e := range existing {
		weeklyBySquad[e.SquadID] = e
	}

	squads := append([]fantasy.Squad(nil), update.Squads...)
	sort.SliceStable(squads, func(i, j int) bool { return squads[i].ID < squads[j].ID })

	at := update.At.UTC()
	for _, squad := range squads {
		weeklyTotal := update.Totals[squad.ID]

		overall, exists, err := w.GetOverall(ctx, squad.ID)
		if err != nil {
			return fmt.Errorf("get overall entry squad=%s: %w", squad.ID, err)
		}
		if !exists {
			entryID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate overall entry id: %w", err)
			}
			overall = leaderboard.Entry{ID: entryID, LeagueID: update.LeagueID, SquadID: squad.ID}
		}

		cumulative, err := s.cumulative(ctx, w, overall, squad.ID, update.PeriodID, weeklyTotal)
		if err != nil {
			return err
		}

		weekly, ok := weeklyBySquad[squad.ID]
		if !ok {
			entryID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate weekly entry id: %w", err)
			}
			periodID := update.PeriodID
			weekly = leaderboard.Entry{ID: entryID, LeagueID: update.LeagueID, SquadID: squad.ID, PeriodID: &periodID}
		}
		weekly.SquadName = squad.Name
		weekly.PointsThisPeriod = weeklyTotal
		weekly.CumulativePoints = cumulative
		weekly.UpdatedAt = at
		if err := w.UpsertEntry(ctx, weekly); err != nil {
			return fmt.Errorf("upsert weekly entry squad=%s: %w", squad.ID, err)
		}

		overall.SquadName = squad.Name
		overall.CumulativePoints = cumulative
		overall.UpdatedAt = at
		if err := w.UpsertEntry(ctx, overall); err != nil {
			return fmt.Errorf("upsert overall entry squad=%s: %w", squad.ID, err)
		}
	}

	weeklyBoard, err := w.ListWeekly(ctx, update.PeriodID)
	if err != nil {
		return fmt.Errorf("list weekly board: %w", err)
	}
	if err := rerank(ctx, w, weeklyBoard); err != nil {
		return fmt.Errorf("rank weekly board period=%s: %w", update.PeriodID, err)
	}

	overallBoard, err := w.ListOverall(ctx, update.LeagueID)
	if err != nil {
		return fmt.Errorf("list overall board: %w", err)
	}
	if err := rerank(ctx, w, overallBoard); err != nil {
		return fmt.Errorf("rank overall board league=%s: %w", update.LeagueID, err)
	}

	s.logger.DebugContext(ctx, "leaderboards ranked",
		"league_id", update.LeagueID,
		"period_id", update.PeriodID,
		"weekly_entries", len(weeklyBoard),
		"overall_entries", len(overallBoard),
		"mode", string(s.mode),
	)
	return nil
}

func (s *LeaderboardService) cumulative(
	ctx context.Context,
	w leaderboard.Writer,
	overall leaderboard.Entry,
	squadID, periodID string,
	weeklyTotal int,
) (int, error) {
	if s.mode != CumulativeRecompute {
		return overall.CumulativePoints + weeklyTotal, nil
	}

	entries, err := w.ListBySquad(ctx, squadID)
	if err != nil {
		return 0, fmt.Errorf("list entries squad=%s: %w", squadID, err)
	}
	total := weeklyTotal
	for _, e := range entries {
		if e.IsOverall() || *e.PeriodID == periodID {
			continue
		}
		total += e.PointsThisPeriod
	}
	return total, nil
}

func rerank(ctx context.Context, w leaderboard.Writer, entries []leaderboard.Entry) error {
	for _, e := range leaderboard.AssignRanks(entries) {
		if err := w.UpsertEntry(ctx, e); err != nil {
			return fmt.Errorf("save rank squad=%s: %w", e.SquadID, err)
		}
	}
	return nil
}

func (s *LeaderboardService) ListWeekly(ctx context.Context, periodID string) ([]leaderboard.Entry, error) {
	periodID = strings.TrimSpace(periodID)
	if periodID == "" {
		return nil, fmt.Errorf("%w: period id is required", ErrInvalidInput)
	}

	items, err := s.reader.ListWeekly(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("list weekly leaderboard: %w", err)
	}
	return items, nil
}

func (s *LeaderboardService) ListOverall(ctx context.Context, leagueID string) ([]leaderboard.Entry, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.reader.ListOverall(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list overall leaderboard: %w", err)
	}
	return items, nil
}
