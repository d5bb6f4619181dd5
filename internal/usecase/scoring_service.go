package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultScoringWorkers    = 8
	defaultLeagueConcurrency = 4
)

type ScoringOptions struct {
	// Workers bounds concurrent squad computations inside one week.
	Workers int
	// LeagueConcurrency bounds leagues processed at once by CalculateCurrentWeeks.
	LeagueConcurrency int
}

// CurrentWeeksResult summarizes a run over every league's current period.
type CurrentWeeksResult struct {
	Processed int
	Skipped   int
	Weeks     []scoring.WeekSummary
}

type ScoringService struct {
	leagueRepo  league.Repository
	registry    player.Registry
	results     match.Results
	squadRepo   fantasy.Repository
	scoringRepo scoring.Repository
	board       *LeaderboardService
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
	loc         *time.Location
	opts        ScoringOptions
}

func NewScoringService(
	leagueRepo league.Repository,
	registry player.Registry,
	results match.Results,
	squadRepo fantasy.Repository,
	scoringRepo scoring.Repository,
	board *LeaderboardService,
	idGen idgen.Generator,
	logger *logging.Logger,
	opts ScoringOptions,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultScoringWorkers
	}
	if opts.LeagueConcurrency <= 0 {
		opts.LeagueConcurrency = defaultLeagueConcurrency
	}

	return &ScoringService{
		leagueRepo:  leagueRepo,
		registry:    registry,
		results:     results,
		squadRepo:   squadRepo,
		scoringRepo: scoringRepo,
		board:       board,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
		opts:        opts,
	}
}

func (s *ScoringService) WithClock(now func() time.Time) *ScoringService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithLocation sets the timezone whose calendar day picks the current period.
func (s *ScoringService) WithLocation(loc *time.Location) *ScoringService {
	s.loc = loc
	return s
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// squadScore is the computed, not yet persisted, outcome for one squad.
type squadScore struct {
	squad   fantasy.Squad
	members []scoring.WeeklyPlayerScore
	total   int
}

// CalculateWeek scores every squad of a league for one period and refreshes
// both leaderboards. Computation is read-only; all writes happen in one
// results transaction, so a failure leaves previous results untouched.
func (s *ScoringService) CalculateWeek(ctx context.Context, leagueID, periodID string) (scoring.WeekSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateWeek",
		attribute.String("league_id", leagueID),
		attribute.String("period_id", periodID),
	)
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	periodID = strings.TrimSpace(periodID)
	if leagueID == "" || periodID == "" {
		return scoring.WeekSummary{}, fmt.Errorf("%w: league id and period id are required", ErrInvalidInput)
	}

	cfg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return scoring.WeekSummary{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return scoring.WeekSummary{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	period, exists, err := s.scoringRepo.GetPeriod(ctx, periodID)
	if err != nil {
		return scoring.WeekSummary{}, fmt.Errorf("get period by id: %w", err)
	}
	if !exists || period.LeagueID != cfg.ID {
		return scoring.WeekSummary{}, fmt.Errorf("%w: period=%s league=%s", ErrNotFound, periodID, leagueID)
	}

	return s.calculate(ctx, cfg, period)
}

// CalculateWeekByIndex resolves a period by its 1-based index within the league.
func (s *ScoringService) CalculateWeekByIndex(ctx context.Context, leagueID string, index int) (scoring.WeekSummary, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return scoring.WeekSummary{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if index < 1 {
		return scoring.WeekSummary{}, fmt.Errorf("%w: period index must be >= 1", ErrInvalidInput)
	}

	period, exists, err := s.scoringRepo.GetPeriodByIndex(ctx, leagueID, index)
	if err != nil {
		return scoring.WeekSummary{}, fmt.Errorf("get period by index: %w", err)
	}
	if !exists {
		return scoring.WeekSummary{}, fmt.Errorf("%w: period index=%d league=%s", ErrNotFound, index, leagueID)
	}
	return s.CalculateWeek(ctx, leagueID, period.ID)
}

// CalculateCurrentWeeks scores the current period of every league. Leagues
// without a current period are skipped. One league failing does not stop the others;
// the joined error is returned with the successful summaries.
func (s *ScoringService) CalculateCurrentWeeks(ctx context.Context) (CurrentWeeksResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateCurrentWeeks")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return CurrentWeeksResult{}, fmt.Errorf("list leagues: %w", err)
	}

	asOf := s.now()
	runs := pool.NewWithResults[*scoring.WeekSummary]().
		WithContext(ctx).
		WithMaxGoroutines(s.opts.LeagueConcurrency)
	for _, cfg := range leagues {
		runs.Go(func(ctx context.Context) (*scoring.WeekSummary, error) {
			periods, err := s.scoringRepo.ListPeriods(ctx, cfg.ID)
			if err != nil {
				return nil, fmt.Errorf("list periods league=%s: %w", cfg.ID, err)
			}
			current, ok := scoring.CurrentPeriod(periods, inLocation(asOf, s.loc))
			if !ok {
				return nil, nil
			}
			summary, err := s.calculate(ctx, cfg, current)
			if err != nil {
				return nil, fmt.Errorf("calculate league=%s period=%s: %w", cfg.ID, current.ID, err)
			}
			return &summary, nil
		})
	}
	summaries, runErr := runs.Wait()

	result := CurrentWeeksResult{}
	for _, summary := range summaries {
		if summary == nil {
			result.Skipped++
			continue
		}
		result.Processed++
		result.Weeks = append(result.Weeks, *summary)
	}
	sort.SliceStable(result.Weeks, func(i, j int) bool {
		return result.Weeks[i].LeagueID < result.Weeks[j].LeagueID
	})

	s.logger.InfoContext(ctx, "current weeks calculated",
		"leagues", len(leagues),
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", len(leagues)-result.Processed-result.Skipped,
	)
	return result, runErr
}

func (s *ScoringService) ListPlayerScores(ctx context.Context, periodID string) ([]scoring.WeeklyPlayerScore, error) {
	periodID = strings.TrimSpace(periodID)
	if periodID == "" {
		return nil, fmt.Errorf("%w: period id is required", ErrInvalidInput)
	}

	items, err := s.scoringRepo.ListPlayerScores(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("list player scores: %w", err)
	}
	return items, nil
}

func (s *ScoringService) calculate(ctx context.Context, cfg league.Config, period scoring.Period) (scoring.WeekSummary, error) {
	started := time.Now()

	matches, err := s.matchesFor(ctx, period)
	if err != nil {
		return scoring.WeekSummary{}, err
	}

	squads, err := s.squadRepo.ListSquadsByLeague(ctx, cfg.ID)
	if err != nil {
		return scoring.WeekSummary{}, fmt.Errorf("list squads by league: %w", err)
	}

	asOf := s.now().UTC()
	scored, err := s.scoreSquads(ctx, cfg, period, matches, squads, asOf)
	if err != nil {
		return scoring.WeekSummary{}, err
	}

	summary := scoring.WeekSummary{
		LeagueID:     cfg.ID,
		PeriodID:     period.ID,
		PeriodIndex:  period.Index,
		SquadCount:   len(squads),
		SquadTotals:  make(map[string]int, len(scored)),
		CalculatedAt: asOf,
	}
	for _, item := range scored {
		summary.SquadTotals[item.squad.ID] = item.total
		summary.MemberScores += len(item.members)
	}

	err = s.scoringRepo.WithinResultsTx(ctx, cfg.ID, func(ctx context.Context, tx scoring.ResultsTx) error {
		for _, item := range scored {
			for _, score := range item.members {
				if err := tx.UpsertPlayerScore(ctx, score); err != nil {
					return fmt.Errorf("upsert player score membership=%s: %w", score.MembershipID, err)
				}
			}
		}
		return s.board.Apply(ctx, tx, BoardUpdate{
			LeagueID: cfg.ID,
			PeriodID: period.ID,
			Squads:   squads,
			Totals:   summary.SquadTotals,
			At:       asOf,
		})
	})
	if err != nil {
		return scoring.WeekSummary{}, fmt.Errorf("persist week results: %w", err)
	}

	s.logger.InfoContext(ctx, "week calculated",
		"league_id", cfg.ID,
		"period_id", period.ID,
		"period_index", period.Index,
		"matches", len(matches),
		"squads", len(squads),
		"member_scores", summary.MemberScores,
		"duration", time.Since(started),
	)
	return summary, nil
}

// matchesFor uses the period's explicit links, or matches dated within the period window.
func (s *ScoringService) matchesFor(ctx context.Context, period scoring.Period) ([]match.Match, error) {
	if len(period.MatchIDs) > 0 {
		items, err := s.results.ListByIDs(ctx, period.MatchIDs)
		if err != nil {
			return nil, fmt.Errorf("list linked matches: %w", err)
		}
		return items, nil
	}

	from, to := period.Window()
	items, err := s.results.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list matches in window: %w", err)
	}
	return items, nil
}

func (s *ScoringService) scoreSquads(
	ctx context.Context,
	cfg league.Config,
	period scoring.Period,
	matches []match.Match,
	squads []fantasy.Squad,
	asOf time.Time,
) ([]squadScore, error) {
	if len(squads) == 0 {
		return nil, nil
	}

	workers, err := ants.NewPool(min(s.opts.Workers, len(squads)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rules := cfg.EffectiveRules()
	captain := cfg.CaptainPolicy()
	out := make([]squadScore, len(squads))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for idx, squad := range squads {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			scored, err := s.scoreSquad(ctx, squad, period, matches, rules, captain, asOf)
			if err != nil {
				fail(fmt.Errorf("score squad=%s: %w", squad.ID, err))
				return
			}
			out[idx] = scored
		}); err != nil {
			wg.Done()
			fail(fmt.Errorf("submit squad scoring task: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (s *ScoringService) scoreSquad(
	ctx context.Context,
	squad fantasy.Squad,
	period scoring.Period,
	matches []match.Match,
	rules scoring.RuleSet,
	captain scoring.CaptainPolicy,
	asOf time.Time,
) (squadScore, error) {
	memberships, err := s.squadRepo.ListMemberships(ctx, squad.ID)
	if err != nil {
		return squadScore{}, fmt.Errorf("list memberships: %w", err)
	}

	out := squadScore{squad: squad}
	for _, m := range memberships {
		if !period.Overlaps(m.ActiveFrom, m.ActiveTo) {
			continue
		}
		score, err := s.scoreMember(ctx, m, matches, rules, captain)
		if err != nil {
			return squadScore{}, err
		}

		scoreID, err := s.idGen.NewID()
		if err != nil {
			return squadScore{}, fmt.Errorf("generate player score id: %w", err)
		}
		score.ID = scoreID
		score.SquadID = squad.ID
		score.PeriodID = period.ID
		score.CalculatedAt = asOf

		out.members = append(out.members, score)
		out.total += score.Points
	}
	return out, nil
}

// scoreMember computes one membership's points over the period's matches.
func (s *ScoringService) scoreMember(
	ctx context.Context,
	m fantasy.Membership,
	matches []match.Match,
	rules scoring.RuleSet,
	captain scoring.CaptainPolicy,
) (scoring.WeeklyPlayerScore, error) {
	p, exists, err := s.registry.GetByID(ctx, m.PlayerID)
	if err != nil {
		return scoring.WeeklyPlayerScore{}, fmt.Errorf("get player=%s: %w", m.PlayerID, err)
	}
	if !exists {
		return scoring.WeeklyPlayerScore{}, fmt.Errorf("%w: player=%s membership=%s", ErrNotFound, m.PlayerID, m.ID)
	}

	var line match.StatLine
	if len(matches) > 0 {
		line, err = s.results.PlayerTotals(ctx, p.ID, match.IDs(matches))
		if err != nil {
			return scoring.WeeklyPlayerScore{}, fmt.Errorf("sum player stats player=%s: %w", p.ID, err)
		}
	}

	sheets, err := s.cleanSheets(ctx, p, matches)
	if err != nil {
		return scoring.WeeklyPlayerScore{}, err
	}

	base, breakdown := scoring.Calculate(rules, p.Position, scoring.Counts(line, sheets))
	points, multiplier := captain.Apply(base, m.IsCaptain)

	return scoring.WeeklyPlayerScore{
		MembershipID: m.ID,
		PlayerID:     p.ID,
		Points:       points,
		BasePoints:   base,
		Multiplier:   multiplier,
		Breakdown:    breakdown,
	}, nil
}

func (s *ScoringService) cleanSheets(ctx context.Context, p player.Player, matches []match.Match) (int, error) {
	if !p.Position.Known() {
		return 0, nil
	}

	count := 0
	for _, m := range matches {
		teamID, ok, err := s.registry.TeamForSeason(ctx, p.ID, m.SeasonID)
		if err != nil {
			return 0, fmt.Errorf("resolve team player=%s season=%s: %w", p.ID, m.SeasonID, err)
		}
		if !ok {
			continue
		}
		conceded, played := m.Conceded(teamID)
		if !played || conceded != 0 {
			continue
		}

		inLineup, err := s.results.InLineup(ctx, m.ID, teamID, p.ID)
		if err != nil {
			return 0, fmt.Errorf("check lineup match=%s player=%s: %w", m.ID, p.ID, err)
		}
		if scoring.CountCleanSheet(p.Position, m, teamID, inLineup) {
			count++
		}
	}
	return count, nil
}
