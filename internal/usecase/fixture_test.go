package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

const (
	testLeagueID = "lg-test"
	testSeasonID = "season-2026"
	testWeek1    = "lg-test-w01"
	testWeek2    = "lg-test-w02"
)

var (
	preSeason     = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	midWeek1      = time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	week1Deadline = time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	midWeek2      = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

func testLeague() league.Config {
	cfg := league.DefaultConfig(
		testLeagueID,
		"Test League",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
	)
	cfg.BudgetCap = 100
	cfg.SquadSizeLimit = 3
	cfg.TransferLimitPerWeek = 1
	cfg.MaxPlayersPerRealTeam = 2
	return cfg
}

func testPlayers() []player.Player {
	return []player.Player{
		{ID: "p-fw", Name: "Forward", Position: player.PositionForward, Price: 10, TeamID: "team-a"},
		{ID: "p-mf", Name: "Midfielder", Position: player.PositionMidfielder, Price: 20, TeamID: "team-a"},
		{ID: "p-gk", Name: "Keeper", Position: player.PositionGoalkeeper, Price: 12, TeamID: "team-a"},
		{ID: "p-df", Name: "Defender", Position: player.PositionDefender, Price: 15, TeamID: "team-b"},
		{ID: "p-star", Name: "Star", Position: player.PositionForward, Price: 95, TeamID: "team-c"},
	}
}

func testPeriods() []scoring.Period {
	return []scoring.Period{
		{
			ID:        testWeek1,
			LeagueID:  testLeagueID,
			Index:     1,
			Name:      "Week 1",
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			Deadline:  week1Deadline,
			MatchIDs:  []string{"m-1"},
		},
		{
			ID:        testWeek2,
			LeagueID:  testLeagueID,
			Index:     2,
			Name:      "Week 2",
			StartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			Deadline:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		},
	}
}

// testResults: team-a beat team-b 1-0 in week 1. The forward scored and
// assisted; the defender was sent off. Week 2 has a goalless draw.
func testResults() *memory.MatchRepository {
	return memory.NewMatchRepository(
		[]match.Match{
			{ID: "m-1", SeasonID: testSeasonID, Date: time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC), HomeTeamID: "team-a", AwayTeamID: "team-b", HomeScore: 1, AwayScore: 0},
			{ID: "m-2", SeasonID: testSeasonID, Date: time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC), HomeTeamID: "team-b", AwayTeamID: "team-c", HomeScore: 0, AwayScore: 0},
		},
		[]match.PlayerStat{
			{MatchID: "m-1", PlayerID: "p-fw", StatLine: match.StatLine{Goals: 1, Assists: 1}},
			{MatchID: "m-1", PlayerID: "p-df", StatLine: match.StatLine{RedCards: 1}},
		},
		[]match.Lineup{
			{MatchID: "m-1", TeamID: "team-a", PlayerIDs: []string{"p-fw", "p-mf", "p-gk"}},
			{MatchID: "m-1", TeamID: "team-b", PlayerIDs: []string{"p-df"}},
			{MatchID: "m-2", TeamID: "team-b", PlayerIDs: []string{"p-df"}},
		},
	)
}

type testEnv struct {
	leagues  *memory.LeagueRepository
	registry *memory.PlayerRegistry
	results  *memory.MatchRepository
	squads   *memory.SquadRepository
	scores   *memory.ScoringRepository
	roster   *RosterService
	board    *LeaderboardService
	scoring  *ScoringService
	clock    *time.Time
}

func newTestEnv(t *testing.T, mode CumulativeMode, leagues ...league.Config) *testEnv {
	t.Helper()

	if len(leagues) == 0 {
		leagues = []league.Config{testLeague()}
	}
	players := testPlayers()
	registrations := make([]player.SeasonRegistration, 0, len(players))
	for _, p := range players {
		registrations = append(registrations, player.SeasonRegistration{PlayerID: p.ID, SeasonID: testSeasonID, TeamID: p.TeamID})
	}

	clock := preSeason
	env := &testEnv{
		leagues:  memory.NewLeagueRepository(leagues),
		registry: memory.NewPlayerRegistry(players, registrations),
		results:  testResults(),
		squads:   memory.NewSquadRepository(),
		scores:   memory.NewScoringRepository(testPeriods()),
		clock:    &clock,
	}
	now := func() time.Time { return *env.clock }
	logger := logging.NewNop()

	env.roster = NewRosterService(env.leagues, env.registry, env.scores, env.squads, idgen.NewSequenceGenerator("id"), logger).
		WithClock(now)
	env.board = NewLeaderboardService(env.scores, idgen.NewSequenceGenerator("lb"), mode, logger)
	env.scoring = NewScoringService(env.leagues, env.registry, env.results, env.squads, env.scores, env.board,
		idgen.NewSequenceGenerator("score"), logger, ScoringOptions{Workers: 2, LeagueConcurrency: 2}).
		WithClock(now)
	return env
}

func (e *testEnv) setNow(t time.Time) {
	*e.clock = t
}
