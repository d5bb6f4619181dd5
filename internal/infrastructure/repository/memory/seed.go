package memory

import (
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/match"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
)

const (
	LeagueIDLiga1Indonesia = "idn-liga-1-2026"
	SeasonIDLiga1Indonesia = "idn-liga-1-2026"
)

// Seed is a small demo dataset used by the memory storage driver.
type Seed struct {
	Leagues       []league.Config
	Players       []player.Player
	Registrations []player.SeasonRegistration
	Matches       []match.Match
	Stats         []match.PlayerStat
	Lineups       []match.Lineup
	Periods       []scoring.Period
}

func DemoSeed() Seed {
	return Seed{
		Leagues:       SeedLeagues(),
		Players:       SeedPlayers(),
		Registrations: SeedRegistrations(),
		Matches:       SeedMatches(),
		Stats:         SeedStats(),
		Lineups:       SeedLineups(),
		Periods:       SeedPeriods(),
	}
}

func SeedLeagues() []league.Config {
	cfg := league.DefaultConfig(
		LeagueIDLiga1Indonesia,
		"Liga 1 Indonesia Fantasy",
		time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
	)
	return []league.Config{cfg}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "idn-gk-01", TeamID: "idn-persija", Name: "Andritany Ardhiyasa", Position: player.PositionGoalkeeper, Price: 9_000_000},
		{ID: "idn-gk-02", TeamID: "idn-persib", Name: "Teja Paku Alam", Position: player.PositionGoalkeeper, Price: 8_500_000},
		{ID: "idn-def-01", TeamID: "idn-persija", Name: "Hansamu Yama", Position: player.PositionDefender, Price: 8_800_000},
		{ID: "idn-def-02", TeamID: "idn-persib", Name: "Nick Kuipers", Position: player.PositionDefender, Price: 9_200_000},
		{ID: "idn-def-03", TeamID: "idn-persebaya", Name: "Dusan Stevanovic", Position: player.PositionDefender, Price: 8_400_000},
		{ID: "idn-def-04", TeamID: "idn-baliutd", Name: "Ricky Fajrin", Position: player.PositionDefender, Price: 8_000_000},
		{ID: "idn-mid-01", TeamID: "idn-persija", Name: "Maciej Gajos", Position: player.PositionMidfielder, Price: 9_800_000},
		{ID: "idn-mid-02", TeamID: "idn-persib", Name: "Marc Klok", Position: player.PositionMidfielder, Price: 9_900_000},
		{ID: "idn-mid-03", TeamID: "idn-persebaya", Name: "Bruno Moreira", Position: player.PositionMidfielder, Price: 9_500_000},
		{ID: "idn-mid-04", TeamID: "idn-baliutd", Name: "Eber Bessa", Position: player.PositionMidfielder, Price: 9_700_000},
		{ID: "idn-fwd-01", TeamID: "idn-persija", Name: "Gustavo Almeida", Position: player.PositionForward, Price: 10_500_000},
		{ID: "idn-fwd-02", TeamID: "idn-persib", Name: "David da Silva", Position: player.PositionForward, Price: 10_800_000},
		{ID: "idn-fwd-03", TeamID: "idn-persebaya", Name: "Paulo Henrique", Position: player.PositionForward, Price: 10_000_000},
	}
}

func SeedRegistrations() []player.SeasonRegistration {
	players := SeedPlayers()
	out := make([]player.SeasonRegistration, 0, len(players))
	for _, p := range players {
		out = append(out, player.SeasonRegistration{PlayerID: p.ID, SeasonID: SeasonIDLiga1Indonesia, TeamID: p.TeamID})
	}
	return out
}

func SeedMatches() []match.Match {
	return []match.Match{
		{ID: "mt-idn-001", SeasonID: SeasonIDLiga1Indonesia, Date: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC), HomeTeamID: "idn-persija", AwayTeamID: "idn-persib", HomeScore: 2, AwayScore: 0},
		{ID: "mt-idn-002", SeasonID: SeasonIDLiga1Indonesia, Date: time.Date(2026, 2, 15, 12, 30, 0, 0, time.UTC), HomeTeamID: "idn-persebaya", AwayTeamID: "idn-baliutd", HomeScore: 1, AwayScore: 1},
		{ID: "mt-idn-003", SeasonID: SeasonIDLiga1Indonesia, Date: time.Date(2026, 2, 21, 12, 30, 0, 0, time.UTC), HomeTeamID: "idn-persib", AwayTeamID: "idn-persebaya", HomeScore: 0, AwayScore: 0},
		{ID: "mt-idn-004", SeasonID: SeasonIDLiga1Indonesia, Date: time.Date(2026, 2, 22, 12, 30, 0, 0, time.UTC), HomeTeamID: "idn-baliutd", AwayTeamID: "idn-persija", HomeScore: 1, AwayScore: 3},
	}
}

func SeedStats() []match.PlayerStat {
	return []match.PlayerStat{
		{MatchID: "mt-idn-001", PlayerID: "idn-fwd-01", StatLine: match.StatLine{Goals: 1}},
		{MatchID: "mt-idn-001", PlayerID: "idn-mid-01", StatLine: match.StatLine{Goals: 1, Assists: 1}},
		{MatchID: "mt-idn-001", PlayerID: "idn-def-02", StatLine: match.StatLine{YellowCards: 1}},
		{MatchID: "mt-idn-002", PlayerID: "idn-mid-03", StatLine: match.StatLine{Goals: 1}},
		{MatchID: "mt-idn-002", PlayerID: "idn-mid-04", StatLine: match.StatLine{Goals: 1}},
		{MatchID: "mt-idn-002", PlayerID: "idn-def-04", StatLine: match.StatLine{RedCards: 1}},
		{MatchID: "mt-idn-004", PlayerID: "idn-fwd-01", StatLine: match.StatLine{Goals: 2}},
		{MatchID: "mt-idn-004", PlayerID: "idn-mid-01", StatLine: match.StatLine{Goals: 1, Assists: 2}},
		{MatchID: "mt-idn-004", PlayerID: "idn-mid-04", StatLine: match.StatLine{Goals: 1}},
	}
}

func SeedLineups() []match.Lineup {
	return []match.Lineup{
		{MatchID: "mt-idn-001", TeamID: "idn-persija", PlayerIDs: []string{"idn-gk-01", "idn-def-01", "idn-mid-01", "idn-fwd-01"}},
		{MatchID: "mt-idn-001", TeamID: "idn-persib", PlayerIDs: []string{"idn-gk-02", "idn-def-02", "idn-mid-02", "idn-fwd-02"}},
		{MatchID: "mt-idn-002", TeamID: "idn-persebaya", PlayerIDs: []string{"idn-def-03", "idn-mid-03", "idn-fwd-03"}},
		{MatchID: "mt-idn-002", TeamID: "idn-baliutd", PlayerIDs: []string{"idn-def-04", "idn-mid-04"}},
		{MatchID: "mt-idn-003", TeamID: "idn-persib", PlayerIDs: []string{"idn-gk-02", "idn-def-02", "idn-mid-02", "idn-fwd-02"}},
		{MatchID: "mt-idn-003", TeamID: "idn-persebaya", PlayerIDs: []string{"idn-def-03", "idn-mid-03", "idn-fwd-03"}},
		{MatchID: "mt-idn-004", TeamID: "idn-baliutd", PlayerIDs: []string{"idn-def-04", "idn-mid-04"}},
		{MatchID: "mt-idn-004", TeamID: "idn-persija", PlayerIDs: []string{"idn-gk-01", "idn-def-01", "idn-mid-01", "idn-fwd-01"}},
	}
}

func SeedPeriods() []scoring.Period {
	return []scoring.Period{
		{
			ID:        "idn-2026-w01",
			LeagueID:  LeagueIDLiga1Indonesia,
			Index:     1,
			Name:      "Gameweek 1",
			StartDate: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			Deadline:  time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "idn-2026-w02",
			LeagueID:  LeagueIDLiga1Indonesia,
			Index:     2,
			Name:      "Gameweek 2",
			StartDate: time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC),
			Deadline:  time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC),
			MatchIDs:  []string{"mt-idn-003", "mt-idn-004"},
		},
	}
}
