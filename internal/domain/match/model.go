package match

import "time"

// Match is one real fixture as reported by the data feed.
type Match struct {
	ID         string
	SeasonID   string
	Date       time.Time
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
}

// Conceded returns goals conceded by teamID and whether the team played in the match.
func (m Match) Conceded(teamID string) (int, bool) {
	switch teamID {
	case "":
		return 0, false
	case m.HomeTeamID:
		return m.AwayScore, true
	case m.AwayTeamID:
		return m.HomeScore, true
	default:
		return 0, false
	}
}

// StatLine holds a player's summed counting stats over a set of matches.
type StatLine struct {
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
}

func (s StatLine) Add(other StatLine) StatLine {
	return StatLine{
		Goals:       s.Goals + other.Goals,
		Assists:     s.Assists + other.Assists,
		YellowCards: s.YellowCards + other.YellowCards,
		RedCards:    s.RedCards + other.RedCards,
	}
}

// PlayerStat is one player's line for one match.
type PlayerStat struct {
	MatchID  string
	PlayerID string
	StatLine
}

// Lineup lists the players a team fielded in a match.
type Lineup struct {
	MatchID   string
	TeamID    string
	PlayerIDs []string
}

func (l Lineup) Contains(playerID string) bool {
	for _, id := range l.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// IDs returns the match ids in input order.
func IDs(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}
