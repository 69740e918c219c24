package response

import (
	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/registry"
)

// Status mirrors the TCP STATUS block: registry entity counts.
type Status struct {
	Players    int `json:"players"`
	Teams      int `json:"teams"`
	Challenges int `json:"challenges"`
}

// StatusFromCounts converts registry counts to a response Status
func StatusFromCounts(c registry.Counts) Status {
	return Status{
		Players:    c.Players,
		Teams:      c.Teams,
		Challenges: c.Challenges,
	}
}

// TeamScore is one scoreboard row
type TeamScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Scoreboard mirrors the TCP SCOREBOARD block
type Scoreboard struct {
	Teams []TeamScore `json:"teams"`
}

// ScoreboardFromScores converts registry scoreboard rows
func ScoreboardFromScores(scores []registry.TeamScore) Scoreboard {
	teams := make([]TeamScore, len(scores))
	for i, s := range scores {
		teams[i] = TeamScore{Name: s.Name, Score: s.Score}
	}
	return Scoreboard{Teams: teams}
}

// Challenge mirrors the TCP FLAG diagnostic listing, with names and points
// alongside the raw flags.
type Challenge struct {
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Points int    `json:"points"`
}

// ChallengesFromModel converts model challenges
func ChallengesFromModel(challenges []*model.Challenge) []Challenge {
	out := make([]Challenge, len(challenges))
	for i, c := range challenges {
		out[i] = Challenge{Name: c.Name, Flag: c.Flag, Points: c.Points}
	}
	return out
}
