package storage

import (
	"context"

	"github.com/mcoot/askgod-go/internal/model"
)

// Storage defines the interface for registry state. The game state lives for
// the duration of the process only; there is deliberately no delete for
// players or teams.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Team operations
	SaveTeam(ctx context.Context, team *model.Team) error
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)
	ListTeams(ctx context.Context) ([]*model.Team, error)

	// Challenge operations
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallengeByFlag(ctx context.Context, flag string) (*model.Challenge, error)
	ListChallenges(ctx context.Context) ([]*model.Challenge, error)
}
