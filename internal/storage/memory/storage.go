package memory

import (
	"context"
	"sync"

	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Insertion order is preserved for the List operations so that STATUS,
// SCOREBOARD and FLAG render in a stable order.
type Storage struct {
	mu sync.RWMutex

	players     map[string]*model.Player
	playerOrder []string
	teams       map[string]*model.Team
	teamOrder   []string
	challenges  []*model.Challenge
	flagIndex   map[string]*model.Challenge
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[string]*model.Player),
		teams:     make(map[string]*model.Team),
		flagIndex: make(map[string]*model.Challenge),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[player.Name]; !exists {
		s.playerOrder = append(s.playerOrder, player.Name)
	}
	s.players[player.Name] = player
	return nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, name := range s.playerOrder {
		players = append(players, s.players[name])
	}
	return players, nil
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.teams[team.Name]; !exists {
		s.teamOrder = append(s.teamOrder, team.Name)
	}
	s.teams[team.Name] = team
	return nil
}

func (s *Storage) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[name]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return team, nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]*model.Team, 0, len(s.teamOrder))
	for _, name := range s.teamOrder {
		teams = append(teams, s.teams[name])
	}
	return teams, nil
}

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = append(s.challenges, challenge)
	// First match wins: never overwrite an existing flag mapping.
	if _, exists := s.flagIndex[challenge.Flag]; !exists {
		s.flagIndex[challenge.Flag] = challenge
	}
	return nil
}

func (s *Storage) GetChallengeByFlag(ctx context.Context, flag string) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.flagIndex[flag]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Storage) ListChallenges(ctx context.Context) ([]*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenges := make([]*model.Challenge, len(s.challenges))
	copy(challenges, s.challenges)
	return challenges, nil
}
