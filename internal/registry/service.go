package registry

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/askgod-go/internal/dependencies/clock"
	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/storage"
)

// Notifier receives out-of-band announcement lines, typically a session
// writing to its connection. Implementations must tolerate being called
// from another session's goroutine.
type Notifier interface {
	Notify(line string)
}

// Service is the shared game registry: the single source of truth for
// players, teams and challenges, shared by every session.
//
// Compound operations (check-then-insert, score crediting) run under a single
// coarse mutex so that two sessions racing on the same name resolve to
// exactly one created entity. At the expected scale (tens of players) this is
// much easier to reason about than fine-grained locking.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu        sync.Mutex
	notifiers map[string]Notifier
}

// SubmitResult reports the outcome of a flag submission.
type SubmitResult struct {
	Valid bool
	Score int
	// TeamName is the submitting player's team; set only when Valid.
	TeamName string
	// NewCredit is false when the flag was valid but the team had already
	// been credited for it, in which case the team score did not change.
	NewCredit bool
}

// TeamScore is one scoreboard row.
type TeamScore struct {
	Name  string
	Score int
}

// Counts holds the STATUS figures.
type Counts struct {
	Players    int
	Teams      int
	Challenges int
}

// New creates a new registry service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:   store,
		clock:     clk,
		logger:    logger.With(slog.String("component", "registry")),
		notifiers: make(map[string]Notifier),
	}
}

// SeedChallenges loads the challenge set. Called once at startup; the set is
// immutable afterwards.
func (s *Service) SeedChallenges(ctx context.Context, challenges []model.Challenge) error {
	for i := range challenges {
		c := challenges[i]
		if err := s.storage.SaveChallenge(ctx, &c); err != nil {
			return err
		}
	}
	s.logger.Info("challenges seeded", slog.Int("count", len(challenges)))
	return nil
}

// RegisterOrAuthenticatePlayer creates the player if the name is free, or
// authenticates against the stored secret if it is taken. The check and the
// insert happen under one critical section: two concurrent registrations for
// a new name yield exactly one created player, and both callers succeed.
func (s *Service) RegisterOrAuthenticatePlayer(ctx context.Context, name, secret string) (*model.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.storage.GetPlayerByName(ctx, name)
	if err == nil {
		if existing.Secret != secret {
			return nil, false, model.ErrWrongSecret
		}
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, false, err
	}

	player := &model.Player{
		Name:      name,
		Secret:    secret,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, false, err
	}
	s.logger.Info("player registered", slog.String("player", name))
	return player, true, nil
}

// RegisterOrJoinTeam creates the team if the name is free, or authenticates
// against the stored secret and joins it. A player already in a different
// team is rejected; re-joining the current team is an idempotent success.
func (s *Service) RegisterOrJoinTeam(ctx context.Context, name, secret, playerName string) (*model.Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayerByName(ctx, playerName)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.storage.GetTeamByName(ctx, name)
	if err == nil {
		if existing.Secret != secret {
			return nil, false, model.ErrWrongSecret
		}
		if player.TeamName != "" && player.TeamName != name {
			return nil, false, model.ErrAlreadyInTeam
		}
		if !existing.HasMember(playerName) {
			existing.Members = append(existing.Members, playerName)
			player.TeamName = name
		}
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrTeamNotFound) {
		return nil, false, err
	}

	if player.TeamName != "" {
		return nil, false, model.ErrAlreadyInTeam
	}

	team := &model.Team{
		Name:      name,
		Secret:    secret,
		CreatedAt: s.clock.Now(),
		Members:   []string{playerName},
		Credited:  make(map[string]bool),
	}
	if err := s.storage.SaveTeam(ctx, team); err != nil {
		return nil, false, err
	}
	player.TeamName = name
	s.logger.Info("team registered",
		slog.String("team", name),
		slog.String("player", playerName))
	return team, true, nil
}

// SubmitFlag records a submission for the player. The flag always goes into
// the player's history; a matching challenge increments the player's success
// count and credits the team's score unless the team already holds credit
// for that flag.
func (s *Service) SubmitFlag(ctx context.Context, playerName, flag string) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayerByName(ctx, playerName)
	if err != nil {
		return SubmitResult{}, err
	}
	if player.TeamName == "" {
		return SubmitResult{}, model.ErrNoTeam
	}
	team, err := s.storage.GetTeamByName(ctx, player.TeamName)
	if err != nil {
		return SubmitResult{}, err
	}

	player.History = append(player.History, flag)

	challenge, err := s.storage.GetChallengeByFlag(ctx, flag)
	if err != nil {
		if errors.Is(err, model.ErrChallengeNotFound) {
			return SubmitResult{Valid: false}, nil
		}
		return SubmitResult{}, err
	}

	player.Successes++
	result := SubmitResult{
		Valid:    true,
		Score:    challenge.Points,
		TeamName: team.Name,
	}
	if !team.Credited[flag] {
		team.Credited[flag] = true
		team.Score += challenge.Points
		result.NewCredit = true
		s.logger.Info("flag captured",
			slog.String("player", playerName),
			slog.String("team", team.Name),
			slog.String("challenge", challenge.Name),
			slog.Int("points", challenge.Points))
	}
	return result, nil
}

// ValidateFlag returns the point value of the challenge matching the flag,
// or 0 when no challenge matches.
func (s *Service) ValidateFlag(ctx context.Context, flag string) int {
	challenge, err := s.storage.GetChallengeByFlag(ctx, flag)
	if err != nil {
		return 0
	}
	return challenge.Points
}

// TeamOf returns the player's team, or model.ErrNoTeam.
func (s *Service) TeamOf(ctx context.Context, playerName string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayerByName(ctx, playerName)
	if err != nil {
		return nil, err
	}
	if player.TeamName == "" {
		return nil, model.ErrNoTeam
	}
	return s.storage.GetTeamByName(ctx, player.TeamName)
}

// History returns a snapshot of the player's submissions and success count.
func (s *Service) History(ctx context.Context, playerName string) ([]string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayerByName(ctx, playerName)
	if err != nil {
		return nil, 0, err
	}
	history := make([]string, len(player.History))
	copy(history, player.History)
	return history, player.Successes, nil
}

// Counts returns the STATUS figures.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return Counts{}, err
	}
	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return Counts{}, err
	}
	challenges, err := s.storage.ListChallenges(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{
		Players:    len(players),
		Teams:      len(teams),
		Challenges: len(challenges),
	}, nil
}

// Scoreboard returns every team and its score, best score first with the
// name as tiebreak.
func (s *Service) Scoreboard(ctx context.Context) ([]TeamScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	scores := make([]TeamScore, 0, len(teams))
	for _, team := range teams {
		scores = append(scores, TeamScore{Name: team.Name, Score: team.Score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Name < scores[j].Name
	})
	return scores, nil
}

// Challenges returns the seeded challenge set.
func (s *Service) Challenges(ctx context.Context) ([]*model.Challenge, error) {
	return s.storage.ListChallenges(ctx)
}

// Bind associates the player's live connection with its name. A later REG
// for the same player from another connection replaces the binding.
func (s *Service) Bind(playerName string, n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers[playerName] = n
}

// Unbind removes the binding, but only if it still points at n: the player
// may have re-registered from a newer connection in the meantime.
func (s *Service) Unbind(playerName string, n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notifiers[playerName] == n {
		delete(s.notifiers, playerName)
	}
}

// NotifyPlayers fans the line out to every bound connection. Fire and
// forget: a dead connection's write failure is the session's problem.
func (s *Service) NotifyPlayers(line string) {
	s.mu.Lock()
	targets := make([]Notifier, 0, len(s.notifiers))
	for _, n := range s.notifiers {
		targets = append(targets, n)
	}
	s.mu.Unlock()

	for _, n := range targets {
		n.Notify(line)
	}
}
