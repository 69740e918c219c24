package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/askgod-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{Name: "alice", Secret: "pw1"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayerByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player, got)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayerByName(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersPreservesInsertionOrder() {
	for _, name := range []string{"zoe", "alice", "mike"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{Name: name}))
	}

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("zoe", players[0].Name)
	s.Equal("alice", players[1].Name)
	s.Equal("mike", players[2].Name)
}

func (s *StorageSuite) TestResavePlayerDoesNotDuplicate() {
	player := &model.Player{Name: "alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}

// Team tests

func (s *StorageSuite) TestSaveAndGetTeam() {
	team := &model.Team{Name: "teamA", Secret: "tpw"}
	s.Require().NoError(s.storage.SaveTeam(s.ctx, team))

	got, err := s.storage.GetTeamByName(s.ctx, "teamA")
	s.Require().NoError(err)
	s.Equal(team, got)
}

func (s *StorageSuite) TestGetTeamNotFound() {
	_, err := s.storage.GetTeamByName(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

// Challenge tests

func (s *StorageSuite) TestGetChallengeByFlag() {
	challenge := &model.Challenge{Name: "[Test]", Flag: "CTF-ABC", Points: 10}
	s.Require().NoError(s.storage.SaveChallenge(s.ctx, challenge))

	got, err := s.storage.GetChallengeByFlag(s.ctx, "CTF-ABC")
	s.Require().NoError(err)
	s.Equal(challenge, got)
}

func (s *StorageSuite) TestGetChallengeByFlagNoMatch() {
	_, err := s.storage.GetChallengeByFlag(s.ctx, "CTF-NOPE")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *StorageSuite) TestDuplicateFlagFirstMatchWins() {
	first := &model.Challenge{Name: "[First]", Flag: "CTF-DUP", Points: 10}
	second := &model.Challenge{Name: "[Second]", Flag: "CTF-DUP", Points: 99}
	s.Require().NoError(s.storage.SaveChallenge(s.ctx, first))
	s.Require().NoError(s.storage.SaveChallenge(s.ctx, second))

	got, err := s.storage.GetChallengeByFlag(s.ctx, "CTF-DUP")
	s.Require().NoError(err)
	s.Equal("[First]", got.Name)
	s.Equal(10, got.Points)

	challenges, err := s.storage.ListChallenges(s.ctx)
	s.Require().NoError(err)
	s.Len(challenges, 2)
}
