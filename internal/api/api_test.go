package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/askgod-go/internal/api"
	"github.com/mcoot/askgod-go/internal/api/response"
	"github.com/mcoot/askgod-go/internal/dependencies/mocks"
	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/registry"
	"github.com/mcoot/askgod-go/internal/storage/memory"
	"github.com/mcoot/askgod-go/internal/testutil"
)

type APISuite struct {
	suite.Suite
	registry *registry.Service
	server   *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	ctx := context.Background()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(memory.New(), clk, testutil.NopLogger())
	s.Require().NoError(s.registry.SeedChallenges(ctx, []model.Challenge{
		{Name: "[Easy]", Flag: "CTF-ABC", Points: 10},
		{Name: "[Hard]", Flag: "CTF-XYZ", Points: 30},
	}))

	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: s.registry,
	}))
	s.T().Cleanup(s.server.Close)
}

func (s *APISuite) get(path string, out any) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *APISuite) seedCapture() {
	ctx := context.Background()
	_, _, err := s.registry.RegisterOrAuthenticatePlayer(ctx, "alice", "pw")
	s.Require().NoError(err)
	_, _, err = s.registry.RegisterOrJoinTeam(ctx, "teamA", "tpw", "alice")
	s.Require().NoError(err)
	_, err = s.registry.SubmitFlag(ctx, "alice", "CTF-XYZ")
	s.Require().NoError(err)
}

func (s *APISuite) TestHealth() {
	var body map[string]string
	resp := s.get("/api/v1/health", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))
	s.Equal(map[string]string{"status": "ok"}, body)
}

func (s *APISuite) TestStatus() {
	s.seedCapture()

	var body response.Status
	resp := s.get("/api/v1/status", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(response.Status{Players: 1, Teams: 1, Challenges: 2}, body)
}

func (s *APISuite) TestScoreboard() {
	s.seedCapture()

	var body response.Scoreboard
	resp := s.get("/api/v1/scoreboard", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(response.Scoreboard{
		Teams: []response.TeamScore{{Name: "teamA", Score: 30}},
	}, body)
}

func (s *APISuite) TestChallenges() {
	var body []response.Challenge
	resp := s.get("/api/v1/challenges", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal([]response.Challenge{
		{Name: "[Easy]", Flag: "CTF-ABC", Points: 10},
		{Name: "[Hard]", Flag: "CTF-XYZ", Points: 30},
	}, body)
}

func (s *APISuite) TestUnknownRouteIs404() {
	resp := s.get("/api/v1/nope", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestMutationMethodRejected() {
	resp, err := http.Post(s.server.URL+"/api/v1/status", "application/json", nil)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}
