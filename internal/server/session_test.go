package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/askgod-go/internal/dependencies/mocks"
	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/registry"
	"github.com/mcoot/askgod-go/internal/storage/memory"
	"github.com/mcoot/askgod-go/internal/testutil"
	"github.com/mcoot/askgod-go/internal/wire"
)

const readWait = 2 * time.Second

type SessionSuite struct {
	suite.Suite
	registry *registry.Service
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(memory.New(), clk, testutil.NopLogger())
	s.Require().NoError(s.registry.SeedChallenges(context.Background(), []model.Challenge{
		{Name: "[Easy]", Flag: "CTF-ABC", Points: 10},
		{Name: "[Hard]", Flag: "CTF-XYZ", Points: 30},
	}))
}

// client is the test-side end of a piped session.
type client struct {
	s      *SessionSuite
	conn   net.Conn
	framer *wire.Framer
}

// startSession wires a session over net.Pipe and returns the client end.
// The banner is consumed so tests start at the command loop.
func (s *SessionSuite) startSession() *client {
	serverEnd, clientEnd := net.Pipe()
	sess := newSession(serverEnd, s.registry, testutil.NopLogger())
	go sess.run()

	c := &client{s: s, conn: clientEnd, framer: wire.New(clientEnd)}
	s.T().Cleanup(func() { _ = clientEnd.Close() })
	s.Require().Equal(Banner, c.readLine())
	return c
}

func (c *client) send(line string) {
	c.s.Require().True(c.framer.WriteLine(line))
}

func (c *client) readLine() string {
	line, ok, timedOut := c.framer.ReadLineTimeout(readWait)
	c.s.Require().False(timedOut, "timed out waiting for a response line")
	c.s.Require().True(ok, "connection closed while waiting for a response line")
	return line
}

func (c *client) exchange(command string) string {
	c.send(command)
	return c.readLine()
}

// readBlock reads lines until the empty terminator, returning the block
// without it.
func (c *client) readBlock() []string {
	var lines []string
	for {
		line := c.readLine()
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func (c *client) register(name string) {
	c.s.Require().Equal("200 | Nouveau joueur créer !", c.exchange("REG | "+name+" pw-"+name))
}

func (c *client) joinTeam(team string) string {
	return c.exchange("REGTEAM | " + team + " tpw")
}

// REG

func (s *SessionSuite) TestBannerOnConnect() {
	s.startSession() // banner asserted inside
}

func (s *SessionSuite) TestRegCreatesPlayer() {
	c := s.startSession()
	s.Equal("200 | Nouveau joueur créer !", c.exchange("REG | alice pw1"))
}

func (s *SessionSuite) TestRegAuthenticatesExistingPlayer() {
	first := s.startSession()
	first.register("alice")

	second := s.startSession()
	s.Equal("200 | OK vous etes connecté", second.exchange("REG | alice pw-alice"))
}

func (s *SessionSuite) TestRegWrongSecret() {
	first := s.startSession()
	first.register("alice")

	second := s.startSession()
	s.Equal("400 | FAIL MAUVAIS MOT DE PASSE", second.exchange("REG | alice nope"))
}

func (s *SessionSuite) TestRegMissingArgument() {
	c := s.startSession()
	s.Equal("400 | FAIL MAUVAIS ENVOI", c.exchange("REG |"))
	s.Equal("400 | FAIL MAUVAIS ENVOI", c.exchange("REG"))
}

func (s *SessionSuite) TestRegMissingSecret() {
	c := s.startSession()
	s.Equal("400 | FAIL MAUVAIS ENVOI, il vous manque un mot de passe", c.exchange("REG | alice"))
}

func (s *SessionSuite) TestRegRecoversAfterFailure() {
	c := s.startSession()
	s.Equal("400 | FAIL MAUVAIS ENVOI", c.exchange("REG |"))
	s.Equal("200 | Nouveau joueur créer !", c.exchange("REG | alice pw1"))
}

// REGTEAM

func (s *SessionSuite) TestRegTeamRequiresPlayer() {
	c := s.startSession()
	s.Equal("400 | FAIL veuillez vous enregistrer avant (REG)", c.exchange("REGTEAM | teamA tpw"))
}

func (s *SessionSuite) TestRegTeamCreatesTeam() {
	c := s.startSession()
	c.register("alice")
	s.Equal("200 | Nouvelle équipe créer : teamA", c.joinTeam("teamA"))
}

func (s *SessionSuite) TestRegTeamJoinsExistingTeam() {
	first := s.startSession()
	first.register("alice")
	first.joinTeam("teamA")

	second := s.startSession()
	second.register("mike")
	s.Equal("200 | OK vous etes ajouté à teamA", second.joinTeam("teamA"))
}

func (s *SessionSuite) TestRegTeamWrongSecret() {
	first := s.startSession()
	first.register("alice")
	first.joinTeam("teamA")

	second := s.startSession()
	second.register("mike")
	s.Equal("400 | FAIL MAUVAIS MOT DE PASSE pour teamA", second.exchange("REGTEAM | teamA wrong"))
}

func (s *SessionSuite) TestRegTeamAlreadyInTeam() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")
	s.Equal("400 | FAIL vous appartenez déjà à une équipe", c.exchange("REGTEAM | teamB other"))
}

// SUBMIT

func (s *SessionSuite) TestSubmitRequiresPlayer() {
	c := s.startSession()
	s.Equal("400 | FAIL veuillez vous enregistrer avant (REG)", c.exchange("SUBMIT | CTF-ABC"))
}

func (s *SessionSuite) TestSubmitRequiresTeam() {
	c := s.startSession()
	c.register("alice")
	s.Equal("400 | FAIL veuillez rejoindre une équipe avant (REGTEAM)", c.exchange("SUBMIT | CTF-ABC"))
}

func (s *SessionSuite) TestSubmitValidFlag() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")

	s.Equal("200 | CTF-ABC valide, avec un score de : 10", c.exchange("SUBMIT | CTF-ABC"))
	// First capture fans the announcement out, including to the submitter.
	s.Equal("La team teamA vine de remporter un flag", c.readLine())
}

func (s *SessionSuite) TestSubmitInvalidFlag() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")
	s.Equal("401 | CTF-NOPE invalide", c.exchange("SUBMIT | CTF-NOPE"))
}

func (s *SessionSuite) TestResubmitNoSecondAnnouncement() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")

	c.exchange("SUBMIT | CTF-ABC")
	c.readLine() // announcement

	s.Equal("200 | CTF-ABC valide, avec un score de : 10", c.exchange("SUBMIT | CTF-ABC"))
	// No announcement this time: the next line answers the next command.
	block := c.exchange("SCOREBOARD")
	s.Equal("246", block)
	s.Equal([]string{"---SCORE Équipes ---", "Équipe teamA score : 10"}, c.readBlock())
}

func (s *SessionSuite) TestSubmitBroadcastsToOtherSessions() {
	observer := s.startSession()
	observer.register("mike")

	submitter := s.startSession()
	submitter.register("alice")
	submitter.joinTeam("teamA")

	// The notifier fan-out order is not fixed and pipe writes are
	// synchronous, so both ends must be read concurrently.
	observed := make(chan string, 1)
	go func() { observed <- observer.readLine() }()

	s.Equal("200 | CTF-XYZ valide, avec un score de : 30", submitter.exchange("SUBMIT | CTF-XYZ"))
	s.Equal("La team teamA vine de remporter un flag", submitter.readLine())

	select {
	case line := <-observed:
		s.Equal("La team teamA vine de remporter un flag", line)
	case <-time.After(readWait):
		s.Fail("observer never received the announcement")
	}
}

// STATUS / HISTORY / SCOREBOARD / FLAG

func (s *SessionSuite) TestStatusBlock() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")

	s.Equal("247 | Nombre de joueurs enregistré : 1", c.exchange("STATUS"))
	s.Equal([]string{
		"Nombre d'équipes enregistré : 1",
		"Nombre de défis : 2",
	}, c.readBlock())
}

func (s *SessionSuite) TestStatusBlockWithZeroCounts() {
	c := s.startSession()
	s.Equal("247 | Nombre de joueurs enregistré : 0", c.exchange("STATUS"))
	s.Equal([]string{
		"Nombre d'équipes enregistré : 0",
		"Nombre de défis : 2",
	}, c.readBlock())
}

func (s *SessionSuite) TestHistoryRequiresPlayer() {
	c := s.startSession()
	s.Equal("400 | FAIL veuillez vous enregistrer avant (REG)", c.exchange("HISTORY"))
}

func (s *SessionSuite) TestHistoryEmpty() {
	c := s.startSession()
	c.register("alice")

	s.Equal("245 | Historique pour : alice", c.exchange("HISTORY"))
	s.Equal([]string{"Aucun flag n'a été capturé."}, c.readBlock())
}

func (s *SessionSuite) TestHistoryWithSubmissions() {
	c := s.startSession()
	c.register("alice")
	c.joinTeam("teamA")
	c.exchange("SUBMIT | CTF-ABC")
	c.readLine() // announcement
	c.exchange("SUBMIT | CTF-NOPE")

	s.Equal("245 | Historique pour : alice", c.exchange("HISTORY"))
	s.Equal([]string{
		"CTF-ABC",
		"CTF-NOPE",
		"Pour un total de 2 flags.",
		"50.0% des flags envoyer on été reussi!",
	}, c.readBlock())
}

func (s *SessionSuite) TestScoreboardEmpty() {
	c := s.startSession()
	s.Equal("246", c.exchange("SCOREBOARD"))
	s.Equal([]string{"---SCORE Équipes ---"}, c.readBlock())
}

func (s *SessionSuite) TestFlagListsChallenges() {
	c := s.startSession()
	s.Equal("245", c.exchange("FLAG"))
	s.Equal([]string{"CTF-ABC", "CTF-XYZ"}, c.readBlock())
}

// Dispatch edges

func (s *SessionSuite) TestUnknownVerb() {
	c := s.startSession()
	s.Equal("400 | Erreur", c.exchange("BOGUS | whatever"))
}

func (s *SessionSuite) TestVerbIsCaseInsensitive() {
	c := s.startSession()
	s.Equal("200 | Nouveau joueur créer !", c.exchange("reg | alice pw1"))
}

func (s *SessionSuite) TestEmptyLineIsAnError() {
	c := s.startSession()
	s.Equal("400 | Erreur", c.exchange(""))
}

func TestServerStartShutdown(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := registry.New(memory.New(), clk, testutil.NopLogger())
	srv := New(reg, Config{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 2 * time.Second}, testutil.NopLogger())

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	var addr string
	for i := 0; i < 100; i++ {
		if addr = srv.Addr(); addr != "" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if addr == "" {
		t.Fatal("server never bound a listener")
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	framer := wire.New(conn)
	banner, ok, timedOut := framer.ReadLineTimeout(readWait)
	if timedOut || !ok {
		t.Fatalf("no banner: ok=%v timedOut=%v", ok, timedOut)
	}
	if banner != Banner {
		t.Fatalf("unexpected banner %q", banner)
	}
	_ = conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-serveErr; err != nil {
		t.Fatalf("serve returned %v", err)
	}

	if _, err := net.Dial("tcp", addr); err == nil {
		t.Fatal("listener still accepting after shutdown")
	}
}
