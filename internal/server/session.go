package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/protocol"
	"github.com/mcoot/askgod-go/internal/registry"
	"github.com/mcoot/askgod-go/internal/wire"
)

// Banner is sent immediately on connect, before any command.
const Banner = "201 Bienvenue vous avez été accepté dans le serveur ASK GOD number 1."

// FlagWonNotice is the out-of-band line fanned out to every bound player
// when a team captures a flag. Wording (typo included) kept for
// compatibility with existing clients.
const FlagWonNotice = "La team %s vine de remporter un flag"

// session is the per-connection protocol state machine. It starts
// unauthenticated, binds a player after a successful REG, and ends when the
// read side reports a disconnect. Malformed commands get a 400-class answer
// and the loop continues.
type session struct {
	conn   net.Conn
	framer *wire.Framer
	reg    *registry.Service
	logger *slog.Logger

	// player is nil until REG succeeds
	player *model.Player

	// writeMu serializes command responses against broadcast notifications
	// arriving from other sessions' goroutines.
	writeMu sync.Mutex
}

func newSession(conn net.Conn, reg *registry.Service, logger *slog.Logger) *session {
	remote := conn.RemoteAddr().String()
	sessLogger := logger.With(slog.String("remote", remote))
	return &session{
		conn:   conn,
		framer: wire.New(conn, wire.WithLogger(sessLogger)),
		reg:    reg,
		logger: sessLogger,
	}
}

// run drives the read-dispatch-respond loop until the client disconnects or
// a fatal transport fault ends the read side. Write failures alone never end
// the loop; the subsequent read observes the dead connection.
func (s *session) run() {
	defer func() {
		if s.player != nil {
			s.reg.Unbind(s.player.Name, s)
		}
		_ = s.conn.Close()
		s.logger.Info("client disconnected")
	}()

	s.send(Banner)

	ctx := context.Background()
	for {
		line, ok := s.framer.ReadLine()
		if !ok {
			return
		}

		verb, arg := protocol.ParseCommand(line)
		switch verb {
		case protocol.VerbReg:
			s.handleReg(ctx, arg)
		case protocol.VerbRegTeam:
			s.handleRegTeam(ctx, arg)
		case protocol.VerbStatus:
			s.handleStatus(ctx)
		case protocol.VerbHistory:
			s.handleHistory(ctx)
		case protocol.VerbScoreboard:
			s.handleScoreboard(ctx)
		case protocol.VerbSubmit:
			s.handleSubmit(ctx, arg)
		case protocol.VerbFlag:
			s.handleFlag(ctx)
		default:
			s.send("400 | Erreur")
		}
	}
}

// send writes one response line under the session write lock.
func (s *session) send(line string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.framer.WriteLine(line)
}

// sendBlock writes a multi-line block response and its terminating empty
// line as one unit, so a broadcast can never interleave inside a block.
func (s *session) sendBlock(lines []string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for _, line := range lines {
		s.framer.WriteLine(line)
	}
	s.framer.WriteLine("")
}

// Notify implements registry.Notifier: out-of-band announcement delivery.
func (s *session) Notify(line string) {
	s.send(line)
}

func (s *session) handleReg(ctx context.Context, arg string) {
	if strings.TrimSpace(arg) == "" {
		s.send("400 | FAIL MAUVAIS ENVOI")
		return
	}
	name, secret, ok := protocol.ParseCredentials(arg)
	if !ok {
		s.send("400 | FAIL MAUVAIS ENVOI, il vous manque un mot de passe")
		return
	}
	if name == "" {
		s.send("400 | FAIL veuillez indiquer un pseudo")
		return
	}

	player, created, err := s.reg.RegisterOrAuthenticatePlayer(ctx, name, secret)
	if err != nil {
		if errors.Is(err, model.ErrWrongSecret) {
			s.send("400 | FAIL MAUVAIS MOT DE PASSE")
			return
		}
		s.fail(err)
		return
	}

	s.player = player
	s.reg.Bind(player.Name, s)
	if created {
		s.send("200 | Nouveau joueur créer !")
	} else {
		s.send("200 | OK vous etes connecté")
	}
}

func (s *session) handleRegTeam(ctx context.Context, arg string) {
	if s.player == nil {
		s.send("400 | FAIL veuillez vous enregistrer avant (REG)")
		return
	}
	if strings.TrimSpace(arg) == "" {
		s.send("400 | FAIL MAUVAIS ENVOI")
		return
	}
	name, secret, ok := protocol.ParseCredentials(arg)
	if !ok {
		s.send("400 | FAIL MAUVAIS ENVOI, il vous manque un mot de passe")
		return
	}
	if name == "" {
		s.send("400 | FAIL veuillez indiquer un nom d'équipe")
		return
	}

	team, created, err := s.reg.RegisterOrJoinTeam(ctx, name, secret, s.player.Name)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrWrongSecret):
			s.send("400 | FAIL MAUVAIS MOT DE PASSE pour " + name)
		case errors.Is(err, model.ErrAlreadyInTeam):
			s.send("400 | FAIL vous appartenez déjà à une équipe")
		default:
			s.fail(err)
		}
		return
	}

	if created {
		s.send("200 | Nouvelle équipe créer : " + team.Name)
	} else {
		s.send("200 | OK vous etes ajouté à " + team.Name)
	}
}

func (s *session) handleStatus(ctx context.Context) {
	counts, err := s.reg.Counts(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	s.sendBlock([]string{
		fmt.Sprintf("247 | Nombre de joueurs enregistré : %d", counts.Players),
		fmt.Sprintf("Nombre d'équipes enregistré : %d", counts.Teams),
		fmt.Sprintf("Nombre de défis : %d", counts.Challenges),
	})
}

func (s *session) handleHistory(ctx context.Context) {
	if s.player == nil {
		s.send("400 | FAIL veuillez vous enregistrer avant (REG)")
		return
	}
	history, successes, err := s.reg.History(ctx, s.player.Name)
	if err != nil {
		s.fail(err)
		return
	}

	lines := []string{"245 | Historique pour : " + s.player.Name}
	if len(history) > 0 {
		lines = append(lines, history...)
		lines = append(lines, fmt.Sprintf("Pour un total de %d flags.", len(history)))
		percent := float64(successes) / float64(len(history)) * 100
		lines = append(lines, fmt.Sprintf("%.1f%% des flags envoyer on été reussi!", percent))
	} else {
		lines = append(lines, "Aucun flag n'a été capturé.")
	}
	s.sendBlock(lines)
}

func (s *session) handleScoreboard(ctx context.Context) {
	scores, err := s.reg.Scoreboard(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	lines := []string{"246", "---SCORE Équipes ---"}
	for _, score := range scores {
		lines = append(lines, fmt.Sprintf("Équipe %s score : %d", score.Name, score.Score))
	}
	s.sendBlock(lines)
}

func (s *session) handleSubmit(ctx context.Context, arg string) {
	if s.player == nil {
		s.send("400 | FAIL veuillez vous enregistrer avant (REG)")
		return
	}
	flag := strings.TrimSpace(arg)
	if flag == "" {
		s.send("400 | FAIL MAUVAIS ENVOI")
		return
	}

	result, err := s.reg.SubmitFlag(ctx, s.player.Name, flag)
	if err != nil {
		if errors.Is(err, model.ErrNoTeam) {
			s.send("400 | FAIL veuillez rejoindre une équipe avant (REGTEAM)")
			return
		}
		s.fail(err)
		return
	}

	if !result.Valid {
		s.send(fmt.Sprintf("401 | %s invalide", flag))
		return
	}

	s.send(fmt.Sprintf("200 | %s valide, avec un score de : %d", flag, result.Score))
	if result.NewCredit {
		s.reg.NotifyPlayers(fmt.Sprintf(FlagWonNotice, result.TeamName))
	}
}

func (s *session) handleFlag(ctx context.Context) {
	challenges, err := s.reg.Challenges(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	lines := []string{"245"}
	for _, challenge := range challenges {
		lines = append(lines, challenge.Flag)
	}
	s.sendBlock(lines)
}

// fail reports an internal fault to the client without ending the session.
func (s *session) fail(err error) {
	s.logger.Error("command failed", slog.String("error", err.Error()))
	s.send("400 | Erreur")
}
