package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/askgod-go/internal/discovery"
	"github.com/mcoot/askgod-go/internal/protocol"
	"github.com/mcoot/askgod-go/internal/wire"
)

const bannerWait = 10 * time.Second

var errDisconnected = errors.New("server closed the connection")

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Connect to the server and play interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context())
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Wait for the server's presence broadcast and print its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := NewPrinter(cfg.Verbose, cfg.NoColor)
			sender, payload, err := discovery.Discover(cmd.Context(), cfg.Port, cfg.Timeout)
			if err != nil {
				return err
			}
			printer.Notice("%s annoncé par %s", payload, sender.IP)
			fmt.Printf("%s:%d\n", sender.IP, cfg.Port)
			return nil
		},
	}
}

func runPlay(ctx context.Context) error {
	printer := NewPrinter(cfg.Verbose, cfg.NoColor)

	addr, err := resolveServer(ctx, printer)
	if err != nil {
		return err
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connexion à %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()
	printer.Notice("Connexion réussi")

	game := &gameLoop{
		framer:  wire.New(conn),
		printer: printer,
		stdin:   bufio.NewScanner(os.Stdin),
	}
	return game.run()
}

// resolveServer returns the host:port to dial, from --server or from one
// blocking receive of the presence broadcast.
func resolveServer(ctx context.Context, printer *Printer) (string, error) {
	if cfg.Server != "" {
		if _, _, err := net.SplitHostPort(cfg.Server); err == nil {
			return cfg.Server, nil
		}
		// bare host: assume the default port
		return net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port)), nil
	}

	printer.Notice("Recherche du serveur sur le réseau local (port %d)...", cfg.Port)
	sender, payload, err := discovery.Discover(ctx, cfg.Port, cfg.Timeout)
	if err != nil {
		return "", fmt.Errorf("découverte du serveur: %w", err)
	}
	printer.Notice("%s", payload)
	return net.JoinHostPort(sender.IP.String(), strconv.Itoa(cfg.Port)), nil
}

// gameLoop drives the protocol once the TCP session is open.
type gameLoop struct {
	framer  *wire.Framer
	printer *Printer
	stdin   *bufio.Scanner
}

func (g *gameLoop) run() error {
	// The server greets immediately; if nothing shows up something is wrong
	// with the address we were given.
	banner, ok, timedOut := g.framer.ReadLineTimeout(bannerWait)
	if !ok {
		if timedOut {
			return errors.New("pas de bannière du serveur")
		}
		return errDisconnected
	}
	g.printer.Received(banner)
	g.printer.ServerLine(banner)

	if err := g.register(protocol.VerbReg, "Indiquez un pseudo et un mot de passe"); err != nil {
		return err
	}
	if err := g.register(protocol.VerbRegTeam, "Indiquez une team et son mot de passe"); err != nil {
		return err
	}

	g.printer.Notice("Vous basculez en mode 'interactif' et pouvez maintenant faire les commandes suivantes :")
	g.printer.Notice("STATUS, HISTORY, SCOREBOARD, FLAG et SUBMIT | (flag).")

	return g.interact()
}

// register prompts until the server answers 200 to a REG/REGTEAM command.
func (g *gameLoop) register(verb, prompt string) error {
	for {
		g.printer.Notice("%s", prompt)
		input, ok := g.readInput()
		if !ok {
			return nil
		}

		reply, err := g.exchange(verb + " | " + input)
		if err != nil {
			return err
		}

		g.printer.ServerLine(reply)
		code, _, _ := strings.Cut(reply, "|")
		if strings.TrimSpace(code) == protocol.CodeOK {
			return nil
		}
	}
}

// interact forwards user commands and renders responses, draining
// multi-line blocks until their empty terminator line.
func (g *gameLoop) interact() error {
	for {
		input, ok := g.readInput()
		if !ok {
			return nil
		}
		if input == "" {
			continue
		}

		reply, err := g.exchange(input)
		if err != nil {
			return err
		}
		g.printer.ServerLine(reply)

		if !protocol.IsBlockResponse(reply) {
			continue
		}
		for {
			line, ok := g.framer.ReadLine()
			if !ok {
				return errDisconnected
			}
			g.printer.Received(line)
			if line == "" {
				break
			}
			g.printer.BlockLine(line)
		}
	}
}

// exchange sends one command line and reads one response line.
func (g *gameLoop) exchange(command string) (string, error) {
	g.printer.Sent(command)
	if !g.framer.WriteLine(command) {
		return "", errDisconnected
	}
	reply, ok := g.framer.ReadLine()
	if !ok {
		return "", errDisconnected
	}
	g.printer.Received(reply)
	return reply, nil
}

func (g *gameLoop) readInput() (string, bool) {
	if !g.stdin.Scan() {
		return "", false
	}
	return strings.TrimSpace(g.stdin.Text()), true
}
