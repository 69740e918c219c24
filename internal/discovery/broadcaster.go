// Package discovery implements server presence announcement over UDP
// broadcast and the matching client-side listener. A client that knows
// nothing but the discovery port learns the server address from the sender
// of the first announcement it receives.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// DefaultPayload is the identity string announced by the stock server.
const DefaultPayload = "Serveur_askgod number 1"

// DefaultInterval is the announcement period.
const DefaultInterval = 2 * time.Second

// Broadcaster periodically announces the server's presence from every
// broadcast-capable interface. Fire-and-forget: there is no acknowledgment,
// no retry and no backpressure.
type Broadcaster struct {
	logger   *slog.Logger
	payload  string
	interval time.Duration
	dest     *net.UDPAddr
	conns    []*net.UDPConn
}

// NewBroadcaster opens one UDP socket per up, IPv4-capable network
// interface, all targeting the broadcast address on port. Interfaces without
// a usable address are skipped with a log line rather than failing startup.
func NewBroadcaster(port int, payload string, interval time.Duration, logger *slog.Logger) (*Broadcaster, error) {
	if payload == "" {
		payload = DefaultPayload
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	b := &Broadcaster{
		logger:   logger.With(slog.String("component", "discovery")),
		payload:  payload,
		interval: interval,
		dest:     &net.UDPAddr{IP: net.IPv4bcast, Port: port},
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		ip := firstIPv4(iface)
		if ip == nil {
			continue
		}
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: 0})
		if err != nil {
			b.logger.Warn("skipping interface",
				slog.String("interface", iface.Name),
				slog.String("error", err.Error()))
			continue
		}
		b.conns = append(b.conns, conn)
		b.logger.Info("announcing on interface",
			slog.String("interface", iface.Name),
			slog.String("local", conn.LocalAddr().String()))
	}

	if len(b.conns) == 0 {
		b.logger.Warn("no broadcast-capable interfaces found")
	}
	return b, nil
}

// Run announces every interval until ctx is cancelled, then closes the
// sockets.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	defer b.Close()

	b.logger.Info("presence broadcast started",
		slog.String("payload", b.payload),
		slog.Duration("interval", b.interval))

	for {
		select {
		case <-ticker.C:
			b.Announce()
		case <-ctx.Done():
			b.logger.Info("presence broadcast stopped")
			return
		}
	}
}

// Announce sends one round of announcements from every open socket. Send
// errors are logged and ignored; the next tick tries again.
func (b *Broadcaster) Announce() {
	for _, conn := range b.conns {
		if _, err := conn.WriteToUDP([]byte(b.payload), b.dest); err != nil {
			b.logger.Debug("announce failed",
				slog.String("local", conn.LocalAddr().String()),
				slog.String("error", err.Error()))
		}
	}
}

// Close releases the per-interface sockets.
func (b *Broadcaster) Close() {
	for _, conn := range b.conns {
		_ = conn.Close()
	}
}

// Sockets reports how many per-interface sockets are open.
func (b *Broadcaster) Sockets() int {
	return len(b.conns)
}

func firstIPv4(iface net.Interface) net.IP {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4
		}
	}
	return nil
}
