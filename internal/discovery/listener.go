package discovery

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Discover binds the discovery port and blocks until one announcement
// datagram arrives, returning the sender's address and the payload. The
// sender's IP is the server's IP; the caller opens the TCP session to it.
// The wait is bounded by timeout (0 means wait forever) and by ctx.
func Discover(ctx context.Context, port int, timeout time.Duration) (*net.UDPAddr, string, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, "", fmt.Errorf("bind discovery port %d: %w", port, err)
	}
	defer func() { _ = conn.Close() }()

	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, "", err
		}
	}

	// Unblock the read when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	buf := make([]byte, 512)
	n, sender, err := conn.ReadFromUDP(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("receive announcement: %w", err)
	}
	return sender, string(buf[:n]), nil
}
