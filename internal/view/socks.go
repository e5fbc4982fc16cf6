package view

import (
	"context"
	"net"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"mvdan.cc/sh/v3/shell"

	"github.com/torctl/torctl/internal/model"
	"github.com/torctl/torctl/internal/socket"
)

// probeTarget is the synthetic destination used for listener probes.
// Tor refuses SOCKS connections to internal addresses without building
// a circuit, so the reply arrives immediately.
const probeTarget = "127.0.0.1:1"

// probeTimeout bounds one listener probe.
const probeTimeout = 5 * time.Second

// Listeners returns the SOCKS listener view. With check set, every TCP
// listener is probed with a SOCKS5 dial and marked ok or unreachable;
// unix domain listeners are left unprobed.
func (c *Client) Listeners(ctx context.Context, check bool) ([]model.SocksListener, error) {
	body, err := c.getInfo(ctx, "net/listeners/socks")
	if err != nil {
		return nil, err
	}

	listeners := ParseListeners(strings.Join(body, " "))
	if check {
		for i := range listeners {
			if listeners[i].Network != socket.NetworkTCP {
				continue
			}
			listeners[i].Status = c.probeListener(ctx, listeners[i].Address)
		}
	}
	return listeners, nil
}

// ParseListeners parses the net/listeners/socks value: space-separated,
// individually quoted listener addresses, with unix domain listeners
// carrying a "unix:" prefix.
func ParseListeners(raw string) []model.SocksListener {
	fields, err := shell.Fields(raw, nil)
	if err != nil {
		fields = strings.Fields(raw)
	}

	var listeners []model.SocksListener
	for _, field := range fields {
		field = strings.Trim(field, `"`)
		if field == "" {
			continue
		}
		if strings.HasPrefix(field, "unix:") {
			listeners = append(listeners, model.SocksListener{
				Network: socket.NetworkUnix,
				Address: strings.TrimPrefix(field, "unix:"),
			})
			continue
		}
		listeners = append(listeners, model.SocksListener{
			Network: socket.NetworkTCP,
			Address: field,
		})
	}
	return listeners
}

// probeListener dials a synthetic target through the listener. The
// verdict depends only on the TCP connect to the listener itself: any
// SOCKS-level answer, including a refusal, proves a live endpoint,
// while a failed connect marks it unreachable.
func (c *Client) probeListener(ctx context.Context, address string) string {
	forward := &recordingDialer{}
	socksDialer, err := proxy.SOCKS5("tcp", address, nil, forward)
	if err != nil {
		return model.ListenerUnreachable
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := dialContext(ctx, socksDialer, "tcp", probeTarget)
	if err == nil {
		conn.Close()
	}
	if forward.reached {
		return model.ListenerOK
	}
	c.logger.Debug("listener probe failed", "listener", address, "error", err)
	return model.ListenerUnreachable
}

// dialContext dials through d with ctx when the dialer supports it.
func dialContext(ctx context.Context, d proxy.Dialer, network, address string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}
	return d.Dial(network, address)
}

// recordingDialer opens the TCP connection to the listener itself and
// records whether that connect succeeded, separating transport failures
// from SOCKS-level refusals.
type recordingDialer struct {
	dialer  net.Dialer
	reached bool
}

// Dial implements proxy.Dialer.
func (d *recordingDialer) Dial(network, address string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, address)
}

// DialContext implements proxy.ContextDialer.
func (d *recordingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.dialer.DialContext(ctx, network, address)
	if err == nil {
		d.reached = true
	}
	return conn, err
}
