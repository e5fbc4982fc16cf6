package view

import (
	"context"
	"strings"

	"github.com/torctl/torctl/internal/model"
)

// Streams returns the stream view: the stream-status listing with each
// attached stream joined to its circuit's exit relay.
func (c *Client) Streams(ctx context.Context) ([]model.Stream, error) {
	body, err := c.getInfo(ctx, "stream-status")
	if err != nil {
		return nil, err
	}

	streams := ParseStreamStatus(body)
	if err := c.attachExits(ctx, streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// ParseStreamStatus parses stream-status listing lines of the form
// "ID STATUS CIRCID TARGET". Trailing annotations are ignored.
func ParseStreamStatus(lines []string) []model.Stream {
	var streams []model.Stream
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		streams = append(streams, model.Stream{
			ID:        fields[0],
			Status:    model.StreamStatus(fields[1]),
			CircuitID: fields[2],
			Target:    fields[3],
		})
	}
	return streams
}

// attachExits resolves the exit relay of every attached stream: the
// last hop of the stream's circuit path, looked up through the relay
// cache. The circuit listing is fetched only when at least one stream
// is attached.
func (c *Client) attachExits(ctx context.Context, streams []model.Stream) error {
	attached := false
	for i := range streams {
		if streams[i].IsAttached() {
			attached = true
			break
		}
	}
	if !attached {
		return nil
	}

	body, err := c.getInfo(ctx, "circuit-status")
	if err != nil {
		return err
	}

	exits := make(map[string]string)
	for _, circ := range ParseCircuitStatus(body) {
		if hop := circ.ExitHop(); hop != nil {
			exits[circ.ID] = hop.Fingerprint
		}
	}

	var fingerprints []string
	for i := range streams {
		if streams[i].IsAttached() {
			fingerprints = append(fingerprints, exits[streams[i].CircuitID])
		}
	}
	resolved, err := c.resolveRelays(ctx, fingerprints)
	if err != nil {
		return err
	}

	for i := range streams {
		if !streams[i].IsAttached() {
			continue
		}
		streams[i].Exit = resolved[exits[streams[i].CircuitID]]
	}
	return nil
}
