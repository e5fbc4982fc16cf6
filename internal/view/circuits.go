package view

import (
	"context"
	"strings"

	"github.com/torctl/torctl/internal/model"
)

// maxPathHops is the display truncation applied to circuit paths.
const maxPathHops = 3

// Circuits returns the circuit view: the circuit-status listing with
// every built circuit's path resolved to directory entries. Circuits
// still building keep their raw path and cost no lookups.
func (c *Client) Circuits(ctx context.Context) ([]model.Circuit, error) {
	body, err := c.getInfo(ctx, "circuit-status")
	if err != nil {
		return nil, err
	}

	circuits := ParseCircuitStatus(body)

	var fingerprints []string
	for _, circ := range circuits {
		if !circ.IsBuilt() {
			continue
		}
		for _, hop := range circ.Path {
			fingerprints = append(fingerprints, hop.Fingerprint)
		}
	}
	resolved, err := c.resolveRelays(ctx, fingerprints)
	if err != nil {
		return nil, err
	}

	for ci := range circuits {
		if !circuits[ci].IsBuilt() {
			continue
		}
		for hi := range circuits[ci].Path {
			circuits[ci].Path[hi].Relay = resolved[circuits[ci].Path[hi].Fingerprint]
		}
	}
	return circuits, nil
}

// ParseCircuitStatus parses circuit-status listing lines of the form
// "ID STATUS [PATH] [key=value ...]". Lines without at least an ID and
// a status are skipped; paths are truncated to the first three hops.
func ParseCircuitStatus(lines []string) []model.Circuit {
	var circuits []model.Circuit
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		circ := model.Circuit{
			ID:     fields[0],
			Status: model.CircuitStatus(fields[1]),
		}
		for _, field := range fields[2:] {
			switch {
			case strings.HasPrefix(field, "$"):
				circ.Path = parsePath(field)
			case strings.HasPrefix(field, "BUILD_FLAGS="):
				circ.BuildFlags = strings.Split(strings.TrimPrefix(field, "BUILD_FLAGS="), ",")
			case strings.HasPrefix(field, "PURPOSE="):
				circ.Purpose = strings.TrimPrefix(field, "PURPOSE=")
			case strings.HasPrefix(field, "TIME_CREATED="):
				circ.TimeCreated = strings.TrimPrefix(field, "TIME_CREATED=")
			}
		}
		circuits = append(circuits, circ)
	}
	return circuits
}

// parsePath splits a comma-separated path field into hops. Entries are
// $FINGERPRINT, $FINGERPRINT=Nickname, or $FINGERPRINT~Nickname.
func parsePath(raw string) []model.Hop {
	var hops []model.Hop
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimPrefix(entry, "$")
		if entry == "" {
			continue
		}
		hop := model.Hop{Fingerprint: entry}
		if i := strings.IndexAny(entry, "=~"); i >= 0 {
			hop.Fingerprint = entry[:i]
			hop.Nickname = entry[i+1:]
		}
		hops = append(hops, hop)
		if len(hops) == maxPathHops {
			break
		}
	}
	return hops
}
