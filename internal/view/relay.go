package view

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jellydator/ttlcache/v3"

	"github.com/torctl/torctl/internal/model"
)

// Relay resolves one fingerprint to its router-status entry through the
// cache. A fingerprint the directory does not know yields (nil, nil);
// the miss is cached too, so dead relays are not looked up repeatedly.
func (c *Client) Relay(ctx context.Context, fingerprint string) (*model.Relay, error) {
	if item := c.cache.Get(fingerprint); item != nil {
		return item.Value(), nil
	}

	body, err := c.getInfo(ctx, "ns/id/"+fingerprint)
	if err != nil {
		if errors.Is(err, ErrMissingInfo) {
			c.logger.Debug("no directory entry for relay", "fingerprint", fingerprint)
			c.cache.Set(fingerprint, nil, ttlcache.DefaultTTL)
			return nil, nil
		}
		return nil, err
	}

	relay := ParseRouterStatus(body)
	if relay != nil {
		relay.Fingerprint = fingerprint
	}
	c.cache.Set(fingerprint, relay, ttlcache.DefaultTTL)
	return relay, nil
}

// ParseRouterStatus parses a router-status entry as returned by a
// ns/id/<fingerprint> lookup: the "r" line carries the nickname and OR
// endpoint, "s" the directory flags, "w" the bandwidth estimate.
// It returns nil when no "r" line is present.
func ParseRouterStatus(lines []string) *model.Relay {
	var relay *model.Relay
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "r":
			// Consensus flavors differ in field count, but the line
			// always ends with address, OR port, and directory port.
			if len(fields) < 5 {
				continue
			}
			relay = &model.Relay{
				Nickname: fields[1],
				Address:  fields[len(fields)-3],
			}
			if port, err := strconv.Atoi(fields[len(fields)-2]); err == nil {
				relay.ORPort = port
			}
		case "s":
			if relay == nil {
				continue
			}
			relay.Flags = fields[1:]
		case "w":
			if relay == nil {
				continue
			}
			for _, kv := range fields[1:] {
				if !strings.HasPrefix(kv, "Bandwidth=") {
					continue
				}
				if bw, err := strconv.Atoi(strings.TrimPrefix(kv, "Bandwidth=")); err == nil {
					relay.Bandwidth = bw
				}
			}
		}
	}
	return relay
}
