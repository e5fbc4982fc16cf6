package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"

	"github.com/torctl/torctl/internal/control"
	"github.com/torctl/torctl/internal/model"
	"github.com/torctl/torctl/internal/socket"
)

// defaultLookupLimit bounds concurrent relay lookups when the caller
// does not configure one.
const defaultLookupLimit = 4

// relayTTL is how long resolved relays stay cached. Directory entries
// do not change within one invocation, so repeated fingerprints across
// the circuit and stream views cost one lookup each.
const relayTTL = 3 * time.Minute

// Runner executes one authenticated command session against a control
// endpoint. *control.Session satisfies it; tests substitute scripted
// results.
type Runner interface {
	Run(ctx context.Context, desc socket.Descriptor, batch control.CommandBatch) (*control.Result, error)
}

// Client derives the circuit, stream, and listener views from
// informational queries. Each query runs the full session pipeline on
// its own connection. Construct it with NewClient and release it with
// Close.
type Client struct {
	runner  Runner
	desc    socket.Descriptor
	logger  *slog.Logger
	cache   *ttlcache.Cache[string, *model.Relay]
	lookups int
}

// Option configures a Client.
type Option func(*Client)

// WithLookupLimit bounds the number of concurrent relay lookups.
// Non-positive values keep the default.
func WithLookupLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.lookups = n
		}
	}
}

// WithLogger replaces the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a view client around the given session runner.
func NewClient(runner Runner, desc socket.Descriptor, opts ...Option) (*Client, error) {
	if runner == nil {
		return nil, fmt.Errorf("%w: session runner", control.ErrMissingDependency)
	}

	cache := ttlcache.New[string, *model.Relay](
		ttlcache.WithTTL[string, *model.Relay](relayTTL),
		ttlcache.WithDisableTouchOnHit[string, *model.Relay](),
	)
	go cache.Start()

	c := &Client{
		runner:  runner,
		desc:    desc,
		logger:  slog.Default(),
		cache:   cache,
		lookups: defaultLookupLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close stops the relay cache expiration loop.
func (c *Client) Close() {
	c.cache.Stop()
}

// getInfo runs one GETINFO session and returns the value body lines.
func (c *Client) getInfo(ctx context.Context, key string) ([]string, error) {
	result, err := c.runner.Run(ctx, c.desc, control.CommandBatch{"GETINFO " + key})
	if err != nil {
		return nil, err
	}
	return infoBody(result, key)
}

// infoBody extracts the value of one GETINFO key from a classified
// result: the data block body for multi-line values, the text after
// "key=" for single-line ones. An empty value yields no lines; a reply
// that never mentions the key yields ErrMissingInfo.
func infoBody(result *control.Result, key string) ([]string, error) {
	prefix := key + "="
	for _, reply := range result.CommandReplies() {
		for _, line := range reply.Lines {
			if line.StatusCode != control.StatusOK || !strings.HasPrefix(line.Text, prefix) {
				continue
			}
			if len(reply.Data) > 0 {
				return reply.Data, nil
			}
			if value := strings.TrimPrefix(line.Text, prefix); value != "" {
				return []string{value}, nil
			}
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingInfo, key)
}

// resolveRelays resolves the distinct fingerprints to directory
// entries, running cache misses concurrently under the lookup limit.
// The returned map carries nil for fingerprints the directory does not
// know.
func (c *Client) resolveRelays(ctx context.Context, fingerprints []string) (map[string]*model.Relay, error) {
	distinct := make([]string, 0, len(fingerprints))
	seen := make(map[string]bool, len(fingerprints))
	for _, fp := range fingerprints {
		if fp == "" || seen[fp] {
			continue
		}
		seen[fp] = true
		distinct = append(distinct, fp)
	}
	if len(distinct) == 0 {
		return nil, nil
	}

	relays := make([]*model.Relay, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.lookups)
	for i, fp := range distinct {
		g.Go(func() error {
			relay, err := c.Relay(gctx, fp)
			if err != nil {
				return err
			}
			relays[i] = relay
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := make(map[string]*model.Relay, len(distinct))
	for i, fp := range distinct {
		resolved[fp] = relays[i]
	}
	return resolved, nil
}
