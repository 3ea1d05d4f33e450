// Package similarity caches the external word-embedding oracle for the
// lifetime of a challenge. The secret word and vocabulary are fixed while a
// challenge runs, so results never go stale until rollover.
package similarity

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"hotandcold/internal/domain"
	"hotandcold/internal/ports"
)

// warmConcurrency bounds parallel neighbor-table fetches during cache warming.
const warmConcurrency = 10

// Client wraps a SimilarityOracle with per-challenge caches. Concurrent
// identical lookups are coalesced into a single oracle call.
type Client struct {
	oracle ports.SimilarityOracle
	group  singleflight.Group

	mu          sync.RWMutex
	comparisons map[string]ports.Comparison
	tables      map[string]domain.NeighborTable
}

// NewClient wraps oracle with empty caches.
func NewClient(oracle ports.SimilarityOracle) *Client {
	return &Client{
		oracle:      oracle,
		comparisons: make(map[string]ports.Comparison),
		tables:      make(map[string]domain.NeighborTable),
	}
}

// Compare scores guessWord against secretWord, hitting the oracle at most once
// per distinct pair for the lifetime of the cache.
func (c *Client) Compare(ctx context.Context, secretWord, guessWord string) (ports.Comparison, error) {
	key := secretWord + "\x00" + guessWord

	c.mu.RLock()
	cmp, ok := c.comparisons[key]
	c.mu.RUnlock()
	if ok {
		return cmp, nil
	}

	v, err, _ := c.group.Do("cmp:"+key, func() (any, error) {
		fresh, err := c.oracle.Compare(ctx, secretWord, guessWord)
		if err != nil {
			return ports.Comparison{}, err
		}
		c.mu.Lock()
		c.comparisons[key] = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return ports.Comparison{}, err
	}
	return v.(ports.Comparison), nil
}

// NeighborTable returns the secret word's neighbor table, computed once per
// challenge and cached indefinitely thereafter.
func (c *Client) NeighborTable(ctx context.Context, secretWord string) (domain.NeighborTable, error) {
	c.mu.RLock()
	table, ok := c.tables[secretWord]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	v, err, _ := c.group.Do("tbl:"+secretWord, func() (any, error) {
		fresh, err := c.oracle.NearestWords(ctx, secretWord)
		if err != nil {
			return domain.NeighborTable{}, err
		}
		c.mu.Lock()
		c.tables[secretWord] = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return domain.NeighborTable{}, err
	}
	return v.(domain.NeighborTable), nil
}

// Reset drops all cached state. Called on challenge rollover.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comparisons = make(map[string]ports.Comparison)
	c.tables = make(map[string]domain.NeighborTable)
}

// Warm prefetches neighbor tables for the given words with bounded
// concurrency, so the first guesses of a fresh challenge don't pay the
// table-computation latency.
func (c *Client) Warm(ctx context.Context, words []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, word := range words {
		word := word
		g.Go(func() error {
			if _, err := c.NeighborTable(ctx, word); err != nil {
				return fmt.Errorf("warm %q: %w", word, err)
			}
			return nil
		})
	}
	return g.Wait()
}
