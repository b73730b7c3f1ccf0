package version

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Strategy selects how the Resolver combines mirrors.
type Strategy string

const (
	// StrategySequential tries mirrors one at a time in list order.
	StrategySequential Strategy = "sequential"
	// StrategyRace queries all mirrors concurrently and keeps the first success.
	StrategyRace Strategy = "race"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategySequential

// ParseStrategy converts a configuration string into a Strategy.
// Matching is case-insensitive; "" yields DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultStrategy, nil
	case string(StrategySequential), "fallback":
		return StrategySequential, nil
	case string(StrategyRace), "concurrent":
		return StrategyRace, nil
	default:
		return "", fmt.Errorf("%w %q (expected %q or %q)", ErrUnknownStrategy, s, StrategySequential, StrategyRace)
	}
}

func (s Strategy) String() string {
	return string(s)
}

// errWon stops the race group once a mirror has produced a manifest.
var errWon = errors.New("mirror race won")

// sequential tries each mirror in order and returns the first manifest.
// Mirror N+1 is not contacted until mirror N's attempt has completed.
func (r *Resolver) sequential(ctx context.Context) (*Manifest, error) {
	exhausted := &ExhaustedError{Attempts: make([]MirrorError, 0, len(r.mirrors))}

	for i, url := range r.mirrors {
		r.logger.Debug("trying mirror", "mirror", url, "position", i+1, "of", len(r.mirrors))

		m, err := r.GetVersions(ctx, url)
		if err == nil {
			return m, nil
		}

		exhausted.Attempts = append(exhausted.Attempts, MirrorError{URL: url, Err: err})
		r.logger.Warn("mirror failed", "mirror", url, "error", err)

		// The caller gave up; the remaining mirrors would fail the same way.
		if ctx.Err() != nil {
			return nil, exhausted
		}
	}

	return nil, exhausted
}

// race starts every mirror at once. The first successful manifest cancels
// the others; their results are never observed and race does not wait for
// them to return.
func (r *Resolver) race(ctx context.Context) (*Manifest, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu        sync.Mutex
		winner    *Manifest
		won       = make(chan struct{})
		exhausted = &ExhaustedError{Attempts: make([]MirrorError, 0, len(r.mirrors))}
	)

	for _, url := range r.mirrors {
		g.Go(func() error {
			r.logger.Debug("racing mirror", "mirror", url)

			m, err := r.GetVersions(gctx, url)

			mu.Lock()
			defer mu.Unlock()
			if winner != nil {
				return nil
			}
			if err != nil {
				exhausted.Attempts = append(exhausted.Attempts, MirrorError{URL: url, Err: err})
				r.logger.Warn("mirror failed", "mirror", url, "error", err)
				return nil
			}
			winner = m
			close(won)
			return errWon
		})
	}

	finished := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(finished)
	}()

	select {
	case <-won:
	case <-finished:
	}

	mu.Lock()
	defer mu.Unlock()
	if winner != nil {
		return winner, nil
	}
	return nil, exhausted
}
