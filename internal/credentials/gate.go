package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Operation is a deferred call against a credentialed upstream.
type Operation[T any] func(ctx context.Context) (T, error)

type outcome int

const (
	outcomeConfigured outcome = iota + 1
	outcomeCancelled
	outcomeAbandoned
)

// round is one open period of the gate. Every caller that fails while the
// round is open waits on the same done channel.
type round struct {
	done    chan struct{}
	outcome outcome
	waiters int
}

// Gate pauses failed operations until credentials are configured out of
// band, then lets each of them replay once.
type Gate struct {
	mu    sync.Mutex
	round *round

	visible    *Flag
	configured *Flag
	logger     *zap.Logger
}

func NewGate(logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		visible:    NewFlag(false),
		configured: NewFlag(false),
		logger:     logger,
	}
}

// DialogVisible is true while a round is open.
func (g *Gate) DialogVisible() *Flag { return g.visible }

// Configured turns true when credentials are supplied and is re-armed to
// false before any paused operation replays.
func (g *Gate) Configured() *Flag { return g.configured }

func (g *Gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round != nil
}

// Configure releases all waiters of the open round so they replay. It
// returns false if the gate was closed.
func (g *Gate) Configure() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.round
	if r == nil {
		return false
	}
	g.configured.Set(true)
	g.finish(r, outcomeConfigured)
	g.configured.Set(false)
	close(r.done)

	g.logger.Info("credentials configured, replaying", zap.Int("waiters", r.waiters))
	return true
}

// Cancel releases all waiters of the open round with their original
// failure. It returns false if the gate was closed.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.round
	if r == nil {
		return false
	}
	g.finish(r, outcomeCancelled)
	close(r.done)

	g.logger.Info("credentials dialog cancelled", zap.Int("waiters", r.waiters))
	return true
}

// finish closes the gate. Callers hold g.mu.
func (g *Gate) finish(r *round, o outcome) {
	r.outcome = o
	g.round = nil
	g.visible.Set(false)
}

// join opens a round if none is open and registers the caller on it.
func (g *Gate) join() *round {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round == nil {
		g.round = &round{done: make(chan struct{})}
		g.visible.Set(true)
		g.logger.Info("credentials required, gate opened")
	}
	g.round.waiters++
	return g.round
}

// leave unregisters a caller whose context ended. The last caller to leave
// abandons the round.
func (g *Gate) leave(r *round) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round != r {
		return
	}
	r.waiters--
	if r.waiters > 0 {
		return
	}
	g.finish(r, outcomeAbandoned)
	close(r.done)
	g.logger.Info("credentials round abandoned")
}

// wait blocks until the round ends or ctx is done.
func (g *Gate) wait(ctx context.Context) (outcome, error) {
	r := g.join()
	select {
	case <-r.done:
		return r.outcome, nil
	case <-ctx.Done():
		g.leave(r)
		// The round may have ended concurrently; honour its outcome.
		select {
		case <-r.done:
			if r.outcome != outcomeAbandoned {
				return r.outcome, nil
			}
		default:
		}
		return outcomeAbandoned, ctx.Err()
	}
}

// Run executes op. When op fails for lack of credentials it waits for the
// gate: after Configure op runs exactly once more and its result is
// returned as is; after Cancel the original failure is returned. A nil gate
// runs op without gating.
func Run[T any](ctx context.Context, g *Gate, op Operation[T]) (T, error) {
	res, err := op(ctx)
	if err == nil || g == nil || !IsCredentialsError(err) {
		return res, err
	}

	o, werr := g.wait(ctx)
	switch o {
	case outcomeConfigured:
		return op(ctx)
	case outcomeCancelled:
		return res, errors.Join(ErrCancelled, err)
	default:
		var zero T
		if werr == nil {
			werr = ErrAbandoned
		}
		return zero, fmt.Errorf("%w: %w", werr, err)
	}
}
