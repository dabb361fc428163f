package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type needsCreds struct{ flag bool }

func (e needsCreds) Error() string             { return fmt.Sprintf("needsCredentials=%v", e.flag) }
func (e needsCreds) CredentialsRequired() bool { return e.flag }

// scripted returns an operation that yields the given errors in order and
// succeeds with its call number afterwards.
func scripted(calls *atomic.Int32, errs ...error) Operation[int] {
	return func(ctx context.Context) (int, error) {
		n := int(calls.Add(1))
		if n <= len(errs) && errs[n-1] != nil {
			return 0, errs[n-1]
		}
		return n, nil
	}
}

func waiters(g *Gate) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.round == nil {
		return 0
	}
	return g.round.waiters
}

func waitForWaiters(t *testing.T, g *Gate, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return waiters(g) == n }, time.Second, time.Millisecond)
}

type result struct {
	v   int
	err error
}

func runAsync(ctx context.Context, g *Gate, op Operation[int]) <-chan result {
	out := make(chan result, 1)
	go func() {
		v, err := Run(ctx, g, op)
		out <- result{v, err}
	}()
	return out
}

func TestRun_SuccessNeverOpensGate(t *testing.T) {
	g := NewGate(nil)
	seen, cancel := g.DialogVisible().Watch()
	defer cancel()
	require.False(t, <-seen)

	var calls atomic.Int32
	v, err := Run(context.Background(), g, scripted(&calls))

	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, g.Open())
	select {
	case v := <-seen:
		t.Fatalf("dialog flag changed to %v", v)
	default:
	}
}

func TestRun_OtherErrorsPropagateImmediately(t *testing.T) {
	g := NewGate(nil)
	boom := errors.New("boom")

	var calls atomic.Int32
	_, err := Run(context.Background(), g, scripted(&calls, boom))

	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, g.Open())
}

func TestRun_ConfiguredReplaysOnce(t *testing.T) {
	g := NewGate(nil)
	var calls atomic.Int32

	res := runAsync(context.Background(), g, scripted(&calls, needsCreds{true}))
	waitForWaiters(t, g, 1)

	assert.True(t, g.Open())
	assert.True(t, g.DialogVisible().Value())
	require.True(t, g.Configure())

	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, 2, r.v)
	assert.EqualValues(t, 2, calls.Load())
	assert.False(t, g.Open())
	assert.False(t, g.DialogVisible().Value())
	assert.False(t, g.Configured().Value())
}

func TestRun_CancelPropagatesOriginalError(t *testing.T) {
	g := NewGate(nil)
	original := needsCreds{true}
	var calls atomic.Int32

	res := runAsync(context.Background(), g, scripted(&calls, original))
	waitForWaiters(t, g, 1)
	require.True(t, g.Cancel())

	r := <-res
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, original)
	assert.True(t, IsCancelled(r.err))
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, g.Open())
}

func TestRun_SecondFailureIsNotRetried(t *testing.T) {
	g := NewGate(nil)
	second := needsCreds{true}
	var calls atomic.Int32

	res := runAsync(context.Background(), g, scripted(&calls, needsCreds{true}, second))
	waitForWaiters(t, g, 1)
	require.True(t, g.Configure())

	r := <-res
	assert.ErrorIs(t, r.err, second)
	assert.False(t, IsCancelled(r.err))
	assert.EqualValues(t, 2, calls.Load())
	assert.False(t, g.Open(), "a failed replay must not reopen the gate")
}

func TestRun_ReplayStartsAfterRearm(t *testing.T) {
	g := NewGate(nil)
	var (
		calls       atomic.Int32
		openOnRetry bool
		cfgOnRetry  bool
	)
	op := func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, ErrCredentialsRequired
		}
		openOnRetry = g.Open()
		cfgOnRetry = g.Configured().Value()
		return 7, nil
	}

	res := runAsync(context.Background(), g, op)
	waitForWaiters(t, g, 1)

	cfg, cancel := g.Configured().Watch()
	defer cancel()
	require.False(t, <-cfg)
	require.True(t, g.Configure())

	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, 7, r.v)
	assert.False(t, openOnRetry)
	assert.False(t, cfgOnRetry)
	assert.False(t, <-cfg)
}

func TestRun_ConcurrentCallersShareOneRound(t *testing.T) {
	g := NewGate(nil)
	const n = 8

	var opened atomic.Int32
	seen, cancel := g.DialogVisible().Watch()
	var watchWG sync.WaitGroup
	watchWG.Add(1)
	go func() {
		defer watchWG.Done()
		for v := range seen {
			if v {
				opened.Add(1)
			}
		}
	}()

	var calls atomic.Int32
	op := func(ctx context.Context) (int, error) {
		if calls.Add(1) <= n {
			return 0, needsCreds{true}
		}
		return 1, nil
	}

	results := make([]<-chan result, n)
	for i := range results {
		results[i] = runAsync(context.Background(), g, op)
	}
	waitForWaiters(t, g, n)
	require.Eventually(t, func() bool { return opened.Load() == 1 }, time.Second, time.Millisecond)
	require.True(t, g.Configure())

	for _, ch := range results {
		r := <-ch
		require.NoError(t, r.err)
		assert.Equal(t, 1, r.v)
	}
	assert.EqualValues(t, 2*n, calls.Load())

	cancel()
	watchWG.Wait()
	assert.EqualValues(t, 1, opened.Load())
}

func TestRun_ContextCancelAbandonsRound(t *testing.T) {
	g := NewGate(nil)
	ctx, cancel := context.WithCancel(context.Background())
	original := needsCreds{true}
	var calls atomic.Int32

	res := runAsync(ctx, g, scripted(&calls, original))
	waitForWaiters(t, g, 1)
	cancel()

	r := <-res
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.ErrorIs(t, r.err, original)
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, g.Open())
	assert.False(t, g.DialogVisible().Value())
}

func TestRun_OneCallerLeavingKeepsRoundOpen(t *testing.T) {
	g := NewGate(nil)
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	op := func(ctx context.Context) (int, error) {
		if calls.Add(1) <= 2 {
			return 0, ErrCredentialsRequired
		}
		return 3, nil
	}

	leaver := runAsync(ctx, g, op)
	stayer := runAsync(context.Background(), g, op)
	waitForWaiters(t, g, 2)

	cancel()
	r := <-leaver
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.True(t, g.Open())

	require.True(t, g.Configure())
	r = <-stayer
	require.NoError(t, r.err)
	assert.Equal(t, 3, r.v)
}

func TestRun_NilGateRunsDirectly(t *testing.T) {
	var calls atomic.Int32
	_, err := Run(context.Background(), nil, scripted(&calls, ErrCredentialsRequired))
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGate_SignalsWithoutRound(t *testing.T) {
	g := NewGate(nil)
	assert.False(t, g.Configure())
	assert.False(t, g.Cancel())
	assert.False(t, g.Configured().Value())
}

func TestIsCredentialsError(t *testing.T) {
	assert.True(t, IsCredentialsError(ErrCredentialsRequired))
	assert.True(t, IsCredentialsError(fmt.Errorf("list rates: %w", needsCreds{true})))
	assert.False(t, IsCredentialsError(needsCreds{false}))
	assert.False(t, IsCredentialsError(errors.New("timeout")))
	assert.False(t, IsCredentialsError(nil))
}

func TestMatchesCredentialsFailure(t *testing.T) {
	tests := []struct {
		status  int
		message string
		want    bool
	}{
		{401, "Credenciales de Oracle no configuradas", true},
		{403, "ORACLE account locked", true},
		{428, "credentials required", true},
		{401, "token expired", false},
		{500, "oracle unavailable", false},
		{404, "credencial no encontrada", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d %s", tt.status, tt.message), func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesCredentialsFailure(tt.status, tt.message))
		})
	}
}
