package window

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/exportbot/internal/clock"
	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/logging"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
	"github.com/mj1618/exportbot/internal/platform/platformtest"
)

func testConfig() config.WindowConfig {
	cfg := config.Default().Window
	cfg.ActivationWait = 0
	cfg.RestoreWait = 0
	cfg.VerifyWait = 0
	return cfg
}

var target = model.Window{ID: 0x42, Title: "HZ-ANA - sample.mdp", PID: 100}

func TestForceStrategy_Activates(t *testing.T) {
	ws := &platformtest.WindowSystem{
		Windows: []model.Window{{ID: 0x1, Title: "Editor"}, target},
		Iconic:  map[model.WindowID]bool{target.ID: true},
		Active:  0x1,
	}
	s := NewForceStrategy(ws, &clock.Recorder{}, testConfig(), logging.Discard())

	require.NoError(t, s.TryActivate(context.Background(), "hz-ana"))
	assert.Equal(t, target.ID, ws.Active)
	assert.Equal(t, []string{"enum", "restore", "show", "set-foreground"}, ws.Calls)
}

func TestForceStrategy_FallsBackToBringToTop(t *testing.T) {
	ws := &platformtest.WindowSystem{Windows: []model.Window{target}, FailSetFG: true}
	s := NewForceStrategy(ws, &clock.Recorder{}, testConfig(), logging.Discard())

	require.NoError(t, s.TryActivate(context.Background(), "HZ-ANA"))
	assert.Contains(t, ws.Calls, "bring-to-top")
}

func TestForceStrategy_VerifiesForeground(t *testing.T) {
	ws := &platformtest.WindowSystem{
		Windows:  []model.Window{target},
		Stubborn: map[model.WindowID]bool{target.ID: true},
		Active:   0x7,
	}
	s := NewForceStrategy(ws, &clock.Recorder{}, testConfig(), logging.Discard())

	err := s.TryActivate(context.Background(), "HZ-ANA")
	assert.ErrorIs(t, err, ErrNotForeground)
}

func TestForceStrategy_FirstMatchWins(t *testing.T) {
	second := model.Window{ID: 0x99, Title: "HZ-ANA (2)"}
	ws := &platformtest.WindowSystem{Windows: []model.Window{target, second}}
	s := NewForceStrategy(ws, &clock.Recorder{}, testConfig(), logging.Discard())

	require.NoError(t, s.TryActivate(context.Background(), "HZ-ANA"))
	assert.Equal(t, target.ID, ws.Active)
}

func TestForceStrategy_NotFound(t *testing.T) {
	ws := &platformtest.WindowSystem{Windows: []model.Window{{ID: 1, Title: "Other"}}}
	s := NewForceStrategy(ws, &clock.Recorder{}, testConfig(), logging.Discard())
	assert.ErrorIs(t, s.TryActivate(context.Background(), "HZ-ANA"), platform.ErrWindowNotFound)
}

func TestQueryStrategy(t *testing.T) {
	q := &platformtest.WindowQuery{Windows: []model.Window{target}}
	rec := &clock.Recorder{}
	cfg := testConfig()
	cfg.ActivationWait = 300 * time.Millisecond
	s := NewQueryStrategy(q, rec, cfg)

	require.NoError(t, s.TryActivate(context.Background(), "hz-ana"))
	require.Len(t, q.Activated, 1)
	assert.Equal(t, target.ID, q.Activated[0].ID)
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, rec.Sleeps)

	empty := NewQueryStrategy(&platformtest.WindowQuery{}, rec, cfg)
	assert.ErrorIs(t, empty.TryActivate(context.Background(), "hz-ana"), platform.ErrWindowNotFound)
}

func TestStrategies_Order(t *testing.T) {
	ws := &platformtest.WindowSystem{}
	q := &platformtest.WindowQuery{}
	cfg := testConfig()

	cfg.PreferLowLevel = true
	got := Strategies(ws, q, &clock.Recorder{}, cfg, logging.Discard())
	require.Len(t, got, 2)
	assert.Equal(t, BackendLowLevel, got[0].Name())

	cfg.PreferLowLevel = false
	got = Strategies(ws, q, &clock.Recorder{}, cfg, logging.Discard())
	require.Len(t, got, 2)
	assert.Equal(t, BackendQuery, got[0].Name())
	assert.Equal(t, BackendLowLevel, got[1].Name(), "low-level kept as last resort")

	got = Strategies(nil, q, &clock.Recorder{}, cfg, logging.Discard())
	require.Len(t, got, 1)
	assert.Equal(t, BackendQuery, got[0].Name())
}

func TestActivate_RetryBound(t *testing.T) {
	for _, retries := range []int{0, 1, 2, 5} {
		ws := &platformtest.WindowSystem{FailEnum: true}
		q := &platformtest.WindowQuery{}
		rec := &clock.Recorder{}
		cfg := testConfig()
		cfg.RetryCount = retries
		a := NewActivator(Strategies(ws, q, rec, cfg, logging.Discard()), cfg, false, rec, logging.Discard())

		res := a.ActivateDetailed(context.Background(), "HZ-ANA")

		assert.False(t, res.OK, "retries=%d", retries)
		assert.Equal(t, retries+1, ws.EnumCalls, "retries=%d", retries)
		assert.Equal(t, retries+1, q.FindCalls, "retries=%d", retries)
		assert.Len(t, rec.Sleeps, retries, "retries=%d", retries)
		assert.Len(t, res.Attempts, 2*(retries+1), "retries=%d", retries)
	}
}

// Low-level backend fails every time, query backend succeeds on the second of three rounds.
func TestActivate_FallbackSucceedsOnSecondRound(t *testing.T) {
	ws := &platformtest.WindowSystem{FailEnum: true}
	q := &platformtest.WindowQuery{Windows: []model.Window{target}, FailActivations: 1}
	rec := &clock.Recorder{}
	cfg := testConfig()
	cfg.RetryCount = 2
	a := NewActivator(Strategies(ws, q, rec, cfg, logging.Discard()), cfg, false, rec, logging.Discard())

	res := a.ActivateDetailed(context.Background(), "HZ-ANA")

	require.True(t, res.OK)
	assert.Equal(t, BackendQuery, res.Backend)
	assert.Equal(t, 2, ws.EnumCalls)
	assert.Equal(t, cfg.RetryInterval, rec.Total())
	last := res.Attempts[len(res.Attempts)-1]
	assert.Equal(t, 1, last.Index)
	assert.True(t, last.OK)
}

func TestActivate_PrimarySuccessSkipsFallback(t *testing.T) {
	ws := &platformtest.WindowSystem{Windows: []model.Window{target}}
	q := &platformtest.WindowQuery{Windows: []model.Window{target}}
	cfg := testConfig()
	rec := &clock.Recorder{}
	a := NewActivator(Strategies(ws, q, rec, cfg, logging.Discard()), cfg, false, rec, logging.Discard())

	assert.True(t, a.Activate(context.Background(), "HZ-ANA"))
	assert.Zero(t, q.FindCalls)
}

func TestActivate_DryRunTouchesNothing(t *testing.T) {
	ws := &platformtest.WindowSystem{Windows: []model.Window{target}}
	q := &platformtest.WindowQuery{Windows: []model.Window{target}}
	rec := &clock.Recorder{}
	cfg := testConfig()
	a := NewActivator(Strategies(ws, q, rec, cfg, logging.Discard()), cfg, true, rec, logging.Discard())

	res := a.ActivateDetailed(context.Background(), "HZ-ANA")

	assert.True(t, res.OK)
	assert.True(t, res.DryRun)
	assert.Zero(t, ws.EnumCalls)
	assert.Zero(t, q.FindCalls)
	assert.Empty(t, rec.Sleeps)
}

func TestActivate_NoStrategies(t *testing.T) {
	cfg := testConfig()
	a := NewActivator(nil, cfg, false, &clock.Recorder{}, logging.Discard())
	assert.False(t, a.Activate(context.Background(), "HZ-ANA"))
}

func TestActivate_Cancelled(t *testing.T) {
	ws := &platformtest.WindowSystem{FailEnum: true}
	cfg := testConfig()
	cfg.RetryCount = 3
	rec := &clock.Recorder{}
	a := NewActivator(Strategies(ws, nil, rec, cfg, logging.Discard()), cfg, false, rec, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, a.Activate(ctx, "HZ-ANA"))
	assert.Zero(t, ws.EnumCalls)
}
