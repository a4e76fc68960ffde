package quiz_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/catalog"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/quiz"
	"github.com/vytor/phishdefense/internal/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTimedController(seconds int) *quiz.Controller {
	cat := &catalog.Catalog{Base: testutil.Questions("q", 12)}
	return quiz.NewController(cat, quiz.Options{RoundSeconds: seconds, Logger: logger.Discard()})
}

func waitDone(t *testing.T, cd *quiz.Countdown) {
	t.Helper()
	select {
	case <-cd.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not exit")
	}
}

func TestCountdown_RunsRoundToTimeout(t *testing.T) {
	ctrl := newTimedController(3)
	defer ctrl.Close()
	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)

	var ticks atomic.Int32
	cd := quiz.StartCountdown(context.Background(), ctrl, time.Millisecond, func(models.Snapshot) {
		ticks.Add(1)
	})
	require.NotNil(t, cd)
	waitDone(t, cd)

	snap := ctrl.Snapshot()
	assert.Equal(t, models.PhaseFinished, snap.Phase)
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.Equal(t, int32(3), ticks.Load())
	assert.Len(t, ctrl.History(), 1)
}

func TestCountdown_NilWithoutActiveRound(t *testing.T) {
	ctrl := newTimedController(3)
	defer ctrl.Close()

	assert.Nil(t, quiz.StartCountdown(context.Background(), ctrl, time.Millisecond, nil))
}

func TestCountdown_StopIsIdempotent(t *testing.T) {
	ctrl := newTimedController(300)
	defer ctrl.Close()
	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)

	cd := quiz.StartCountdown(context.Background(), ctrl, time.Hour, nil)
	require.NotNil(t, cd)

	cd.Stop()
	cd.Stop()
	assert.Equal(t, models.PhaseActive, ctrl.Snapshot().Phase)

	var missing *quiz.Countdown
	assert.NotPanics(t, missing.Stop)
}

func TestCountdown_StoppedByRestart(t *testing.T) {
	ctrl := newTimedController(300)
	defer ctrl.Close()
	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)

	cd := quiz.StartCountdown(context.Background(), ctrl, time.Hour, nil)
	require.NotNil(t, cd)

	ctrl.Restart()
	waitDone(t, cd)
	assert.Empty(t, ctrl.History())
}

func TestCountdown_OldTimerDoesNotTickNewRound(t *testing.T) {
	ctrl := newTimedController(300)
	defer ctrl.Close()
	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)
	old := quiz.StartCountdown(context.Background(), ctrl, time.Millisecond, nil)
	require.NotNil(t, old)

	_, err = ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)
	waitDone(t, old)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 300, ctrl.Snapshot().RemainingSeconds)
}

func TestCountdown_CancelledByContext(t *testing.T) {
	ctrl := newTimedController(300)
	defer ctrl.Close()
	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cd := quiz.StartCountdown(ctx, ctrl, time.Hour, nil)
	require.NotNil(t, cd)

	cancel()
	waitDone(t, cd)
}

func TestCountdown_ObserverMayRestart(t *testing.T) {
	ctrl := newTimedController(1)
	defer ctrl.Close()
	ctrl.OnFinish(func(models.ScoreRecord) { ctrl.Restart() })

	_, err := ctrl.StartRound(context.Background(), false)
	require.NoError(t, err)
	cd := quiz.StartCountdown(context.Background(), ctrl, time.Millisecond, nil)
	require.NotNil(t, cd)

	waitDone(t, cd)
	assert.Equal(t, models.PhaseNotStarted, ctrl.Snapshot().Phase)
	assert.Len(t, ctrl.History(), 1)
}

func TestCountdown_TickCallbackMayStopItsOwnCountdown(t *testing.T) {
	tests := []struct {
		name  string
		act   func(*quiz.Controller)
		phase models.Phase
	}{
		{"restart", func(c *quiz.Controller) { c.Restart() }, models.PhaseNotStarted},
		{"new round", func(c *quiz.Controller) { _, _ = c.StartRound(context.Background(), false) }, models.PhaseActive},
		{"close", func(c *quiz.Controller) { c.Close() }, models.PhaseActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTimedController(100)
			defer ctrl.Close()
			_, err := ctrl.StartRound(context.Background(), false)
			require.NoError(t, err)

			var calls atomic.Int32
			returned := make(chan struct{})
			cd := quiz.StartCountdown(context.Background(), ctrl, time.Millisecond, func(models.Snapshot) {
				if calls.Add(1) == 1 {
					tt.act(ctrl)
					close(returned)
				}
			})
			require.NotNil(t, cd)

			select {
			case <-returned:
			case <-time.After(2 * time.Second):
				t.Fatal("callback blocked on its own countdown")
			}
			waitDone(t, cd)
			assert.Equal(t, int32(1), calls.Load())
			assert.Equal(t, tt.phase, ctrl.Snapshot().Phase)
			assert.Empty(t, ctrl.History())
		})
	}
}
