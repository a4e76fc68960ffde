package capability_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/capability"
	apperrors "github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/testutil/mocks"
	"github.com/vytor/phishdefense/internal/worker"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type panickySharer struct{}

func (panickySharer) Share(context.Context, string, string) error { panic("no share sheet") }

func TestDispatcher_VibrateRunsOnPool(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	called := make(chan time.Duration, 1)
	haptics := new(mocks.MockHaptics)
	haptics.On("Vibrate", mock.Anything, 60*time.Millisecond).
		Run(func(args mock.Arguments) { called <- args.Get(1).(time.Duration) }).
		Return(errors.New("motor missing"))

	d := capability.NewDispatcher(pool, capability.Set{Haptics: haptics})

	require.NoError(t, d.Vibrate(context.Background(), 60*time.Millisecond))

	select {
	case got := <-called:
		assert.Equal(t, 60*time.Millisecond, got)
	case <-time.After(2 * time.Second):
		t.Fatal("haptics was not called")
	}
}

func TestDispatcher_VibrateWithoutCapability(t *testing.T) {
	d := capability.NewDispatcher(nil, capability.Set{})

	err := d.Vibrate(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrCapabilityUnavailable)

	var nilDispatcher *capability.Dispatcher
	assert.Error(t, nilDispatcher.Vibrate(context.Background(), time.Millisecond))
}

func TestDispatcher_ShareFallsBackToClipboard(t *testing.T) {
	sharer := new(mocks.MockSharer)
	sharer.On("Share", mock.Anything, "Phishing Defense", "http://quiz.local/").
		Return(apperrors.NewCapabilityUnavailableError("share"))
	clip := new(mocks.MockClipboard)
	clip.On("WriteText", mock.Anything, "http://quiz.local/").Return(nil)

	d := capability.NewDispatcher(nil, capability.Set{Sharer: sharer, Clipboard: clip})

	out := d.Share(context.Background(), "Phishing Defense", "http://quiz.local/")

	assert.Equal(t, capability.OutcomeCopied, out)
	sharer.AssertExpectations(t)
	clip.AssertExpectations(t)
}

func TestDispatcher_ShareSurvivesPanics(t *testing.T) {
	d := capability.NewDispatcher(nil, capability.Set{Sharer: panickySharer{}, Clipboard: capability.Unavailable{}})

	var out capability.Outcome
	assert.NotPanics(t, func() {
		out = d.Share(context.Background(), "t", "u")
	})
	assert.Equal(t, capability.OutcomeUnavailable, out)
}

func TestDispatcher_ShareDirect(t *testing.T) {
	sharer := new(mocks.MockSharer)
	sharer.On("Share", mock.Anything, "t", "u").Return(nil)

	d := capability.NewDispatcher(nil, capability.Set{Sharer: sharer})
	assert.Equal(t, capability.OutcomeShared, d.Share(context.Background(), "t", "u"))
}

func TestDispatcher_Install(t *testing.T) {
	installer := new(mocks.MockInstaller)
	installer.On("PromptInstall", mock.Anything).Return(capability.ChoiceAccepted, nil)

	d := capability.NewDispatcher(nil, capability.Set{Installer: installer})
	choice, ok := d.Install(context.Background())
	assert.True(t, ok)
	assert.Equal(t, capability.ChoiceAccepted, choice)

	none := capability.NewDispatcher(nil, capability.Set{Installer: capability.Unavailable{}})
	choice, ok = none.Install(context.Background())
	assert.False(t, ok)
	assert.Equal(t, capability.ChoiceDismissed, choice)
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	bell := &capability.Bell{Out: &buf}

	require.NoError(t, bell.Vibrate(context.Background(), 60*time.Millisecond))
	assert.Equal(t, "\a", buf.String())

	var missing *capability.Bell
	assert.Error(t, missing.Vibrate(context.Background(), time.Millisecond))
}
