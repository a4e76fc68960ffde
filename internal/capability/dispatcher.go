package capability

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/worker"
)

// Outcome reports what a share attempt ended up doing.
type Outcome string

const (
	OutcomeShared      Outcome = "shared"
	OutcomeCopied      Outcome = "copied"
	OutcomeUnavailable Outcome = "unavailable"
)

// Dispatcher calls optional capabilities and swallows their failures.
// Haptic pulses are queued on a worker pool so the caller never waits on them.
type Dispatcher struct {
	pool    *worker.Pool
	caps    Set
	timeout time.Duration
	log     *logger.Logger
}

// NewDispatcher wires a capability set to a started pool. pool may be nil,
// in which case haptics are skipped.
func NewDispatcher(pool *worker.Pool, caps Set) *Dispatcher {
	return &Dispatcher{
		pool:    pool,
		caps:    caps,
		timeout: 2 * time.Second,
		log:     logger.Default().WithPrefix("capability"),
	}
}

// Vibrate queues a haptic pulse and returns at once. The returned error only
// says whether the pulse was queued; callers are free to ignore it.
func (d *Dispatcher) Vibrate(ctx context.Context, dur time.Duration) error {
	if d == nil || d.caps.Haptics == nil || d.pool == nil {
		return apperrors.NewCapabilityUnavailableError("haptics")
	}
	haptics := d.caps.Haptics
	job := worker.JobFunc{
		JobName: "vibrate",
		Fn: func(jobCtx context.Context) error {
			jobCtx, cancel := context.WithTimeout(jobCtx, d.timeout)
			defer cancel()
			return haptics.Vibrate(jobCtx, dur)
		},
	}
	if !d.pool.TrySubmit(job) {
		return apperrors.NewCapabilityUnavailableError("haptics")
	}
	return nil
}

// Share tries the share sheet first and falls back to the clipboard.
func (d *Dispatcher) Share(ctx context.Context, title, url string) Outcome {
	if d == nil {
		return OutcomeUnavailable
	}
	if d.caps.Sharer != nil {
		err := d.guard(ctx, "share", func(ctx context.Context) error {
			return d.caps.Sharer.Share(ctx, title, url)
		})
		if err == nil {
			return OutcomeShared
		}
	}
	if d.caps.Clipboard != nil {
		err := d.guard(ctx, "clipboard", func(ctx context.Context) error {
			return d.caps.Clipboard.WriteText(ctx, url)
		})
		if err == nil {
			return OutcomeCopied
		}
	}
	return OutcomeUnavailable
}

// Install shows the install prompt if one is available. ok is false when
// no prompt could be shown.
func (d *Dispatcher) Install(ctx context.Context) (choice Choice, ok bool) {
	if d == nil || d.caps.Installer == nil {
		return ChoiceDismissed, false
	}
	choice = ChoiceDismissed
	err := d.guard(ctx, "install", func(ctx context.Context) error {
		c, err := d.caps.Installer.PromptInstall(ctx)
		if err != nil {
			return err
		}
		choice = c
		return nil
	})
	if err != nil {
		return ChoiceDismissed, false
	}
	return choice, true
}

// guard runs fn with a timeout and turns panics into errors.
func (d *Dispatcher) guard(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s panicked: %v", name, rec)
		}
		if err != nil {
			d.log.Debug("%s capability skipped: %v", name, err)
		}
	}()
	return fn(ctx)
}
