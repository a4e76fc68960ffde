package quiz

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vytor/phishdefense/internal/models"
)

// Countdown ticks a controller's active round once per interval until the
// round finishes, is replaced, or the countdown is stopped.
type Countdown struct {
	ctrl       *Controller
	interval   time.Duration
	generation uint64
	onTick     func(models.Snapshot)

	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once
	inCallback atomic.Bool
}

// StartCountdown attaches a countdown to the round currently running on c,
// replacing any countdown already attached. It returns nil when no round is
// active. onTick, if set, receives the snapshot after every tick.
func StartCountdown(ctx context.Context, c *Controller, interval time.Duration, onTick func(models.Snapshot)) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	cd := &Countdown{
		ctrl:     c,
		interval: interval,
		onTick:   onTick,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	generation, replaced, ok := c.attach(cd)
	if !ok {
		cancel()
		return nil
	}
	cd.generation = generation
	replaced.Stop()

	go cd.run(ctx)
	return cd
}

func (cd *Countdown) run(ctx context.Context) {
	defer close(cd.done)
	defer cd.ctrl.detach(cd)

	ticker := time.NewTicker(cd.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			snap, active := cd.ctrl.tick(ctx, cd)
			if cd.onTick != nil {
				cd.inCallback.Store(true)
				cd.onTick(snap)
				cd.inCallback.Store(false)
			}
			if !active || ctx.Err() != nil {
				return
			}
		}
	}
}

// Stop cancels the countdown and waits for it to exit. It is safe to call
// more than once and on a nil countdown. Called from within onTick, which
// runs on the countdown's own goroutine, it cancels without waiting; the
// goroutine exits as soon as the callback returns.
func (cd *Countdown) Stop() {
	if cd == nil {
		return
	}
	cd.stopOnce.Do(cd.cancel)
	if cd.inCallback.Load() {
		return
	}
	<-cd.done
}

// Done is closed once the countdown has exited.
func (cd *Countdown) Done() <-chan struct{} {
	return cd.done
}
