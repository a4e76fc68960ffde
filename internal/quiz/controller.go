// Package quiz runs a timed round of phishing-or-legitimate questions.
//
// A Controller owns one round at a time. It moves through NotStarted, Active
// and Finished, and appends exactly one score record to the history each
// time a round finishes, whether by answering the last question or by
// running out of time.
package quiz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/vytor/phishdefense/internal/capability"
	"github.com/vytor/phishdefense/internal/catalog"
	apperrors "github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
)

const (
	DefaultRoundSize    = 10
	DefaultRoundSeconds = 300

	// WrongAnswerPulse is the haptic pulse played on an incorrect answer.
	WrongAnswerPulse = 60 * time.Millisecond
)

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	// History receives one record per finished round. A nil History keeps
	// scores in memory only.
	History *leaderboard.Book
	// Haptics is pulsed on wrong answers. Failures are ignored.
	Haptics capability.Haptics

	Now          func() time.Time
	Rand         *rand.Rand
	RoundSize    int
	RoundSeconds int
	Logger       *logger.Logger
}

// FinishFunc observes a round's score record after it has been stored.
type FinishFunc func(models.ScoreRecord)

type round struct {
	hard      bool
	pool      []models.Question
	position  int
	score     int
	remaining int
	log       []models.AnswerEntry
	recorded  bool
}

func (r *round) finished() bool {
	return r.remaining == 0 || r.position >= len(r.pool)
}

// Controller holds the state of one player's rounds. It is safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	history *leaderboard.Book
	haptics capability.Haptics
	now     func() time.Time
	rng     *rand.Rand
	size    int
	seconds int
	log     *logger.Logger

	hard       bool
	round      *round
	generation uint64
	timer      *Countdown
	observers  []FinishFunc
	closed     bool
}

// NewController creates a controller in the NotStarted phase.
func NewController(cat *catalog.Catalog, opts Options) *Controller {
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	c := &Controller{
		catalog: cat,
		history: opts.History,
		haptics: opts.Haptics,
		now:     opts.Now,
		rng:     opts.Rand,
		size:    opts.RoundSize,
		seconds: opts.RoundSeconds,
		log:     opts.Logger,
	}
	if c.history == nil {
		c.history = leaderboard.NewBook(context.Background(), nil, leaderboard.DefaultLimit)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.size <= 0 {
		c.size = DefaultRoundSize
	}
	if c.seconds <= 0 {
		c.seconds = DefaultRoundSeconds
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	c.log = c.log.WithPrefix("quiz")
	return c
}

// OnFinish registers fn to be called after each finished round is recorded.
func (c *Controller) OnFinish(fn FinishFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// RoundSeconds is the time budget of a fresh round.
func (c *Controller) RoundSeconds() int {
	return c.seconds
}

// SetHardMode changes the mode preference used by the next round.
func (c *Controller) SetHardMode(hard bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hard = hard
}

// StartRound draws a fresh pool and enters Active, discarding any round in
// progress without recording it. With no candidates the round finishes
// immediately at 0/0 and an EMPTY_CATALOG error is returned with the
// snapshot.
func (c *Controller) StartRound(ctx context.Context, hard bool) (models.Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, apperrors.NewBadRequestError("controller is closed")
	}

	candidates := c.catalog.Candidates(hard)
	c.shuffle(candidates)
	if len(candidates) > c.size {
		candidates = candidates[:c.size]
	}

	c.hard = hard
	c.generation++
	c.round = &round{
		hard:      hard,
		pool:      candidates,
		remaining: c.seconds,
		log:       []models.AnswerEntry{},
	}
	old := c.timer
	c.timer = nil
	c.log.Debug("round started: hard=%t pool=%d", hard, len(candidates))

	record, fire := c.settleLocked(ctx)
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	old.Stop()
	if fire {
		notify(observers, record)
	}
	if len(candidates) == 0 {
		return snap, apperrors.NewEmptyCatalogError(hard)
	}
	return snap, nil
}

// SubmitAnswer grades verdict (true means "phishing") against the current
// question. It does nothing when no round is active.
func (c *Controller) SubmitAnswer(ctx context.Context, verdict bool) models.Snapshot {
	c.mu.Lock()
	r := c.round
	if r == nil || r.recorded || r.finished() {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	q := r.pool[r.position]
	correct := verdict == q.IsPhishing
	if correct {
		r.score++
	}
	r.log = append(r.log, models.AnswerEntry{
		QuestionID:  q.ID,
		UserVerdict: verdict,
		WasCorrect:  correct,
	})
	r.position++
	c.log.Debug("answer: id=%s verdict=%s correct=%t", q.ID, models.VerdictLabel(verdict), correct)

	record, fire := c.settleLocked(ctx)
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	haptics := c.haptics
	c.mu.Unlock()

	if !correct && haptics != nil {
		if err := haptics.Vibrate(ctx, WrongAnswerPulse); err != nil {
			c.log.Debug("haptic pulse skipped: %v", err)
		}
	}
	if fire {
		notify(observers, record)
	}
	return snap
}

// Tick takes one second off the clock of the active round.
func (c *Controller) Tick(ctx context.Context) models.Snapshot {
	snap, _ := c.tick(ctx, nil)
	return snap
}

// tick decrements the clock. A non-nil cd limits the tick to the round the
// countdown was attached to. active reports whether that round still runs.
func (c *Controller) tick(ctx context.Context, cd *Countdown) (snap models.Snapshot, active bool) {
	c.mu.Lock()
	r := c.round
	if r == nil || r.recorded || (cd != nil && cd.generation != c.generation) {
		snap = c.snapshotLocked()
		c.mu.Unlock()
		return snap, false
	}

	if r.remaining > 0 {
		r.remaining--
	}

	record, fire := c.settleLocked(ctx)
	if fire && cd != nil && c.timer == cd {
		c.timer = nil
	}
	snap = c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	if fire {
		notify(observers, record)
	}
	return snap, !fire
}

// IsFinished reports whether the current round has run out of time or
// questions. It is false before the first round.
func (c *Controller) IsFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round != nil && c.round.finished()
}

// Restart discards the current round without recording it and returns to
// NotStarted. The mode preference is kept.
func (c *Controller) Restart() models.Snapshot {
	c.mu.Lock()
	c.round = nil
	c.generation++
	old := c.timer
	c.timer = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	old.Stop()
	c.log.Debug("round reset")
	return snap
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// History returns the score history, best first.
func (c *Controller) History() []models.ScoreRecord {
	return c.history.Records()
}

// Close stops any running countdown. A closed controller refuses new rounds.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	old := c.timer
	c.timer = nil
	c.mu.Unlock()

	old.Stop()
}

// attach installs cd as the countdown of the current round, returning the
// generation it may tick and any countdown it replaced. ok is false when no
// round is running.
func (c *Controller) attach(cd *Countdown) (generation uint64, replaced *Countdown, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.round == nil || c.round.recorded {
		return 0, nil, false
	}
	replaced = c.timer
	c.timer = cd
	return c.generation, replaced, true
}

func (c *Controller) detach(cd *Countdown) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == cd {
		c.timer = nil
	}
}

// settleLocked records the round the first time it is seen finished.
func (c *Controller) settleLocked(ctx context.Context) (models.ScoreRecord, bool) {
	r := c.round
	if r == nil || r.recorded || !r.finished() {
		return models.ScoreRecord{}, false
	}
	r.recorded = true

	record := models.ScoreRecord{
		When:  c.now().UTC(),
		Score: r.score,
		Total: len(r.pool),
		Hard:  r.hard,
	}
	c.history.Record(ctx, record)
	c.log.Info("round finished: score=%d/%d hard=%t", record.Score, record.Total, record.Hard)
	return record, true
}

func (c *Controller) observersLocked() []FinishFunc {
	out := make([]FinishFunc, len(c.observers))
	copy(out, c.observers)
	return out
}

func (c *Controller) snapshotLocked() models.Snapshot {
	r := c.round
	if r == nil {
		return models.Snapshot{
			Phase:     models.PhaseNotStarted,
			HardMode:  c.hard,
			Pool:      []models.Question{},
			AnswerLog: []models.AnswerEntry{},
		}
	}

	snap := models.Snapshot{
		Phase:            models.PhaseActive,
		HardMode:         r.hard,
		Pool:             append([]models.Question(nil), r.pool...),
		Position:         r.position,
		Score:            r.score,
		RemainingSeconds: r.remaining,
		AnswerLog:        append([]models.AnswerEntry{}, r.log...),
		Finished:         r.finished(),
	}
	if snap.Pool == nil {
		snap.Pool = []models.Question{}
	}
	if snap.Finished {
		snap.Phase = models.PhaseFinished
		snap.Review = make([]models.ReviewItem, len(r.log))
		for i, entry := range r.log {
			snap.Review[i] = models.ReviewItem{Question: r.pool[i], Answer: entry}
		}
	} else {
		q := r.pool[r.position]
		snap.Current = &q
	}
	return snap
}

// shuffle is an in-place Fisher-Yates shuffle.
func (c *Controller) shuffle(qs []models.Question) {
	for i := len(qs) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func notify(observers []FinishFunc, record models.ScoreRecord) {
	for _, fn := range observers {
		fn(record)
	}
}
