package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/vytor/phishdefense/internal/capability"
	"github.com/vytor/phishdefense/internal/catalog"
	"github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/quiz"
)

// SessionService keeps one quiz controller per browser session
type SessionService interface {
	Get(ctx context.Context, id string) (*quiz.Controller, error)
	State(ctx context.Context, id string) (models.Snapshot, error)
	Start(ctx context.Context, id string, hard bool) (models.Snapshot, error)
	Answer(ctx context.Context, id string, verdict bool) (models.Snapshot, error)
	Restart(ctx context.Context, id string) (models.Snapshot, error)
	Sweep(now time.Time) int
	Len() int
	Close()
}

// SessionConfig holds what every session controller is built from
type SessionConfig struct {
	Catalog      *catalog.Catalog
	History      *leaderboard.Book
	Haptics      capability.Haptics
	RoundSize    int
	RoundSeconds int
	TTL          time.Duration
	TickInterval time.Duration
	Now          func() time.Time
}

type session struct {
	ctrl     *quiz.Controller
	lastSeen time.Time
}

type sessionService struct {
	cfg SessionConfig

	mu       sync.Mutex
	sessions map[string]*session
	seed     *rand.Rand
	closed   bool

	// countdowns outlive the request that started them
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg SessionConfig) SessionService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.History == nil {
		cfg.History = leaderboard.NewBook(context.Background(), nil, leaderboard.DefaultLimit)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &sessionService{
		cfg:      cfg,
		sessions: make(map[string]*session),
		seed:     rand.New(rand.NewSource(cfg.Now().UnixNano())),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

func (s *sessionService) Get(ctx context.Context, id string) (*quiz.Controller, error) {
	if id == "" {
		return nil, errors.NewBadRequestError("missing session id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.NewInternalError(context.Canceled)
	}

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.cfg.Now()
		return sess.ctrl, nil
	}

	log := logger.FromContext(ctx)
	sessionLog := log.WithField("session", shortID(id))
	ctrl := quiz.NewController(s.cfg.Catalog, quiz.Options{
		History:      s.cfg.History,
		Haptics:      s.cfg.Haptics,
		Now:          s.cfg.Now,
		Rand:         rand.New(rand.NewSource(s.seed.Int63())),
		RoundSize:    s.cfg.RoundSize,
		RoundSeconds: s.cfg.RoundSeconds,
		Logger:       sessionLog,
	})
	ctrl.OnFinish(func(r models.ScoreRecord) {
		sessionLog.Info("round recorded: score=%d/%d hard=%t", r.Score, r.Total, r.Hard)
	})
	s.sessions[id] = &session{ctrl: ctrl, lastSeen: s.cfg.Now()}
	log.Debug("session created: id=%s active=%d", shortID(id), len(s.sessions))
	return ctrl, nil
}

func (s *sessionService) State(ctx context.Context, id string) (models.Snapshot, error) {
	ctrl, err := s.Get(ctx, id)
	if err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

func (s *sessionService) Start(ctx context.Context, id string, hard bool) (models.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting round: session=%s hard=%t", shortID(id), hard)

	ctrl, err := s.Get(ctx, id)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap, err := ctrl.StartRound(ctx, hard)
	if err != nil {
		log.Warn("round started without questions: %v", err)
		return snap, err
	}

	quiz.StartCountdown(s.baseCtx, ctrl, s.cfg.TickInterval, nil)
	return snap, nil
}

func (s *sessionService) Answer(ctx context.Context, id string, verdict bool) (models.Snapshot, error) {
	ctrl, err := s.Get(ctx, id)
	if err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.SubmitAnswer(ctx, verdict), nil
}

func (s *sessionService) Restart(ctx context.Context, id string) (models.Snapshot, error) {
	ctrl, err := s.Get(ctx, id)
	if err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.Restart(), nil
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *sessionService) Sweep(now time.Time) int {
	s.mu.Lock()
	var expired []*quiz.Controller
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.cfg.TTL {
			expired = append(expired, sess.ctrl)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	if len(expired) > 0 {
		logger.Default().WithPrefix("sessions").Debug("swept %d idle sessions", len(expired))
	}
	return len(expired)
}

func (s *sessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops every session's countdown. Later calls to Get fail.
func (s *sessionService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	s.cancel()
	for _, sess := range sessions {
		sess.ctrl.Close()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
