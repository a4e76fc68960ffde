// Package tui is the terminal front-end of the quiz.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vytor/phishdefense/internal/capability"
	"github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/quiz"
)

type tickMsg struct{ round int }

type shareMsg struct{ outcome capability.Outcome }

type installMsg struct {
	choice capability.Choice
	ok     bool
}

// Config wires the model to its collaborators.
type Config struct {
	Controller      *quiz.Controller
	Capabilities    *capability.Dispatcher
	ShareURL        string
	LeaderboardSize int
	Hard            bool
	// TickInterval defaults to one second.
	TickInterval time.Duration
}

// Model is the bubbletea model driving one controller.
type Model struct {
	ctx      context.Context
	ctrl     *quiz.Controller
	caps     *capability.Dispatcher
	shareURL string
	boardN   int
	interval time.Duration

	styles   Styles
	progress progress.Model

	snap      models.Snapshot
	hard      bool
	showClues bool
	round     int
	notice    string
	width     int
	quitting  bool
}

func New(ctx context.Context, cfg Config) Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = 8
	}
	cfg.Controller.SetHardMode(cfg.Hard)
	return Model{
		ctx:      ctx,
		ctrl:     cfg.Controller,
		caps:     cfg.Capabilities,
		shareURL: cfg.ShareURL,
		boardN:   cfg.LeaderboardSize,
		interval: cfg.TickInterval,
		styles:   DefaultStyles(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		snap:     cfg.Controller.Snapshot(),
		hard:     cfg.Hard,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) tick() tea.Cmd {
	round := m.round
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{round: round}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(10, min(msg.Width-4, 60))
		return m, nil

	case tickMsg:
		if msg.round != m.round || m.snap.Phase != models.PhaseActive {
			return m, nil
		}
		m.snap = m.ctrl.Tick(m.ctx)
		if m.snap.Phase != models.PhaseActive {
			return m, nil
		}
		return m, m.tick()

	case shareMsg:
		switch msg.outcome {
		case capability.OutcomeShared:
			m.notice = "Link shared."
		case capability.OutcomeCopied:
			m.notice = "Link copied to the clipboard."
		default:
			m.notice = "Sharing is not available here."
		}
		return m, nil

	case installMsg:
		switch {
		case !msg.ok:
			m.notice = "Installing is not available here."
		case msg.choice == capability.ChoiceAccepted:
			m.notice = "Installed."
		default:
			m.notice = "Install dismissed."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.snap.Phase {
	case models.PhaseNotStarted:
		switch key {
		case "h":
			m.hard = !m.hard
			m.ctrl.SetHardMode(m.hard)
		case "enter", " ":
			return m.start()
		case "i":
			return m, m.install()
		}

	case models.PhaseActive:
		switch key {
		case "p", "y":
			m.snap = m.ctrl.SubmitAnswer(m.ctx, true)
		case "l", "n":
			m.snap = m.ctrl.SubmitAnswer(m.ctx, false)
		case "c":
			m.showClues = !m.showClues
		case "r":
			return m.restart()
		}

	case models.PhaseFinished:
		switch key {
		case "r":
			return m.restart()
		case "enter":
			return m.start()
		case "s":
			return m, m.share()
		case "c":
			m.showClues = !m.showClues
		}
	}
	return m, nil
}

func (m Model) start() (tea.Model, tea.Cmd) {
	m.notice = ""
	m.round++
	snap, err := m.ctrl.StartRound(m.ctx, m.hard)
	m.snap = snap
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			m.notice = appErr.Message
		} else {
			m.notice = err.Error()
		}
	}
	if m.snap.Phase != models.PhaseActive {
		return m, nil
	}
	return m, m.tick()
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	m.notice = ""
	m.round++
	m.snap = m.ctrl.Restart()
	return m, nil
}

func (m Model) share() tea.Cmd {
	caps, ctx, url := m.caps, m.ctx, m.shareURL
	return func() tea.Msg {
		return shareMsg{outcome: caps.Share(ctx, "Phishing Defense", url)}
	}
}

func (m Model) install() tea.Cmd {
	caps, ctx := m.caps, m.ctx
	return func() tea.Msg {
		choice, ok := caps.Install(ctx)
		return installMsg{choice: choice, ok: ok}
	}
}

// Snapshot is the state the model last rendered.
func (m Model) Snapshot() models.Snapshot {
	return m.snap
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Phishing Defense"))
	sb.WriteString("\n\n")

	switch m.snap.Phase {
	case models.PhaseNotStarted:
		m.viewStart(&sb)
	case models.PhaseActive:
		m.viewQuestion(&sb)
	case models.PhaseFinished:
		m.viewResults(&sb)
	}

	if m.notice != "" {
		sb.WriteString("\n" + m.styles.Notice.Render(m.notice) + "\n")
	}
	return sb.String()
}

func (m Model) viewStart(sb *strings.Builder) {
	mode := "off"
	if m.hard {
		mode = "on"
	}
	fmt.Fprintf(sb, "Decide for each message whether it is phishing or legitimate.\n")
	fmt.Fprintf(sb, "You have %s for the round.\n\n", models.FormatClock(m.ctrl.RoundSeconds()))
	fmt.Fprintf(sb, "Hard mode: %s\n\n", mode)
	m.viewLeaderboard(sb)
	sb.WriteString("\n" + m.styles.Help.Render("enter start • h hard mode • i install • q quit") + "\n")
}

func (m Model) viewQuestion(sb *strings.Builder) {
	s := m.snap
	q := s.Current
	if q == nil {
		return
	}

	fmt.Fprintf(sb, "Question %d/%d   Score %d   %s\n", s.Position+1, s.Total(), s.Score,
		m.styles.Clock.Render(s.Clock()))
	sb.WriteString(m.progress.ViewAs(s.Progress()) + "\n\n")

	card := m.styles.Kind.Render(strings.ToUpper(q.Kind)) + "\n" + m.styles.Prompt.Render(q.Prompt)
	if m.showClues && len(q.Clues) > 0 {
		card += "\n\n" + m.styles.Muted.Render("Clues: "+strings.Join(q.Clues, "; "))
	}
	sb.WriteString(m.styles.Card.Render(card) + "\n\n")
	sb.WriteString(m.styles.Help.Render("p phishing • l legitimate • c clues • r restart • q quit") + "\n")
}

func (m Model) viewResults(sb *strings.Builder) {
	s := m.snap
	fmt.Fprintf(sb, "Result: %d/%d", s.Score, s.Total())
	if s.RemainingSeconds == 0 && s.Total() > 0 {
		sb.WriteString("  (time is up)")
	}
	sb.WriteString("\n\n")

	for _, item := range s.Review {
		mark := m.styles.Good.Render("✓")
		if !item.Answer.WasCorrect {
			mark = m.styles.Bad.Render("✗")
		}
		fmt.Fprintf(sb, "%s %s: you said %s, it was %s\n", mark, item.Question.Kind,
			models.VerdictLabel(item.Answer.UserVerdict), models.VerdictLabel(item.Question.IsPhishing))
		if m.showClues {
			sb.WriteString(m.styles.Muted.Render("  "+item.Question.Explanation) + "\n")
		}
	}
	sb.WriteString("\n")
	m.viewLeaderboard(sb)
	sb.WriteString("\n" + m.styles.Help.Render("r restart • enter play again • s share • c explanations • q quit") + "\n")
}

func (m Model) viewLeaderboard(sb *strings.Builder) {
	top := leaderboard.Top(m.ctrl.History(), m.boardN)
	sb.WriteString(m.styles.Title.Render("Best scores") + "\n")
	if len(top) == 0 {
		sb.WriteString(m.styles.Muted.Render("No rounds played yet.") + "\n")
		return
	}
	for i, r := range top {
		fmt.Fprintf(sb, "%2d. %2d/%-2d %-6s %s\n", i+1, r.Score, r.Total, r.ModeLabel(),
			m.styles.Muted.Render(r.When.Local().Format("2006-01-02 15:04")))
	}
}
