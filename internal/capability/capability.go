// Package capability wraps optional platform features (share, clipboard,
// install prompt, haptics). Every call is best-effort: a missing capability,
// an error or a panic is logged at debug level and otherwise ignored.
package capability

import (
	"context"
	"time"

	apperrors "github.com/vytor/phishdefense/internal/errors"
)

type Sharer interface {
	Share(ctx context.Context, title, url string) error
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Choice is the user's answer to an install prompt.
type Choice string

const (
	ChoiceAccepted  Choice = "accepted"
	ChoiceDismissed Choice = "dismissed"
)

type Installer interface {
	PromptInstall(ctx context.Context) (Choice, error)
}

type Haptics interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// Unavailable implements every capability by refusing it.
type Unavailable struct{}

func (Unavailable) Share(context.Context, string, string) error {
	return apperrors.NewCapabilityUnavailableError("share")
}

func (Unavailable) WriteText(context.Context, string) error {
	return apperrors.NewCapabilityUnavailableError("clipboard")
}

func (Unavailable) PromptInstall(context.Context) (Choice, error) {
	return ChoiceDismissed, apperrors.NewCapabilityUnavailableError("install prompt")
}

func (Unavailable) Vibrate(context.Context, time.Duration) error {
	return apperrors.NewCapabilityUnavailableError("haptics")
}

// Set groups the capabilities a front-end can offer. Nil fields mean the
// capability is absent.
type Set struct {
	Sharer    Sharer
	Clipboard Clipboard
	Installer Installer
	Haptics   Haptics
}
