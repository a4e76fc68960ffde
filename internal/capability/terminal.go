package capability

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	apperrors "github.com/vytor/phishdefense/internal/errors"
)

// Bell is the terminal stand-in for a vibration: it rings the BEL character.
type Bell struct {
	mu  sync.Mutex
	Out io.Writer
}

func (b *Bell) Vibrate(_ context.Context, _ time.Duration) error {
	if b == nil || b.Out == nil {
		return apperrors.NewCapabilityUnavailableError("haptics")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.Out, "\a")
	return err
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return apperrors.NewCapabilityUnavailableError("clipboard")
	}
	return clipboard.WriteAll(text)
}
