package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/phishdefense/internal/capability"
)

// MockHaptics is a mock implementation of capability.Haptics
type MockHaptics struct {
	mock.Mock
}

func (m *MockHaptics) Vibrate(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockSharer is a mock implementation of capability.Sharer
type MockSharer struct {
	mock.Mock
}

func (m *MockSharer) Share(ctx context.Context, title, url string) error {
	args := m.Called(ctx, title, url)
	return args.Error(0)
}

// MockClipboard is a mock implementation of capability.Clipboard
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) WriteText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// MockInstaller is a mock implementation of capability.Installer
type MockInstaller struct {
	mock.Mock
}

func (m *MockInstaller) PromptInstall(ctx context.Context) (capability.Choice, error) {
	args := m.Called(ctx)
	return args.Get(0).(capability.Choice), args.Error(1)
}
