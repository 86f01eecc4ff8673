// Package mocks provides testify mocks for the output ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/snapfork/internal/domain"
)

// MockPlatformClient is a mock implementation of out.PlatformClient.
type MockPlatformClient struct {
	mock.Mock
}

func (m *MockPlatformClient) ConfigVars(ctx context.Context, app string) (map[string]string, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockPlatformClient) CreateAddon(ctx context.Context, app string, opts domain.ForkOptions) (*domain.Addon, error) {
	args := m.Called(ctx, app, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Addon), args.Error(1)
}

func (m *MockPlatformClient) ListAddons(ctx context.Context, app string) ([]domain.Addon, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Addon), args.Error(1)
}

func (m *MockPlatformClient) DeleteAddon(ctx context.Context, app, addonName string) error {
	args := m.Called(ctx, app, addonName)
	return args.Error(0)
}

// MockDatabaseProbe is a mock implementation of out.DatabaseProbe.
type MockDatabaseProbe struct {
	mock.Mock
}

func (m *MockDatabaseProbe) InRecovery(ctx context.Context, info domain.ConnInfo) (bool, error) {
	args := m.Called(ctx, info)
	return args.Bool(0), args.Error(1)
}

// MockTransferClient is a mock implementation of out.TransferClient.
type MockTransferClient struct {
	mock.Mock
}

func (m *MockTransferClient) Capture(ctx context.Context, dbName string) (string, error) {
	args := m.Called(ctx, dbName)
	return args.String(0), args.Error(1)
}

func (m *MockTransferClient) Transfer(ctx context.Context, dbName, id string) (domain.TransferDetail, error) {
	args := m.Called(ctx, dbName, id)
	return args.Get(0).(domain.TransferDetail), args.Error(1)
}

// MockNotifier is a mock implementation of out.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

// InstantSleeper satisfies out.Sleeper without real delay, counting calls.
type InstantSleeper struct {
	Calls int
}

func (s *InstantSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.Calls++
	return ctx.Err()
}
