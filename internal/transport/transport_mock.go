package transport

import (
	"context"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport for testing.
type MockTransport struct {
	mock.Mock
}

var _ contract.Transport = &MockTransport{} // Compile-time check

// Get implements the Transport interface.
func (m *MockTransport) Get(ctx context.Context, rawURL string, mode schema.CacheMode) ([]byte, error) {
	args := m.Called(ctx, rawURL, mode)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

// Post implements the Transport interface.
func (m *MockTransport) Post(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}
