package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adframes/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendCommitSummary(ctx context.Context, toEmail string, summary *domain.CommitSummary) error {
	args := m.Called(ctx, toEmail, summary)
	return args.Error(0)
}
