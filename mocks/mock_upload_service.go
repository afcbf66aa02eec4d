package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"adframes/internal/domain"
	"adframes/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Create(ctx context.Context, input service.CreateUploadInput) (*domain.UploadSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Get(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, ownerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) UpdateMapping(ctx context.Context, ownerID, sessionID uuid.UUID, overrides map[string]string) (*domain.UploadSession, error) {
	args := m.Called(ctx, ownerID, sessionID, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Preview(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, ownerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Commit(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, ownerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Cancel(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	args := m.Called(ctx, ownerID, sessionID)
	return args.Error(0)
}

func (m *MockUploadService) WriteErrorReport(ctx context.Context, ownerID, sessionID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, ownerID, sessionID, w)
	return args.Error(0)
}
