package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) CreateRun(ctx context.Context, run *domain.SimulationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSimulationRepository) CreateCycles(ctx context.Context, rows []*domain.CycleRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetRun(ctx context.Context, runID uuid.UUID) (*domain.SimulationRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimulationRun), args.Error(1)
}

func (m *MockSimulationRepository) GetCyclesByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.CycleRow, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CycleRow), args.Error(1)
}

type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockResultStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
