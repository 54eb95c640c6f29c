package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSimulationService struct {
	mock.Mock
}

func (m *MockSimulationService) RunSimulation(ctx context.Context, request *domain.SimulationRequest, sinks ...service.CycleRecordSink) (*domain.SimulationResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimulationResult), args.Error(1)
}

func (m *MockSimulationService) GetRunCycles(ctx context.Context, runID uuid.UUID) (*domain.RunCyclesResponse, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunCyclesResponse), args.Error(1)
}
