package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/domain"
)

// SimulationRepository defines the interface for simulation run storage
type SimulationRepository interface {
	// CreateRun stores the header of a finished simulation
	CreateRun(ctx context.Context, run *domain.SimulationRun) error

	// CreateCycles stores cycle rows in a single transaction
	CreateCycles(ctx context.Context, rows []*domain.CycleRow) error

	// GetRun retrieves a run by ID, returning sql.ErrNoRows when it does not exist
	GetRun(ctx context.Context, runID uuid.UUID) (*domain.SimulationRun, error)

	// GetCyclesByRunID retrieves a run's cycle rows ordered by date and loan
	GetCyclesByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.CycleRow, error)
}
