package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/domain"

	"github.com/jmoiron/sqlx"
)

type simulationRepository struct {
	db *sqlx.DB
}

func NewSimulationRepository(db *sqlx.DB) SimulationRepository {
	return &simulationRepository{db: db}
}

func (r *simulationRepository) CreateRun(ctx context.Context, run *domain.SimulationRun) error {
	query := `
		INSERT INTO simulation_runs (id, request_hash, cycle_count, loan_count, all_paid_off, total_principal, total_interest, total_payment, created_at)
		VALUES (:id, :request_hash, :cycle_count, :loan_count, :all_paid_off, :total_principal, :total_interest, :total_payment, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

func (r *simulationRepository) CreateCycles(ctx context.Context, rows []*domain.CycleRow) error {
	query := `
		INSERT INTO simulation_cycles (run_id, cycle_date, loan_index, lender_name, account_number, principal_paid, interest_paid, total_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			row.RunID,
			row.CycleDate,
			row.LoanIndex,
			row.LenderName,
			row.AccountNumber,
			row.PrincipalPaid,
			row.InterestPaid,
			row.TotalPaid,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *simulationRepository) GetRun(ctx context.Context, runID uuid.UUID) (*domain.SimulationRun, error) {
	query := `
		SELECT id, request_hash, cycle_count, loan_count, all_paid_off, total_principal, total_interest, total_payment, created_at
		FROM simulation_runs
		WHERE id = $1
	`

	var run domain.SimulationRun
	if err := r.db.GetContext(ctx, &run, query, runID); err != nil {
		return nil, err
	}

	return &run, nil
}

func (r *simulationRepository) GetCyclesByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.CycleRow, error) {
	query := `
		SELECT run_id, cycle_date, loan_index, lender_name, account_number, principal_paid, interest_paid, total_paid
		FROM simulation_cycles
		WHERE run_id = $1
		ORDER BY cycle_date, loan_index
	`

	var rows []*domain.CycleRow
	if err := r.db.SelectContext(ctx, &rows, query, runID); err != nil {
		return nil, err
	}

	return rows, nil
}
