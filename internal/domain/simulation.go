package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for requests and responses

// LoanDefinition describes a loan before it enters a simulation.
// APR is a fraction: 3.25% is 0.0325.
type LoanDefinition struct {
	LenderName        string          `json:"lender_name" mapstructure:"lender_name" validate:"required"`
	AccountNumber     string          `json:"account_number" mapstructure:"account_number" validate:"required"`
	APR               decimal.Decimal `json:"apr" mapstructure:"apr" validate:"decimal_gte=0"`
	MinPayment        decimal.Decimal `json:"min_payment" mapstructure:"min_payment" validate:"decimal_gte=0"`
	StartDate         string          `json:"start_date" mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	StartingPrincipal decimal.Decimal `json:"starting_principal" mapstructure:"starting_principal" validate:"decimal_gte=0"`
}

// PaymentDefinition is a single scheduled payment
type PaymentDefinition struct {
	Date   string          `json:"date" mapstructure:"date" validate:"required,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount" mapstructure:"amount" validate:"decimal_gte=0"`
}

// RecurringPaymentDefinition schedules Amount on the same day of every month,
// Months times, starting at StartDate
type RecurringPaymentDefinition struct {
	StartDate string          `json:"start_date" mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	Months    int             `json:"months" mapstructure:"months" validate:"gt=0,lte=1200"`
	Amount    decimal.Decimal `json:"amount" mapstructure:"amount" validate:"decimal_gte=0"`
}

type SimulationRequest struct {
	Loans     []LoanDefinition             `json:"loans" mapstructure:"loans" validate:"dive"`
	Payments  []PaymentDefinition          `json:"payments" mapstructure:"payments" validate:"dive"`
	Recurring []RecurringPaymentDefinition `json:"recurring" mapstructure:"recurring" validate:"dive"`
}

// LoanSummary reports where a loan ended up after a simulation
type LoanSummary struct {
	Key                string          `json:"key"`
	LenderName         string          `json:"lender_name"`
	AccountNumber      string          `json:"account_number"`
	StartingPrincipal  decimal.Decimal `json:"starting_principal"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	PaidOff            bool            `json:"paid_off"`
	PaidOffDate        *time.Time      `json:"paid_off_date,omitempty"`
}

type SimulationResult struct {
	RunID          uuid.UUID       `json:"run_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Loans          []LoanSummary   `json:"loans"`
	Cycles         []*CycleRecord  `json:"cycles"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	Unallocated    decimal.Decimal `json:"unallocated"`
}

// SimulationRun is the persisted header of a simulation result
type SimulationRun struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	RequestHash    string          `json:"request_hash" db:"request_hash"`
	CycleCount     int             `json:"cycle_count" db:"cycle_count"`
	LoanCount      int             `json:"loan_count" db:"loan_count"`
	AllPaidOff     bool            `json:"all_paid_off" db:"all_paid_off"`
	TotalPrincipal decimal.Decimal `json:"total_principal" db:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalPayment   decimal.Decimal `json:"total_payment" db:"total_payment"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type RunCyclesResponse struct {
	Run    *SimulationRun `json:"run"`
	Cycles []*CycleRow    `json:"cycles"`
}
