package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanCyclePayment is what a single loan received during one pay cycle
type LoanCyclePayment struct {
	Key           string          `json:"key"`
	LenderName    string          `json:"lender_name"`
	AccountNumber string          `json:"account_number"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	Total         decimal.Decimal `json:"total"`
}

// CycleRecord summarises one pay cycle. Loans holds one entry per loan of the
// schedule, in the schedule's loan order, with zeros for loans not paid this cycle.
type CycleRecord struct {
	Date           time.Time          `json:"date"`
	Loans          []LoanCyclePayment `json:"loans"`
	TotalPrincipal decimal.Decimal    `json:"total_principal"`
	TotalInterest  decimal.Decimal    `json:"total_interest"`
	TotalPayment   decimal.Decimal    `json:"total_payment"`
	Unallocated    decimal.Decimal    `json:"unallocated"` // moneypot left after every eligible loan was paid off
}

// CycleRow is a single loan's line of a persisted cycle record
type CycleRow struct {
	RunID         uuid.UUID       `json:"run_id" db:"run_id"`
	CycleDate     time.Time       `json:"cycle_date" db:"cycle_date"`
	LoanIndex     int             `json:"loan_index" db:"loan_index"`
	LenderName    string          `json:"lender_name" db:"lender_name"`
	AccountNumber string          `json:"account_number" db:"account_number"`
	PrincipalPaid decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	TotalPaid     decimal.Decimal `json:"total_paid" db:"total_paid"`
}

// Rows flattens the record into one CycleRow per loan
func (r *CycleRecord) Rows(runID uuid.UUID) []*CycleRow {
	rows := make([]*CycleRow, 0, len(r.Loans))
	for i, lp := range r.Loans {
		rows = append(rows, &CycleRow{
			RunID:         runID,
			CycleDate:     r.Date,
			LoanIndex:     i,
			LenderName:    lp.LenderName,
			AccountNumber: lp.AccountNumber,
			PrincipalPaid: lp.Principal,
			InterestPaid:  lp.Interest,
			TotalPaid:     lp.Total,
		})
	}
	return rows
}
