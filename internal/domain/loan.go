package domain

import (
	"fmt"
	"time"

	customError "github.com/segyhp/student-loan-simulator/pkg/errors"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/shopspring/decimal"
)

// LockState gates payments on a loan. Unlocking opens a pay cycle and accrues
// interest, locking closes it once the minimum payment has been met.
type LockState int

const (
	PaymentsLocked LockState = iota
	PaymentsUnlocked
)

func (s LockState) String() string {
	switch s {
	case PaymentsLocked:
		return "locked"
	case PaymentsUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("LockState(%d)", int(s))
	}
}

// LastPaymentDetails accumulates what a loan received during its current pay cycle
type LastPaymentDetails struct {
	TotalPayment     decimal.Decimal `json:"total_payment"`
	InterestPayment  decimal.Decimal `json:"interest_payment"`
	PrincipalPayment decimal.Decimal `json:"principal_payment"`
	PaymentDate      time.Time       `json:"payment_date"`
}

// Loan represents a single student loan account.
//
// A Loan is mutated in place by the schedule that owns it and has no internal
// synchronization, so it must not be shared between concurrent runs.
type Loan struct {
	lenderName       string
	accountNumber    string
	apr              decimal.Decimal
	minPayment       decimal.Decimal
	paymentStartDate time.Time

	principal       decimal.Decimal
	lock            LockState
	accruedInterest decimal.Decimal
	lastPayment     LastPaymentDetails
}

// NewLoan creates a locked loan. The APR is a fraction (3.25% is 0.0325), so an APR of
// 1 or more is rejected as a percentage passed by mistake.
func NewLoan(lenderName, accountNumber string, apr, minPayment decimal.Decimal, paymentStartDate time.Time, startingPrincipal decimal.Decimal) (*Loan, error) {
	if apr.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("APR %s is 100%% or more, use a fraction (3.25%% is 0.0325)", apr.String()))
	}
	if apr.IsNegative() {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("APR %s cannot be negative", apr.String()))
	}
	if minPayment.IsNegative() {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("minimum payment %s cannot be negative", minPayment.String()))
	}
	if startingPrincipal.IsNegative() {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("starting principal %s cannot be negative", startingPrincipal.String()))
	}

	startDate := utils.DateOnly(paymentStartDate)

	return &Loan{
		lenderName:       lenderName,
		accountNumber:    accountNumber,
		apr:              apr,
		minPayment:       minPayment,
		paymentStartDate: startDate,
		principal:        startingPrincipal,
		lock:             PaymentsLocked,
		lastPayment: LastPaymentDetails{
			PaymentDate: startDate,
		},
	}, nil
}

func (l *Loan) LenderName() string              { return l.lenderName }
func (l *Loan) AccountNumber() string           { return l.accountNumber }
func (l *Loan) APR() decimal.Decimal            { return l.apr }
func (l *Loan) MinPayment() decimal.Decimal     { return l.minPayment }
func (l *Loan) PaymentStartDate() time.Time     { return l.paymentStartDate }
func (l *Loan) Principal() decimal.Decimal      { return l.principal }
func (l *Loan) LockState() LockState            { return l.lock }
func (l *Loan) LastPayment() LastPaymentDetails { return l.lastPayment }

// Key identifies the loan in logs and reports as "<lender>: <account>"
func (l *Loan) Key() string {
	return l.lenderName + ": " + l.accountNumber
}

// PaidOff reports whether the principal has reached zero
func (l *Loan) PaidOff() bool {
	return l.principal.IsZero()
}

// InRepayment reports whether payments are due on date
func (l *Loan) InRepayment(date time.Time) bool {
	return !utils.DateOnly(date).Before(l.paymentStartDate)
}

// PayoffAmount is the payment that clears the loan this pay cycle.
// Accrued interest is only known while payments are unlocked.
func (l *Loan) PayoffAmount() (decimal.Decimal, error) {
	if l.lock == PaymentsLocked {
		return decimal.Zero, customError.WrapLockState(l.Key(), "payoff amount is unavailable while payments are locked")
	}
	return l.principal.Add(l.accruedInterest), nil
}

// Unlock opens a pay cycle on paymentDate. Interest accrues from the previous
// cycle's date, then the per-cycle payment totals are cleared.
func (l *Loan) Unlock(paymentDate time.Time) error {
	if l.lock == PaymentsUnlocked {
		return customError.WrapLockState(l.Key(), "payments already unlocked")
	}

	// interest needs the previous cycle date, so calculate it before moving the date
	days := utils.CalendarDaysBetween(l.lastPayment.PaymentDate, paymentDate)
	l.accruedInterest = utils.CalculateAccruedInterest(l.principal, l.apr, days)

	l.lastPayment = LastPaymentDetails{
		PaymentDate: utils.DateOnly(paymentDate),
	}
	l.lock = PaymentsUnlocked

	return nil
}

// MakePayment applies payment to accrued interest first and the rest to principal.
// Several payments may be made within one pay cycle.
func (l *Loan) MakePayment(payment decimal.Decimal) error {
	if l.lock == PaymentsLocked {
		return customError.WrapLockState(l.Key(), "payments locked")
	}
	if payment.IsNegative() {
		return customError.WrapInvalidPaymentAmount(payment)
	}

	payoff := l.principal.Add(l.accruedInterest)
	if payment.GreaterThan(payoff) {
		return customError.WrapOverpayment(l.Key(), payment, payoff)
	}

	l.lastPayment.TotalPayment = l.lastPayment.TotalPayment.Add(payment)

	var interestPaid, principalPaid decimal.Decimal
	if payment.LessThan(l.accruedInterest) {
		// payment only covers interest
		interestPaid = payment
		l.accruedInterest = l.accruedInterest.Sub(payment)
	} else {
		interestPaid = l.accruedInterest
		principalPaid = payment.Sub(l.accruedInterest)
		l.accruedInterest = decimal.Zero
		l.principal = l.principal.Sub(principalPaid)
	}

	l.lastPayment.InterestPayment = l.lastPayment.InterestPayment.Add(interestPaid)
	l.lastPayment.PrincipalPayment = l.lastPayment.PrincipalPayment.Add(principalPaid)

	return nil
}

// Lock closes the pay cycle. The minimum payment must have been met unless the loan
// is paid off.
func (l *Loan) Lock() error {
	if l.lock == PaymentsLocked {
		return customError.WrapLockState(l.Key(), "payments already locked")
	}
	if !l.PaidOff() && l.lastPayment.TotalPayment.LessThan(l.minPayment) {
		return customError.WrapMinimumNotMet(l.Key(), l.lastPayment.TotalPayment, l.minPayment)
	}

	l.lock = PaymentsLocked
	return nil
}
