package domain

import (
	"testing"
	"time"

	customError "github.com/segyhp/student-loan-simulator/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentLoanStart = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

// newPaymentLoan has terms that accrue exactly 10.00 of interest every 73 days
func newPaymentLoan(t *testing.T) *Loan {
	t.Helper()
	loan, err := NewLoan("Payment Loan", "TEST-454590", decimal.RequireFromString("0.05"),
		decimal.RequireFromString("10.61"), paymentLoanStart, decimal.NewFromInt(1000))
	require.NoError(t, err)
	return loan
}

func unlockAfter(t *testing.T, loan *Loan, days int) {
	t.Helper()
	require.NoError(t, loan.Unlock(paymentLoanStart.AddDate(0, 0, days)))
}

func TestNewLoan(t *testing.T) {
	start := time.Date(2018, 3, 1, 15, 45, 0, 0, time.UTC)
	loan, err := NewLoan("Test Lender", "ABC-123456", decimal.RequireFromString("0.0325"),
		decimal.RequireFromString("25.73"), start, decimal.NewFromInt(5000))

	require.NoError(t, err)
	assert.Equal(t, "Test Lender", loan.LenderName())
	assert.Equal(t, "ABC-123456", loan.AccountNumber())
	assert.Equal(t, "Test Lender: ABC-123456", loan.Key())
	assert.True(t, loan.APR().Equal(decimal.RequireFromString("0.0325")))
	assert.True(t, loan.MinPayment().Equal(decimal.RequireFromString("25.73")))
	assert.True(t, loan.Principal().Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), loan.PaymentStartDate())
	assert.Equal(t, PaymentsLocked, loan.LockState())
	assert.Equal(t, loan.PaymentStartDate(), loan.LastPayment().PaymentDate)
	assert.True(t, loan.LastPayment().TotalPayment.IsZero())
}

func TestNewLoan_InvalidTerms(t *testing.T) {
	tests := []struct {
		name       string
		apr        string
		minPayment string
		principal  string
	}{
		{name: "percentage instead of fraction", apr: "3.25", minPayment: "10", principal: "50"},
		{name: "apr of exactly 100%", apr: "1.0", minPayment: "10", principal: "50"},
		{name: "negative apr", apr: "-0.01", minPayment: "10", principal: "50"},
		{name: "negative minimum payment", apr: "0.05", minPayment: "-10", principal: "50"},
		{name: "negative principal", apr: "0.05", minPayment: "10", principal: "-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := NewLoan("Lender", "1", decimal.RequireFromString(tt.apr),
				decimal.RequireFromString(tt.minPayment), paymentLoanStart, decimal.RequireFromString(tt.principal))

			assert.Nil(t, loan)
			assert.ErrorIs(t, err, customError.ErrInvalidTerms)
			assert.Equal(t, customError.ErrCodeInvalidTerms, customError.Code(err))
		})
	}
}

func TestLoan_InRepayment(t *testing.T) {
	loan := newPaymentLoan(t)

	assert.False(t, loan.InRepayment(paymentLoanStart.AddDate(0, 0, -1)))
	assert.True(t, loan.InRepayment(paymentLoanStart))
	assert.True(t, loan.InRepayment(paymentLoanStart.Add(1*time.Hour)))
	assert.True(t, loan.InRepayment(paymentLoanStart.AddDate(2, 0, 0)))
}

func TestLoan_UnlockAccruesInterest(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)

	payoff, err := loan.PayoffAmount()
	require.NoError(t, err)
	assert.True(t, payoff.Equal(decimal.NewFromInt(1010)), "got %v", payoff)
	assert.Equal(t, PaymentsUnlocked, loan.LockState())
	assert.Equal(t, paymentLoanStart.AddDate(0, 0, 73), loan.LastPayment().PaymentDate)
}

func TestLoan_InterestBasedOnDayBoundaries(t *testing.T) {
	// one hour before midnight, with a large balance so rounding cannot hide the day count
	start := time.Date(2018, 7, 1, 23, 0, 0, 0, time.UTC)
	loan, err := NewLoan("Payment Loan", "TEST-454590", decimal.RequireFromString("0.50"),
		decimal.RequireFromString("10.61"), start, decimal.NewFromInt(100000))
	require.NoError(t, err)

	// 72 days and 2 hours later is already the 73rd calendar day
	require.NoError(t, loan.Unlock(start.AddDate(0, 0, 72).Add(2*time.Hour)))

	payoff, err := loan.PayoffAmount()
	require.NoError(t, err)
	assert.True(t, payoff.Equal(decimal.NewFromInt(110000)), "got %v", payoff)
}

func TestLoan_MakePayment(t *testing.T) {
	tests := []struct {
		name              string
		payments          []string
		expectedPrincipal string
		expectedTotal     string
		expectedInterest  string
		expectedReduction string
	}{
		{
			name:              "payment covers interest then principal",
			payments:          []string{"30"},
			expectedPrincipal: "980",
			expectedTotal:     "30",
			expectedInterest:  "10",
			expectedReduction: "20",
		},
		{
			name:              "payment below accrued interest leaves principal",
			payments:          []string{"4"},
			expectedPrincipal: "1000",
			expectedTotal:     "4",
			expectedInterest:  "4",
			expectedReduction: "0",
		},
		{
			name:              "extra payment goes straight to principal",
			payments:          []string{"30", "30"},
			expectedPrincipal: "950",
			expectedTotal:     "60",
			expectedInterest:  "10",
			expectedReduction: "50",
		},
		{
			name:              "two partial interest payments",
			payments:          []string{"4", "8"},
			expectedPrincipal: "998",
			expectedTotal:     "12",
			expectedInterest:  "10",
			expectedReduction: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := newPaymentLoan(t)
			unlockAfter(t, loan, 73)

			for _, p := range tt.payments {
				require.NoError(t, loan.MakePayment(decimal.RequireFromString(p)))
			}

			details := loan.LastPayment()
			assert.True(t, loan.Principal().Equal(decimal.RequireFromString(tt.expectedPrincipal)), "principal %v", loan.Principal())
			assert.True(t, details.TotalPayment.Equal(decimal.RequireFromString(tt.expectedTotal)), "total %v", details.TotalPayment)
			assert.True(t, details.InterestPayment.Equal(decimal.RequireFromString(tt.expectedInterest)), "interest %v", details.InterestPayment)
			assert.True(t, details.PrincipalPayment.Equal(decimal.RequireFromString(tt.expectedReduction)), "principal paid %v", details.PrincipalPayment)
		})
	}
}

func TestLoan_MakePaymentWhileLocked(t *testing.T) {
	loan := newPaymentLoan(t)

	err := loan.MakePayment(decimal.NewFromInt(30))

	assert.ErrorIs(t, err, customError.ErrLockState)
	assert.True(t, loan.Principal().Equal(decimal.NewFromInt(1000)))
}

func TestLoan_CannotOverpay(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)

	err := loan.MakePayment(decimal.NewFromInt(100000))

	assert.ErrorIs(t, err, customError.ErrOverpayment)
	assert.True(t, loan.Principal().Equal(decimal.NewFromInt(1000)))
	assert.True(t, loan.LastPayment().TotalPayment.IsZero())
}

func TestLoan_NegativePayment(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)

	err := loan.MakePayment(decimal.NewFromInt(-5))

	assert.ErrorIs(t, err, customError.ErrInvalidPaymentAmount)
	assert.True(t, loan.Principal().Equal(decimal.NewFromInt(1000)))
}

func TestLoan_PayoffAmountWhileLocked(t *testing.T) {
	loan := newPaymentLoan(t)

	_, err := loan.PayoffAmount()

	assert.ErrorIs(t, err, customError.ErrLockState)
}

func TestLoan_RedundantTransitions(t *testing.T) {
	t.Run("unlock twice", func(t *testing.T) {
		loan := newPaymentLoan(t)
		unlockAfter(t, loan, 73)

		assert.ErrorIs(t, loan.Unlock(paymentLoanStart.AddDate(0, 0, 73)), customError.ErrLockState)
	})

	t.Run("lock twice", func(t *testing.T) {
		loan := newPaymentLoan(t)

		assert.ErrorIs(t, loan.Lock(), customError.ErrLockState)
	})
}

func TestLoan_LockRequiresMinimumPayment(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)

	err := loan.Lock()
	assert.ErrorIs(t, err, customError.ErrMinimumNotMet)
	assert.Equal(t, PaymentsUnlocked, loan.LockState())

	require.NoError(t, loan.MakePayment(decimal.RequireFromString("10.61")))
	assert.NoError(t, loan.Lock())
	assert.Equal(t, PaymentsLocked, loan.LockState())
}

func TestLoan_LockPreservesAndUnlockClearsDetails(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)
	require.NoError(t, loan.MakePayment(decimal.NewFromInt(30)))
	require.NoError(t, loan.Lock())

	details := loan.LastPayment()
	assert.True(t, details.TotalPayment.Equal(decimal.NewFromInt(30)))
	assert.True(t, details.InterestPayment.Equal(decimal.NewFromInt(10)))
	assert.True(t, details.PrincipalPayment.Equal(decimal.NewFromInt(20)))

	unlockAfter(t, loan, 146)

	details = loan.LastPayment()
	assert.True(t, loan.Principal().Equal(decimal.NewFromInt(980)))
	assert.True(t, details.TotalPayment.IsZero())
	assert.True(t, details.InterestPayment.IsZero())
	assert.True(t, details.PrincipalPayment.IsZero())
	assert.Equal(t, paymentLoanStart.AddDate(0, 0, 146), details.PaymentDate)
}

func TestLoan_PayOff(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)
	assert.False(t, loan.PaidOff())

	payoff, err := loan.PayoffAmount()
	require.NoError(t, err)
	require.NoError(t, loan.MakePayment(payoff))

	assert.True(t, loan.PaidOff())
	assert.True(t, loan.Principal().IsZero())

	// nothing is left to pay
	assert.ErrorIs(t, loan.MakePayment(decimal.RequireFromString("0.01")), customError.ErrOverpayment)
}

func TestLoan_LockPaidOffLoanBelowMinimum(t *testing.T) {
	loan := newPaymentLoan(t)
	unlockAfter(t, loan, 73)

	// leave a penny behind
	payoff, err := loan.PayoffAmount()
	require.NoError(t, err)
	require.NoError(t, loan.MakePayment(payoff.Sub(decimal.RequireFromString("0.01"))))
	require.NoError(t, loan.Lock())

	// a penny accrues nothing in two days
	unlockAfter(t, loan, 75)
	payoff, err = loan.PayoffAmount()
	require.NoError(t, err)
	assert.True(t, payoff.Equal(decimal.RequireFromString("0.01")))

	require.NoError(t, loan.MakePayment(payoff))
	assert.True(t, loan.PaidOff())
	assert.NoError(t, loan.Lock())
}

func TestLockState_String(t *testing.T) {
	assert.Equal(t, "locked", PaymentsLocked.String())
	assert.Equal(t, "unlocked", PaymentsUnlocked.String())
	assert.Equal(t, "LockState(7)", LockState(7).String())
}
