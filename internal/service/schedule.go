package service

import (
	"sort"
	"time"

	"github.com/segyhp/student-loan-simulator/internal/domain"
	customError "github.com/segyhp/student-loan-simulator/pkg/errors"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/shopspring/decimal"
)

// Schedule simulates repayment of a set of loans against a list of scheduled payments.
//
// Each pay cycle pays the minimum on every loan in repayment, then spends what is left
// on the highest APR loan first. The loans are mutated in place and must not be used
// by anyone else while GenerateSchedule runs. A Schedule runs exactly once.
type Schedule struct {
	loans          []*domain.Loan
	payments       []domain.ScheduledPayment
	currentPayDate time.Time
	sink           CycleRecordSink
}

// NewSchedule sorts the payments by date and points the schedule at the first one.
// Without payments the current pay date is the earliest loan start date.
// A nil sink discards the cycle records.
func NewSchedule(loans []*domain.Loan, payments []domain.ScheduledPayment, sink CycleRecordSink) (*Schedule, error) {
	if len(loans) == 0 {
		return nil, customError.WrapEmptyLoanSet()
	}
	if sink == nil {
		sink = discardSink{}
	}

	sorted := make([]domain.ScheduledPayment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaymentDate.Before(sorted[j].PaymentDate)
	})

	s := &Schedule{
		loans:    loans,
		payments: sorted,
		sink:     sink,
	}

	if len(sorted) > 0 {
		s.currentPayDate = utils.DateOnly(sorted[0].PaymentDate)
	} else {
		s.currentPayDate = earliestStartDate(loans)
	}

	return s, nil
}

// CurrentPayDate is the date of the next pay cycle to run
func (s *Schedule) CurrentPayDate() time.Time {
	return s.currentPayDate
}

// Loans returns the schedule's loans, in the order they were given
func (s *Schedule) Loans() []*domain.Loan {
	return s.loans
}

// GenerateSchedule runs pay cycles until the scheduled payments run out or every loan
// is paid off. Any error aborts the run; payments already applied in the failing cycle
// are not rolled back.
func (s *Schedule) GenerateSchedule() error {
	for len(s.payments) > 0 && !s.allPaidOff() {
		if err := s.runPayCycle(); err != nil {
			return err
		}
		s.advancePayDate()
	}
	return nil
}

func (s *Schedule) runPayCycle() error {
	loans := s.thisPayCyclesLoans()

	moneypot, err := s.thisPayCyclesMoneypot()
	if err != nil {
		return err
	}

	if err := s.unlockPayments(loans); err != nil {
		return err
	}

	required, err := minimumPayments(loans)
	if err != nil {
		return err
	}
	if moneypot.LessThan(required) {
		return customError.WrapInsufficientFunds(utils.FormatDate(s.currentPayDate), moneypot, required)
	}

	paid, loans, err := makeMinimumPayments(loans)
	if err != nil {
		return err
	}
	moneypot = moneypot.Sub(paid)

	loans, moneypot, err = makeExtraPayments(loans, moneypot)
	if err != nil {
		return err
	}

	if err := lockPayments(loans); err != nil {
		return err
	}

	return s.sink.WriteCycle(s.cycleRecord(moneypot))
}

// thisPayCyclesLoans returns the loans in repayment that are not paid off, keeping loan order
func (s *Schedule) thisPayCyclesLoans() []*domain.Loan {
	subset := make([]*domain.Loan, 0, len(s.loans))
	for _, loan := range s.loans {
		if loan.InRepayment(s.currentPayDate) && !loan.PaidOff() {
			subset = append(subset, loan)
		}
	}
	return subset
}

func (s *Schedule) thisPayCyclesMoneypot() (decimal.Decimal, error) {
	for _, payment := range s.payments {
		if utils.SameDate(payment.PaymentDate, s.currentPayDate) {
			return payment.TotalPayment, nil
		}
	}
	return decimal.Zero, customError.WrapNoFundsScheduled(utils.FormatDate(s.currentPayDate))
}

func (s *Schedule) unlockPayments(loans []*domain.Loan) error {
	for _, loan := range loans {
		if err := loan.Unlock(s.currentPayDate); err != nil {
			return err
		}
	}
	return nil
}

// advancePayDate drops the payment just used. It reports false once none remain.
func (s *Schedule) advancePayDate() bool {
	if len(s.payments) == 0 {
		return false
	}
	s.payments = s.payments[1:]
	if len(s.payments) == 0 {
		return false
	}
	s.currentPayDate = utils.DateOnly(s.payments[0].PaymentDate)
	return true
}

func (s *Schedule) allPaidOff() bool {
	for _, loan := range s.loans {
		if !loan.PaidOff() {
			return false
		}
	}
	return true
}

// cycleRecord reports every loan, with zeros for loans not unlocked on the current date
func (s *Schedule) cycleRecord(unallocated decimal.Decimal) *domain.CycleRecord {
	record := &domain.CycleRecord{
		Date:        s.currentPayDate,
		Loans:       make([]domain.LoanCyclePayment, 0, len(s.loans)),
		Unallocated: unallocated,
	}

	for _, loan := range s.loans {
		entry := domain.LoanCyclePayment{
			Key:           loan.Key(),
			LenderName:    loan.LenderName(),
			AccountNumber: loan.AccountNumber(),
		}

		details := loan.LastPayment()
		if utils.SameDate(details.PaymentDate, s.currentPayDate) {
			entry.Principal = details.PrincipalPayment
			entry.Interest = details.InterestPayment
			entry.Total = details.TotalPayment
		}

		record.TotalPrincipal = record.TotalPrincipal.Add(entry.Principal)
		record.TotalInterest = record.TotalInterest.Add(entry.Interest)
		record.TotalPayment = record.TotalPayment.Add(entry.Total)
		record.Loans = append(record.Loans, entry)
	}

	return record
}

// minimumPayments totals what the unlocked loans require this cycle.
// A loan owing less than its minimum only requires its payoff amount.
func minimumPayments(loans []*domain.Loan) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, loan := range loans {
		payment, err := minimumPayment(loan)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(payment)
	}
	return total, nil
}

func minimumPayment(loan *domain.Loan) (decimal.Decimal, error) {
	payoff, err := loan.PayoffAmount()
	if err != nil {
		return decimal.Zero, err
	}
	return utils.MinDecimal(loan.MinPayment(), payoff), nil
}

// makeMinimumPayments pays each loan its minimum. Loans paid off by it are locked and
// left out of the returned loans.
func makeMinimumPayments(loans []*domain.Loan) (decimal.Decimal, []*domain.Loan, error) {
	totalPaid := decimal.Zero
	remaining := make([]*domain.Loan, 0, len(loans))

	for _, loan := range loans {
		payment, err := minimumPayment(loan)
		if err != nil {
			return totalPaid, remaining, err
		}
		if err := loan.MakePayment(payment); err != nil {
			return totalPaid, remaining, err
		}
		totalPaid = totalPaid.Add(payment)

		if loan.PaidOff() {
			// reject any further payments this cycle
			if err := loan.Lock(); err != nil {
				return totalPaid, remaining, err
			}
			continue
		}
		remaining = append(remaining, loan)
	}

	return totalPaid, remaining, nil
}

// makeExtraPayments spends the moneypot on the highest APR loan until the money or
// the loans run out. It returns the loans still owing and the unspent moneypot.
func makeExtraPayments(loans []*domain.Loan, moneypot decimal.Decimal) ([]*domain.Loan, decimal.Decimal, error) {
	for moneypot.IsPositive() && len(loans) > 0 {
		loan := highestAPRLoan(loans)

		payoff, err := loan.PayoffAmount()
		if err != nil {
			return loans, moneypot, err
		}

		payment := utils.MinDecimal(moneypot, payoff)
		if err := loan.MakePayment(payment); err != nil {
			return loans, moneypot, err
		}
		moneypot = moneypot.Sub(payment)

		if loan.PaidOff() {
			if err := loan.Lock(); err != nil {
				return loans, moneypot, err
			}
			loans = removeLoan(loans, loan)
		}
	}

	return loans, moneypot, nil
}

// highestAPRLoan picks the avalanche target: highest APR, then lowest principal,
// then earliest in loans. It returns nil for no loans.
func highestAPRLoan(loans []*domain.Loan) *domain.Loan {
	var best *domain.Loan
	for _, loan := range loans {
		if best == nil {
			best = loan
			continue
		}
		switch loan.APR().Cmp(best.APR()) {
		case 1:
			best = loan
		case 0:
			if loan.Principal().LessThan(best.Principal()) {
				best = loan
			}
		}
	}
	return best
}

func lockPayments(loans []*domain.Loan) error {
	for _, loan := range loans {
		if err := loan.Lock(); err != nil {
			return err
		}
	}
	return nil
}

func removeLoan(loans []*domain.Loan, target *domain.Loan) []*domain.Loan {
	remaining := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if loan != target {
			remaining = append(remaining, loan)
		}
	}
	return remaining
}

func earliestStartDate(loans []*domain.Loan) time.Time {
	earliest := loans[0].PaymentStartDate()
	for _, loan := range loans[1:] {
		if loan.PaymentStartDate().Before(earliest) {
			earliest = loan.PaymentStartDate()
		}
	}
	return earliest
}
