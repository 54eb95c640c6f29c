package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/cache"
	"github.com/segyhp/student-loan-simulator/internal/config"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/internal/paymentlog"
	"github.com/segyhp/student-loan-simulator/internal/repository"
	customError "github.com/segyhp/student-loan-simulator/pkg/errors"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SimulationService turns simulation requests into schedules and keeps their results.
// SimulationRepo and Cache are optional; a nil value disables persistence or caching.
type SimulationService struct {
	SimulationRepo repository.SimulationRepository
	Cache          cache.ResultStore
	config         *config.Config
	validator      *validator.Validate
}

func NewSimulationService(
	simulationRepo repository.SimulationRepository,
	resultCache cache.ResultStore,
	config *config.Config,
) *SimulationService {
	return &SimulationService{
		SimulationRepo: simulationRepo,
		Cache:          resultCache,
		config:         config,
		validator:      NewValidator(),
	}
}

// NewValidator returns a validator that understands decimal.Decimal fields
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("decimal_gte", decimalCompare(func(c int) bool { return c >= 0 }))
	_ = v.RegisterValidation("decimal_gt", decimalCompare(func(c int) bool { return c > 0 }))

	return v
}

// decimalCompare validates a decimal field (as its string form) against the tag param
func decimalCompare(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(value.Cmp(bound))
	}
}

// RunSimulation validates request, runs its schedule and returns the summarised result.
// Every cycle record is also written to sinks, in order. A cached result for an
// identical request is replayed into sinks instead of running the schedule again.
func (s *SimulationService) RunSimulation(ctx context.Context, request *domain.SimulationRequest, sinks ...CycleRecordSink) (*domain.SimulationResult, error) {
	if request == nil {
		return nil, customError.WrapInvalidRequest(errors.New("request is required"))
	}
	if err := s.validator.Struct(request); err != nil {
		return nil, customError.WrapInvalidRequest(err)
	}

	loans, err := BuildLoans(request.Loans)
	if err != nil {
		return nil, err
	}
	payments, err := BuildPayments(request.Payments, request.Recurring)
	if err != nil {
		return nil, err
	}

	hash, err := RequestHash(request)
	if err != nil {
		return nil, customError.WrapInvalidRequest(err)
	}

	if cached, ok := s.cachedResult(ctx, hash); ok {
		if err := replay(cached.Cycles, sinks); err != nil {
			return nil, err
		}
		return cached, nil
	}

	collector := &RecordCollector{}
	schedule, err := NewSchedule(loans, payments, append(MultiSink{collector}, sinks...))
	if err != nil {
		return nil, err
	}
	if err := schedule.GenerateSchedule(); err != nil {
		return nil, err
	}

	result := summarise(request.Loans, loans, collector.Records)

	if s.SimulationRepo != nil {
		if err := s.persist(ctx, hash, result); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	s.storeResult(ctx, hash, result)

	return result, nil
}

// RunWithPaymentLog runs request and writes its simple and expanded CSV payment logs
// to <prefix>_simple.csv and <prefix>_expanded.csv in dir, replacing earlier logs.
func (s *SimulationService) RunWithPaymentLog(ctx context.Context, request *domain.SimulationRequest, dir, prefix string) (*domain.SimulationResult, error) {
	if request == nil {
		return nil, customError.WrapInvalidRequest(errors.New("request is required"))
	}

	// the log header only needs the loan keys, the loans themselves are rebuilt per run
	loans, err := BuildLoans(request.Loans)
	if err != nil {
		return nil, err
	}

	writer, err := paymentlog.CreateFiles(dir, prefix, loans)
	if err != nil {
		return nil, err
	}

	result, err := s.RunSimulation(ctx, request, writer)
	if closeErr := writer.Close(); err == nil && closeErr != nil {
		return nil, closeErr
	}
	return result, err
}

// GetRunCycles returns a persisted run with its cycle rows
func (s *SimulationService) GetRunCycles(ctx context.Context, runID uuid.UUID) (*domain.RunCyclesResponse, error) {
	if s.SimulationRepo == nil {
		return nil, customError.WrapRunNotFound(runID.String())
	}

	run, err := s.SimulationRepo.GetRun(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapRunNotFound(runID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows, err := s.SimulationRepo.GetCyclesByRunID(ctx, runID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.RunCyclesResponse{Run: run, Cycles: rows}, nil
}

// BuildLoans creates one loan per definition, keeping their order
func BuildLoans(definitions []domain.LoanDefinition) ([]*domain.Loan, error) {
	loans := make([]*domain.Loan, 0, len(definitions))
	for _, def := range definitions {
		startDate, err := utils.ParseDate(def.StartDate)
		if err != nil {
			return nil, customError.WrapInvalidRequest(err)
		}

		loan, err := domain.NewLoan(def.LenderName, def.AccountNumber, def.APR, def.MinPayment, startDate, def.StartingPrincipal)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// BuildPayments expands recurring payments into one payment per month and merges
// payments falling on the same date into one, ordered by date.
func BuildPayments(single []domain.PaymentDefinition, recurring []domain.RecurringPaymentDefinition) ([]domain.ScheduledPayment, error) {
	byDate := make(map[time.Time]decimal.Decimal)

	add := func(date time.Time, amount decimal.Decimal) {
		date = utils.DateOnly(date)
		byDate[date] = byDate[date].Add(amount)
	}

	for _, def := range single {
		date, err := utils.ParseDate(def.Date)
		if err != nil {
			return nil, customError.WrapInvalidRequest(err)
		}
		add(date, def.Amount)
	}

	for _, def := range recurring {
		start, err := utils.ParseDate(def.StartDate)
		if err != nil {
			return nil, customError.WrapInvalidRequest(err)
		}
		for month := 0; month < def.Months; month++ {
			add(utils.CalculateDueDate(start, month), def.Amount)
		}
	}

	payments := make([]domain.ScheduledPayment, 0, len(byDate))
	for date, amount := range byDate {
		payments = append(payments, domain.ScheduledPayment{PaymentDate: date, TotalPayment: amount})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})

	return payments, nil
}

// RequestHash identifies a request by the SHA-256 of its JSON encoding
func RequestHash(request *domain.SimulationRequest) (string, error) {
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func (s *SimulationService) cachedResult(ctx context.Context, hash string) (*domain.SimulationResult, bool) {
	if s.Cache == nil {
		return nil, false
	}

	value, err := s.Cache.Get(ctx, hash)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false
	}
	if err != nil {
		log.Printf("Error reading cached simulation %s: %v", hash, customError.WrapCacheError(err))
		return nil, false
	}

	var result domain.SimulationResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		log.Printf("Error decoding cached simulation %s: %v", hash, err)
		return nil, false
	}
	return &result, true
}

// storeResult caches result. Failures are logged, the result is still returned.
func (s *SimulationService) storeResult(ctx context.Context, hash string, result *domain.SimulationResult) {
	if s.Cache == nil {
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		log.Printf("Error encoding simulation %s for cache: %v", result.RunID, err)
		return
	}

	var ttl time.Duration
	if s.config != nil {
		ttl = s.config.Simulation.CacheTTL
	}
	if err := s.Cache.Set(ctx, hash, string(encoded), ttl); err != nil {
		log.Printf("Error caching simulation %s: %v", result.RunID, customError.WrapCacheError(err))
	}
}

func (s *SimulationService) persist(ctx context.Context, hash string, result *domain.SimulationResult) error {
	allPaidOff := true
	for _, summary := range result.Loans {
		allPaidOff = allPaidOff && summary.PaidOff
	}

	run := &domain.SimulationRun{
		ID:             result.RunID,
		RequestHash:    hash,
		CycleCount:     len(result.Cycles),
		LoanCount:      len(result.Loans),
		AllPaidOff:     allPaidOff,
		TotalPrincipal: result.TotalPrincipal,
		TotalInterest:  result.TotalInterest,
		TotalPayment:   result.TotalPayment,
		CreatedAt:      result.CreatedAt,
	}
	if err := s.SimulationRepo.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	rows := make([]*domain.CycleRow, 0, len(result.Cycles)*len(result.Loans))
	for _, record := range result.Cycles {
		rows = append(rows, record.Rows(result.RunID)...)
	}
	if err := s.SimulationRepo.CreateCycles(ctx, rows); err != nil {
		return fmt.Errorf("create cycles: %w", err)
	}

	return nil
}

func summarise(definitions []domain.LoanDefinition, loans []*domain.Loan, records []*domain.CycleRecord) *domain.SimulationResult {
	result := &domain.SimulationResult{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Loans:     make([]domain.LoanSummary, len(loans)),
		Cycles:    records,
	}

	for i, loan := range loans {
		result.Loans[i] = domain.LoanSummary{
			Key:                loan.Key(),
			LenderName:         loan.LenderName(),
			AccountNumber:      loan.AccountNumber(),
			StartingPrincipal:  definitions[i].StartingPrincipal,
			RemainingPrincipal: loan.Principal(),
			PaidOff:            loan.PaidOff(),
		}
	}

	for _, record := range records {
		result.TotalPrincipal = result.TotalPrincipal.Add(record.TotalPrincipal)
		result.TotalInterest = result.TotalInterest.Add(record.TotalInterest)
		result.TotalPayment = result.TotalPayment.Add(record.TotalPayment)
		result.Unallocated = result.Unallocated.Add(record.Unallocated)

		for i, lp := range record.Loans {
			if lp.Total.IsZero() {
				continue
			}
			summary := &result.Loans[i]
			summary.TotalPaid = summary.TotalPaid.Add(lp.Total)
			summary.TotalInterest = summary.TotalInterest.Add(lp.Interest)
			if summary.PaidOff {
				date := record.Date
				summary.PaidOffDate = &date
			}
		}
	}

	return result
}

func replay(records []*domain.CycleRecord, sinks []CycleRecordSink) error {
	sink := MultiSink(sinks)
	for _, record := range records {
		if err := sink.WriteCycle(record); err != nil {
			return err
		}
	}
	return nil
}
