package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	customError "github.com/segyhp/student-loan-simulator/pkg/errors"
	"github.com/segyhp/student-loan-simulator/tests/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const simulationBody = `{
	"loans": [
		{"lender_name": "Test Lender", "account_number": "123456-1111", "apr": "0.0325", "min_payment": "10", "start_date": "2018-01-01", "starting_principal": "50"}
	],
	"payments": [
		{"date": "2018-02-01", "amount": 40}
	]
}`

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(svc *mocks.MockSimulationService) http.Handler {
	return NewRouter(NewSimulationHandler(svc), NewHealthHandler(nil, nil, 0))
}

func serve(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRunSimulation_Created(t *testing.T) {
	svc := &mocks.MockSimulationService{}
	runID := uuid.New()
	svc.On("RunSimulation", mock.Anything, mock.MatchedBy(func(r *domain.SimulationRequest) bool {
		return len(r.Loans) == 1 && r.Loans[0].APR.Equal(decimal.RequireFromString("0.0325")) &&
			len(r.Payments) == 1 && r.Payments[0].Amount.Equal(decimal.NewFromInt(40))
	})).Return(&domain.SimulationResult{RunID: runID, TotalPayment: decimal.NewFromInt(40)}, nil)

	rec, resp := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/simulations", simulationBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, runID, result.RunID)
	svc.AssertExpectations(t)
}

func TestRunSimulation_BadBody(t *testing.T) {
	svc := &mocks.MockSimulationService{}

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "loans"},
		{name: "unknown field", body: `{"loans": [], "budget": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/simulations", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
		})
	}
	svc.AssertNotCalled(t, "RunSimulation", mock.Anything, mock.Anything)
}

func TestRunSimulation_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: customError.WrapInvalidRequest(errors.New("lender_name required")), wantStatus: http.StatusBadRequest},
		{name: "terms", err: customError.WrapInvalidTerms("APR 5 is 100% or more"), wantStatus: http.StatusBadRequest},
		{name: "no loans", err: customError.WrapEmptyLoanSet(), wantStatus: http.StatusBadRequest},
		{name: "insufficient funds", err: customError.WrapInsufficientFunds("2018-02-01", decimal.NewFromInt(5), decimal.NewFromInt(10)), wantStatus: http.StatusUnprocessableEntity},
		{name: "database", err: customError.WrapDatabaseError(errors.New("connection refused")), wantStatus: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("disk full"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockSimulationService{}
			svc.On("RunSimulation", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec, resp := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/simulations", simulationBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestRunSimulation_ErrorMessage(t *testing.T) {
	svc := &mocks.MockSimulationService{}
	svc.On("RunSimulation", mock.Anything, mock.Anything).
		Return(nil, customError.WrapNoFundsScheduled("2018-02-01"))

	_, resp := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/simulations", simulationBody)

	assert.Equal(t, "No scheduled payment for pay date 2018-02-01", resp.Message)
}

func TestGetRunCycles(t *testing.T) {
	runID := uuid.New()
	path := "/api/v1/simulations/" + runID.String() + "/cycles"

	t.Run("found", func(t *testing.T) {
		svc := &mocks.MockSimulationService{}
		svc.On("GetRunCycles", mock.Anything, runID).Return(&domain.RunCyclesResponse{
			Run:    &domain.SimulationRun{ID: runID, CycleCount: 1},
			Cycles: []*domain.CycleRow{{RunID: runID, AccountNumber: "123456-1111"}},
		}, nil)

		rec, resp := serve(t, newTestRouter(svc), http.MethodGet, path, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var cycles domain.RunCyclesResponse
		require.NoError(t, json.Unmarshal(resp.Data, &cycles))
		assert.Equal(t, runID, cycles.Run.ID)
		require.Len(t, cycles.Cycles, 1)
		assert.Equal(t, "123456-1111", cycles.Cycles[0].AccountNumber)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mocks.MockSimulationService{}
		svc.On("GetRunCycles", mock.Anything, runID).Return(nil, customError.WrapRunNotFound(runID.String()))

		rec, _ := serve(t, newTestRouter(svc), http.MethodGet, path, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &mocks.MockSimulationService{}

		rec, _ := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/simulations/not-a-uuid/cycles", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetRunCycles", mock.Anything, mock.Anything)
	})
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mocks.MockSimulationService{})

	rec, resp := serve(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = serve(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "disabled", status.Checks["database"])
	assert.Equal(t, "disabled", status.Checks["redis"])
}
