package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/internal/service"
	customError "github.com/segyhp/student-loan-simulator/pkg/errors"
	"github.com/segyhp/student-loan-simulator/pkg/response"
)

// SimulationService is what the HTTP API needs from service.SimulationService
type SimulationService interface {
	RunSimulation(ctx context.Context, request *domain.SimulationRequest, sinks ...service.CycleRecordSink) (*domain.SimulationResult, error)
	GetRunCycles(ctx context.Context, runID uuid.UUID) (*domain.RunCyclesResponse, error)
}

type SimulationHandler struct {
	service SimulationService
}

func NewSimulationHandler(service SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	var request domain.SimulationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	result, err := h.service.RunSimulation(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

// GetRunCycles handles GET /api/v1/simulations/{runId}/cycles
func (h *SimulationHandler) GetRunCycles(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(mux.Vars(r)["runId"])
	if err != nil {
		response.BadRequest(w, "Invalid run ID", err)
		return
	}

	cycles, err := h.service.GetRunCycles(r.Context(), runID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, cycles)
}

func writeServiceError(w http.ResponseWriter, err error) {
	message := "Simulation failed"
	var be *customError.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	response.Error(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch customError.Code(err) {
	case customError.ErrCodeInvalidRequest,
		customError.ErrCodeInvalidTerms,
		customError.ErrCodeInvalidPaymentAmount,
		customError.ErrCodeEmptyLoanSet:
		return http.StatusBadRequest
	case customError.ErrCodeInsufficientFunds,
		customError.ErrCodeNoFundsScheduled,
		customError.ErrCodeMinimumNotMet,
		customError.ErrCodeOverpayment,
		customError.ErrCodeLockState:
		return http.StatusUnprocessableEntity
	case customError.ErrCodeRunNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
