package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/pinjamin/collections-engine/internal/service"
	customError "github.com/pinjamin/collections-engine/pkg/errors"
	"github.com/pinjamin/collections-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CollectionsHandler struct {
	service   *service.RecalcService
	validator *validator.Validate
}

func NewCollectionsHandler(service *service.RecalcService) *CollectionsHandler {
	return &CollectionsHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RunBatch triggers a full recalculation run and returns its summary.
func (h *CollectionsHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RunBatch(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "recalculation run failed", err)
		return
	}

	response.Success(w, summary)
}

// RecalculateLoan recomputes DPD for one loan on demand.
func (h *CollectionsHandler) RecalculateLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	result, err := h.service.RecalculateLoan(r.Context(), loanID, time.Now())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordPayment records a completed payment against a loan, allocates it
// across outstanding installments and returns the fresh delinquency state.
func (h *CollectionsHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.RecordPayment(r.Context(), loanID, request.Amount, time.Now())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

// Stats returns the per-bucket aggregation consumed by the dashboard.
func (h *CollectionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.BucketStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "failed to load bucket statistics", err)
		return
	}

	response.Success(w, stats)
}

// EngineHealth reports total active loans vs loans currently past due.
func (h *CollectionsHandler) EngineHealth(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.HealthCheck(r.Context()))
}

func (h *CollectionsHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrLoanNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrNoScheduleData):
		response.UnprocessableEntity(w, "loan has no installment schedule", err)
	case errors.Is(err, customError.ErrInvalidPaymentAmount), errors.Is(err, customError.ErrLoanClosed):
		response.BadRequest(w, err.Error(), err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
