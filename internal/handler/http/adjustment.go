package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/adjustment"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/middleware"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/response"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AdjustmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ManagerReview(w http.ResponseWriter, r *http.Request)
	HRReview(w http.ResponseWriter, r *http.Request)
}

type AdjustmentService interface {
	Create(ctx context.Context, actor employee.Actor, req adjustment.CreateRequest) (adjustment.Request, error)
	Get(ctx context.Context, requestID string) (adjustment.Request, error)
	List(ctx context.Context, actor employee.Actor, employeeID string) ([]adjustment.Request, error)
	ManagerReview(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error)
	HRReview(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error)
}

type adjustmentHandlerImpl struct {
	adjustmentService AdjustmentService
}

func NewAdjustmentHandler(adjustmentService AdjustmentService) AdjustmentHandler {
	return &adjustmentHandlerImpl{
		adjustmentService: adjustmentService,
	}
}

// Create implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req adjustment.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID == "" {
		req.EmployeeID = actor.EmployeeID
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.adjustmentService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request created", adjustment.NewResponse(result))
}

// Get implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	result, err := h.adjustmentService.Get(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, adjustment.NewResponse(result))
}

// ListByEmployee implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing access token")
		return
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}

	requests, err := h.adjustmentService.List(r.Context(), actor, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]adjustment.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, adjustment.NewResponse(req))
	}
	response.Success(w, responses)
}

// ManagerReview implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) ManagerReview(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, func(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error) {
		return h.adjustmentService.ManagerReview(ctx, actor, requestID, review)
	})
}

// HRReview implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) HRReview(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, func(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error) {
		return h.adjustmentService.HRReview(ctx, actor, requestID, review)
	})
}

func (h *adjustmentHandlerImpl) review(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, employee.Actor, string, adjustment.ReviewRequest) (adjustment.Request, error),
) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing access token")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	var review adjustment.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := review.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := apply(r.Context(), actor, requestID, review)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review recorded", adjustment.NewResponse(result))
}
