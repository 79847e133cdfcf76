package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type AuthService interface {
	Login(ctx context.Context, req employee.LoginRequest) (employee.LoginResponse, error)
}

type authHandlerImpl struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req employee.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}
