package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Service issues access tokens for the attendance portal.
type Service struct {
	employee.EmployeeRepository
	jwtService jwt.Service
}

func NewService(employeeRepo employee.EmployeeRepository, jwtService jwt.Service) *Service {
	return &Service{
		EmployeeRepository: employeeRepo,
		jwtService:         jwtService,
	}
}

// Login verifies portal credentials and returns a signed access token.
// Unknown emails, inactive employees, and employees without portal access
// all fail the same way so the response does not leak which one it was.
func (s *Service) Login(ctx context.Context, req employee.LoginRequest) (employee.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.LoginResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.LoginResponse{}, employee.ErrInvalidCredentials
		}
		return employee.LoginResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if !emp.IsActive || emp.PasswordHash == nil {
		return employee.LoginResponse{}, employee.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(req.Password)) != nil {
		return employee.LoginResponse{}, employee.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.Role)
	if err != nil {
		return employee.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return employee.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
