package employee

import "github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"

// LoginRequest carries portal credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}
