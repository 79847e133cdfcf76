package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrUnknownSubject     = errors.New("device subject is not linked to any employee")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
