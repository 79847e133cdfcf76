package adjustment

import "errors"

var (
	ErrRequestNotFound  = errors.New("adjustment request not found")
	ErrDuplicateRequest = errors.New("an unresolved adjustment request already exists for this day")
	ErrMissingApprover  = errors.New("employee has no assigned manager to approve the request")
	ErrInvalidState     = errors.New("adjustment request is not in the required state for this transition")
	ErrNotAuthorized    = errors.New("reviewer is not authorized for this transition")
	ErrNothingProposed  = errors.New("at least one proposed time is required")
)
