package common

import (
	"errors"
	"fmt"
)

// Error kinds shared by the services. Service-level errors wrap these so handlers can
// choose a response with errors.Is without knowing which service produced them.
var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrConflict               = errors.New("conflict")
	ErrAuthenticationRequired = errors.New("authentication required")
)

type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}
