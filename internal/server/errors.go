package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/db"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		extractErr    *extraction.Error
		parseErr      *parsing.Error
		analysisErr   *analysis.Error
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &extractErr):
		switch extractErr.Kind {
		case extraction.KindInvalidFormat, extraction.KindEmpty:
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &parseErr):
		return serviceStatus(string(parseErr.Kind))
	case errors.As(err, &analysisErr):
		return serviceStatus(string(analysisErr.Kind))
	}
	return http.StatusInternalServerError
}

// serviceStatus maps the kinds shared by the generative components.
func serviceStatus(kind string) int {
	switch kind {
	case "ServiceUnavailable":
		return http.StatusServiceUnavailable
	case "Timeout":
		return http.StatusGatewayTimeout
	case "InvalidResponse":
		return http.StatusBadGateway
	}
	// EmptyInput, InvalidResume, InvalidJob
	return http.StatusUnprocessableEntity
}

// errorBody returns the machine-readable kind and the user-facing message for
// err. Causes are left out so provider details never reach clients.
func errorBody(err error) (kind, message string) {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		extractErr    *extraction.Error
		parseErr      *parsing.Error
		analysisErr   *analysis.Error
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation_error", validationErr.Error()
	case errors.As(err, &tooLarge):
		return "payload_too_large", fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
	case errors.As(err, &fieldErrs):
		return "validation_error", extractValidationErrors(fieldErrs)
	case errors.Is(err, db.ErrNotFound):
		return "not_found", "Match not found"
	case errors.As(err, &extractErr):
		return string(extractErr.Kind), extractErr.Hint
	case errors.As(err, &parseErr):
		return string(parseErr.Kind), parseErr.Hint
	case errors.As(err, &analysisErr):
		return string(analysisErr.Kind), analysisErr.Hint
	}
	return "internal_error", "An unexpected error occurred"
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "validation error: invalid request"
	}
	ve := errs[0]
	return fmt.Sprintf("validation error: %s - %s", ve.Namespace(), ve.Tag())
}
