// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cantonapps/licensing-backend/internal/ledger"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errors)
}

// WorkflowErrorResponse maps the ledger error taxonomy onto HTTP statuses.
// Validation failures surface as 400 with per-field detail before the
// taxonomy is consulted. Every failure is reported as a normal error
// payload; a failed transition leaves the workflow usable, so nothing here
// is fatal.
func WorkflowErrorResponse(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		ValidationErrorResponse(c, GetValidationErrors(fieldErrors))
		return
	}

	switch {
	case ledger.IsNotFound(err):
		ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case ledger.IsAuthorization(err):
		ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case ledger.IsConflict(err):
		ErrorResponse(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case ledger.IsTransport(err):
		ErrorResponse(c, http.StatusBadGateway, "LEDGER_UNAVAILABLE", err.Error(), nil)
	default:
		ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

func GetPartyFromContext(c *gin.Context) (string, bool) {
	if party, exists := c.Get("party"); exists {
		if partyStr, ok := party.(string); ok && partyStr != "" {
			return partyStr, true
		}
	}
	return "", false
}
