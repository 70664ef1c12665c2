package server

import (
	"errors"
	"net/http"

	ordersdomain "github.com/ahmedooo1/nfeat/internal/orders/domain"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/ahmedooo1/nfeat/internal/receipt/render"
	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")
	ErrRateLimited  = errors.New("rate_limited")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// AbortWithError maps domain sentinel errors onto HTTP responses.
func AbortWithError(c *gin.Context, err error) {
	var typed *apiError
	if errors.As(err, &typed) {
		abort(c, typed)
		return
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		abort(c, &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "authentication required"})
	case errors.Is(err, ErrNotFound):
		abort(c, &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"})
	case errors.Is(err, ErrRateLimited):
		abort(c, &apiError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"})
	case errors.Is(err, profiledomain.ErrUserNotFound):
		abort(c, &apiError{Status: http.StatusNotFound, Code: "user_not_found", Message: "user not found"})
	case errors.Is(err, profiledomain.ErrEmailTaken):
		abort(c, &apiError{Status: http.StatusConflict, Code: "email_taken", Message: "email already in use"})
	case errors.Is(err, profiledomain.ErrInvalidEmail):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "invalid_email", Message: "invalid email", Field: "email"})
	case errors.Is(err, profiledomain.ErrInvalidName):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "invalid_name", Message: "invalid name", Field: "name"})
	case errors.Is(err, profiledomain.ErrInvalidPassword):
		abort(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_password", Message: "current password does not match"})
	case errors.Is(err, profiledomain.ErrWeakPassword):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: "new password is too short", Field: "new_password"})
	case errors.Is(err, ordersdomain.ErrOrderNotFound):
		abort(c, &apiError{Status: http.StatusNotFound, Code: "order_not_found", Message: "order not found"})
	case errors.Is(err, ordersdomain.ErrInvalidOrderID):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "invalid_order_id", Message: "invalid order id", Field: "id"})
	case errors.Is(err, ordersdomain.ErrMissingItems):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "missing_items", Message: "order has no items", Field: "items"})
	case errors.Is(err, ordersdomain.ErrMissingPayment):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "missing_payment_reference", Message: "payment reference is required", Field: "payment_ref"})
	case errors.Is(err, receiptdomain.ErrMalformedOrderTotals):
		abort(c, &apiError{Status: http.StatusUnprocessableEntity, Code: "malformed_order_totals", Message: "order totals are not parseable amounts"})
	case errors.Is(err, render.ErrRendererUnavailable):
		abort(c, &apiError{Status: http.StatusServiceUnavailable, Code: "renderer_unavailable", Message: "document renderer is unavailable"})
	default:
		abort(c, &apiError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"})
	}
}

func abort(c *gin.Context, err *apiError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err})
}
