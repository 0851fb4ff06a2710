package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// serviceErrors maps service sentinels to the status and message returned to clients.
var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrAccountNotFound, http.StatusUnauthorized, "Invalid email or password"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrEmailAlreadyExists, http.StatusConflict, "An account with this email already exists"},
	{ErrInvalidResetToken, http.StatusBadRequest, "Reset link is invalid or has expired"},
	{ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
	{ErrForbidden, http.StatusForbidden, "Forbidden: insufficient permissions"},
	{ErrRateLimited, http.StatusTooManyRequests, "Too many requests, please slow down"},
	{ErrMailDeliveryFailure, http.StatusBadGateway, "Could not send email, please try again later"},
	{ErrInvalidServiceType, http.StatusBadRequest, "Unknown service type"},
	{ErrInvalidDistance, http.StatusBadRequest, "Distance must be a positive number"},
	{ErrTooManyPassengers, http.StatusBadRequest, "Too many passengers for the selected vehicle"},
	{ErrPickupInPast, http.StatusBadRequest, "Pickup time must be in the future"},
	{ErrPlaceNotFound, http.StatusNotFound, "Place not found"},
	{ErrRouteNotFound, http.StatusUnprocessableEntity, "No driving route between these addresses"},
	{ErrMapsProvider, http.StatusBadGateway, "Maps provider unavailable"},
	{ErrDraftNotFound, http.StatusNotFound, "Booking draft not found or expired"},
	{ErrInvalidStepTransition, http.StatusConflict, "Complete the previous step first"},
	{ErrSessionNotFound, http.StatusNotFound, "Payment session not found"},
	{ErrSessionExpired, http.StatusGone, "Payment session has expired"},
	{ErrPaymentProvider, http.StatusBadGateway, "Payment provider unavailable"},
	{ErrWebhookSignature, http.StatusBadRequest, "Invalid webhook signature"},
	{ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{ErrInvalidStatusTransition, http.StatusConflict, "Booking cannot move to that status"},
	{ErrCancellationWindowPassed, http.StatusConflict, "Booking can no longer be cancelled online"},
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			RespondError(c, se.code, se.message)
			return
		}
	}

	if errors.Is(err, ErrDatabaseError) {
		zap.L().Error("database error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
	} else {
		zap.L().Error("unhandled service error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
