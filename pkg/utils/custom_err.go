package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrInvalidInput    = errors.New("invalid input")

	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimited         = errors.New("too many requests")
	ErrMailDeliveryFailure = errors.New("mail delivery failed")

	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidDistance    = errors.New("invalid distance")
	ErrTooManyPassengers  = errors.New("too many passengers for service type")
	ErrPickupInPast       = errors.New("pickup time must be in the future")
	ErrPlaceNotFound      = errors.New("place not found")
	ErrRouteNotFound      = errors.New("route not found")
	ErrMapsProvider       = errors.New("maps provider error")

	ErrDraftNotFound         = errors.New("draft not found")
	ErrInvalidStepTransition = errors.New("invalid wizard step transition")

	ErrSessionNotFound  = errors.New("payment session not found")
	ErrSessionExpired   = errors.New("payment session expired")
	ErrPaymentProvider  = errors.New("payment provider error")
	ErrWebhookSignature = errors.New("invalid webhook signature")

	ErrBookingNotFound          = errors.New("booking not found")
	ErrInvalidStatusTransition  = errors.New("invalid booking status transition")
	ErrCancellationWindowPassed = errors.New("cancellation window has passed")
)
