package services

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, log-friendly identifier for a failure class.
type ErrorCode string

const (
	ErrCodePhotoMissing      ErrorCode = "PHOTO_MISSING"
	ErrCodePhotoTooLarge     ErrorCode = "PHOTO_TOO_LARGE"
	ErrCodePhotoType         ErrorCode = "PHOTO_TYPE_NOT_ALLOWED"
	ErrCodeBodyTooLarge      ErrorCode = "BODY_TOO_LARGE"
	ErrCodeEmailMissing      ErrorCode = "EMAIL_MISSING"
	ErrCodeEmailInvalid      ErrorCode = "EMAIL_INVALID"
	ErrCodeTokenInvalid      ErrorCode = "TOKEN_INVALID"
	ErrCodeDeliveryFailed    ErrorCode = "DELIVERY_FAILED"
	ErrCodeDeliveryTimeout   ErrorCode = "DELIVERY_TIMEOUT"
	ErrCodeProviderMisconfig ErrorCode = "PROVIDER_MISCONFIGURED"
)

// ValidationError reports missing or malformed client input.
type ValidationError struct {
	Code    ErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation[%s]: %s", e.Code, e.Message)
}

func NewValidationError(code ErrorCode, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// AuthorizationError reports an approval token that does not match the configured secret.
type AuthorizationError struct {
	Code    ErrorCode
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization[%s]: %s", e.Code, e.Message)
}

// DeliveryError wraps a failure of the outbound delivery provider. Err is never shown to clients.
type DeliveryError struct {
	Code     ErrorCode
	Provider string
	Timeout  bool
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery[%s] via %s: %v", e.Code, e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func newDeliveryError(provider string, err error) *DeliveryError {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de
	}
	return &DeliveryError{Code: ErrCodeDeliveryFailed, Provider: provider, Err: err}
}

func newDeliveryTimeout(provider string, err error) *DeliveryError {
	return &DeliveryError{Code: ErrCodeDeliveryTimeout, Provider: provider, Timeout: true, Err: err}
}

// IsValidation, IsAuthorization and IsDelivery classify errors returned by this package.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsDelivery(err error) bool {
	var target *DeliveryError
	return errors.As(err, &target)
}
