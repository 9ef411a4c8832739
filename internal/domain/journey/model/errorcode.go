// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

// ErrorCode is the canonical journey error identifier delivered to listeners.
type ErrorCode string

const (
	CodeNotInitialized          ErrorCode = "notInitialized"
	CodeNoActiveJourney         ErrorCode = "noActiveJourney"
	CodeNetworkError            ErrorCode = "networkError"
	CodeClientResponseNotValid  ErrorCode = "clientResponseNotValid"
	CodeServerError             ErrorCode = "serverError"
	CodeInvalidStateString      ErrorCode = "invalidStateString"
	CodeInternalError           ErrorCode = "internalError"
	CodeDeviceRegistrationError ErrorCode = "deviceRegistrationError"
	CodeDeviceValidationError   ErrorCode = "deviceValidationError"
	CodeInvalidCredentials      ErrorCode = "invalidCredentials"
	CodeExpiredOtpPasscode      ErrorCode = "expiredOtpPasscode"

	// CodeUnknown is reported for native codes missing from the table.
	CodeUnknown ErrorCode = "@unknown"
)

// Class returns the error taxonomy sentinel for the code, for errors.Is checks.
func (c ErrorCode) Class() error {
	switch c {
	case CodeNotInitialized:
		return ErrNotInitialized
	case CodeNoActiveJourney:
		return ErrNoActiveJourney
	case CodeNetworkError:
		return ErrNetwork
	case CodeClientResponseNotValid, CodeInvalidStateString:
		return ErrValidation
	case CodeServerError:
		return ErrServer
	case CodeInternalError:
		return ErrInternal
	case CodeDeviceRegistrationError, CodeDeviceValidationError:
		return ErrDevice
	case CodeInvalidCredentials:
		return ErrCredential
	case CodeExpiredOtpPasscode:
		return ErrOtpExpired
	default:
		return ErrUnknown
	}
}
