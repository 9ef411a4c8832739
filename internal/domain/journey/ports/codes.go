// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package ports

import "fmt"

// NativeErrorCode is the engine's error identifier. The engine may report
// codes added after this list was written.
type NativeErrorCode int

const (
	NativeNotInitialized NativeErrorCode = iota + 1
	NativeNoActiveJourney
	NativeNetworkError
	NativeClientResponseNotValid
	NativeServerError
	NativeInvalidStateString
	NativeInternalError
	NativeDeviceRegistrationError
	NativeDeviceValidationError
	NativeInvalidCredentials
	NativeExpiredOtpPasscode
)

// NativeError is an error as produced by the engine.
type NativeError struct {
	Code    NativeErrorCode
	Message string
	Data    any
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("native error %d: %s", e.Code, e.Message)
}

// NativeOptionType is the engine's option tag.
type NativeOptionType int

const (
	NativeClientInput NativeOptionType = iota
	NativeCancel
	NativeFail
	NativeResend
	NativeCustom
)

// NativeOptionID selects a response branch. CustomID is only read for
// NativeCustom.
type NativeOptionID struct {
	Type     NativeOptionType
	CustomID string
}
