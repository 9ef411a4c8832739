// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrInitialization  = errors.New("initialization error")
	ErrConversion      = errors.New("conversion error")
	ErrNoActiveJourney = errors.New("no active journey")
	ErrNetwork         = errors.New("network error")
	ErrServer          = errors.New("server error")
	ErrValidation      = errors.New("validation error")
	ErrDevice          = errors.New("device error")
	ErrCredential      = errors.New("credential error")
	ErrOtpExpired      = errors.New("otp expired")
	ErrInternal        = errors.New("internal error")
	ErrUnknown         = errors.New("unknown error")

	// ErrNotInitialized is returned by calls made before InitializeSDK succeeded.
	ErrNotInitialized = fmt.Errorf("%w: sdk not initialized", ErrInitialization)
	// ErrResponseNotExpected is returned when a client response is submitted
	// while the engine is still working on the previous request.
	ErrResponseNotExpected = fmt.Errorf("%w: no step is awaiting a client response", ErrValidation)
)
