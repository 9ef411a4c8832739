// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package errcodes maps native engine error codes onto canonical error codes.
package errcodes

import (
	"fmt"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/metrics"
	"github.com/tsido/idobridge/internal/value"
)

var table = map[ports.NativeErrorCode]model.ErrorCode{
	ports.NativeNotInitialized:          model.CodeNotInitialized,
	ports.NativeNoActiveJourney:         model.CodeNoActiveJourney,
	ports.NativeNetworkError:            model.CodeNetworkError,
	ports.NativeClientResponseNotValid:  model.CodeClientResponseNotValid,
	ports.NativeServerError:             model.CodeServerError,
	ports.NativeInvalidStateString:      model.CodeInvalidStateString,
	ports.NativeInternalError:           model.CodeInternalError,
	ports.NativeDeviceRegistrationError: model.CodeDeviceRegistrationError,
	ports.NativeDeviceValidationError:   model.CodeDeviceValidationError,
	ports.NativeInvalidCredentials:      model.CodeInvalidCredentials,
	ports.NativeExpiredOtpPasscode:      model.CodeExpiredOtpPasscode,
}

// Lookup resolves code without recording metrics.
func Lookup(code ports.NativeErrorCode) (model.ErrorCode, bool) {
	c, ok := table[code]
	return c, ok
}

// Map converts a native code. Codes missing from the table map to
// model.CodeUnknown; Map never fails.
func Map(code ports.NativeErrorCode) model.ErrorCode {
	c, ok := Lookup(code)
	if !ok {
		c = model.CodeUnknown
		logger := log.WithComponent("errcodes")
		logger.Debug().
			Str(log.FieldEvent, "errcode.unknown").
			Int(log.FieldNativeCode, int(code)).
			Msg("unmapped native error code")
	}
	metrics.RecordErrorCode(string(c))
	return c
}

// Class returns the taxonomy sentinel for a canonical code.
func Class(code model.ErrorCode) error {
	return code.Class()
}

// FromNative builds the canonical error. Raw data that cannot be converted is
// kept as its string rendering rather than dropped.
func FromNative(err *ports.NativeError) model.SdkError {
	if err == nil {
		return model.SdkError{Code: model.CodeUnknown, Description: "engine reported an empty error"}
	}
	sdk := model.SdkError{
		Code:        Map(err.Code),
		Description: err.Message,
	}
	if err.Data != nil {
		v, cerr := value.ToCanonical(err.Data)
		if cerr != nil {
			metrics.IncConversionFailure("error_data")
			logger := log.WithComponent("errcodes")
			logger.Warn().
				Err(cerr).
				Str(log.FieldEvent, "errcode.data_unconvertible").
				Msg("native error data kept as string")
			v = value.String(fmt.Sprint(err.Data))
		}
		sdk.Raw = &v
	}
	return sdk
}
