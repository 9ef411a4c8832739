// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package enginetest

import "github.com/tsido/idobridge/internal/domain/journey/ports"

// Step builds a success result for rawStep offering the given option ids.
// Reserved ids get their fixed type; anything else is a custom option.
func Step(rawStep string, optionIDs ...string) ports.NativeResult {
	resp := ports.NativeResponse{JourneyStepID: &rawStep}
	if len(optionIDs) > 0 {
		resp.ClientResponseOptions = make(map[string]ports.NativeOption, len(optionIDs))
		for _, id := range optionIDs {
			resp.ClientResponseOptions[id] = ports.NativeOption{Type: OptionType(id), ID: id, Label: id}
		}
	}
	return ports.OK(resp)
}

// StepWithData is Step with a data payload.
func StepWithData(rawStep string, data any, optionIDs ...string) ports.NativeResult {
	res := Step(rawStep, optionIDs...)
	res.Response.Data = data
	return res
}

// Error builds an error result.
func Error(code ports.NativeErrorCode, message string) ports.NativeResult {
	return ports.Fail(ports.NativeError{Code: code, Message: message})
}

// OptionType maps a reserved option id to its native type.
func OptionType(id string) ports.NativeOptionType {
	switch id {
	case "clientInput":
		return ports.NativeClientInput
	case "cancel":
		return ports.NativeCancel
	case "fail":
		return ports.NativeFail
	case "resend":
		return ports.NativeResend
	default:
		return ports.NativeCustom
	}
}
