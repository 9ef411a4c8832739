// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package orchestration

import (
	"fmt"

	"github.com/tsido/idobridge/internal/domain/journey/errcodes"
	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/domain/journey/steps"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/metrics"
	"github.com/tsido/idobridge/internal/value"
)

// Outbound payload keys for custom options.
const (
	EscapeIDKey     = "escape_id"
	EscapeParamsKey = "escape_params"
)

// translateResult normalises a native result into a response event.
func translateResult(res ports.NativeResult) model.ResponseEvent {
	switch {
	case res.Err != nil:
		return model.FailureEvent(errcodes.FromNative(res.Err))
	case res.Response != nil:
		return model.SuccessEvent(translateResponse(*res.Response))
	default:
		return model.FailureEvent(model.SdkError{
			Code:        model.CodeInternalError,
			Description: "engine returned an empty result",
		})
	}
}

func translateResponse(r ports.NativeResponse) model.ServiceResponse {
	out := model.ServiceResponse{
		JourneyStepID: steps.ClassifyPtr(r.JourneyStepID),
		Token:         r.Token,
	}

	if r.Data != nil {
		v := canonicalOrString(r.Data, "response_data")
		out.Data = &v
	}
	if r.ErrorData != nil {
		e := errcodes.FromNative(r.ErrorData)
		out.ErrorData = &e
	}
	if len(r.ClientResponseOptions) > 0 {
		out.ClientResponseOptions = make(map[string]model.ClientResponseOption, len(r.ClientResponseOptions))
		for key, o := range r.ClientResponseOptions {
			out.ClientResponseOptions[key] = model.ClientResponseOption{
				Type:  optionIDFromNative(o.Type, o.ID),
				ID:    o.ID,
				Label: o.Label,
			}
		}
	}
	return out
}

// canonicalOrString converts engine data; data the converter rejects is kept
// as its string rendering so the event still reaches the listener.
func canonicalOrString(native any, site string) value.Value {
	v, err := value.ToCanonical(native)
	if err == nil {
		return v
	}
	metrics.IncConversionFailure(site)
	logger := log.WithComponent("orchestration")
	logger.Warn().
		Err(err).
		Str(log.FieldEvent, "convert.degraded").
		Str("site", site).
		Msg("engine data kept as string")
	return value.String(fmt.Sprint(native))
}

func optionIDFromNative(t ports.NativeOptionType, id string) model.ClientResponseOptionID {
	switch t {
	case ports.NativeClientInput:
		return model.ClientResponseOptionID{Type: model.OptionClientInput}
	case ports.NativeCancel:
		return model.ClientResponseOptionID{Type: model.OptionCancel}
	case ports.NativeFail:
		return model.ClientResponseOptionID{Type: model.OptionFail}
	case ports.NativeResend:
		return model.ClientResponseOptionID{Type: model.OptionResend}
	default:
		return model.ClientResponseOptionID{Type: model.OptionCustom, CustomID: id}
	}
}

func optionIDToNative(id model.ClientResponseOptionID) ports.NativeOptionID {
	switch id.Type {
	case model.OptionClientInput:
		return ports.NativeOptionID{Type: ports.NativeClientInput}
	case model.OptionCancel:
		return ports.NativeOptionID{Type: ports.NativeCancel}
	case model.OptionFail:
		return ports.NativeOptionID{Type: ports.NativeFail}
	case model.OptionResend:
		return ports.NativeOptionID{Type: ports.NativeResend}
	default:
		return ports.NativeOptionID{Type: ports.NativeCustom, CustomID: id.CustomID}
	}
}

// outboundData builds the payload handed to the engine. Custom options carry
// the raw id and the caller data under the escape keys, next to the caller's
// own keys.
func outboundData(id model.ClientResponseOptionID, data *value.Map) map[string]any {
	if !id.IsCustom() {
		if data == nil {
			return nil
		}
		return value.MapToNative(data)
	}
	params := value.MapToNative(data)
	if params == nil {
		params = map[string]any{}
	}
	out := make(map[string]any, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out[EscapeIDKey] = id.CustomID
	out[EscapeParamsKey] = params
	return out
}
