// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

import (
	"fmt"
	"sort"

	"github.com/tsido/idobridge/internal/value"
)

// SdkError is a journey error in canonical form.
type SdkError struct {
	Code        ErrorCode
	Description string
	Raw         *value.Value
}

func (e SdkError) Error() string {
	if e.Description == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap exposes the taxonomy class so callers can use errors.Is.
func (e SdkError) Unwrap() error { return e.Code.Class() }

// Payload renders the error as the listener-facing tree.
func (e SdkError) Payload() value.Value {
	data := value.Null()
	if e.Raw != nil {
		data = value.Clone(*e.Raw)
	}
	return value.Object(value.NewMap().
		Set("errorCode", value.String(string(e.Code))).
		Set("description", value.String(e.Description)).
		Set("data", data))
}

// ServiceResponse is a normalised engine response.
type ServiceResponse struct {
	Data                  *value.Value
	ErrorData             *SdkError
	JourneyStepID         *JourneyStep
	ClientResponseOptions map[string]ClientResponseOption
	Token                 *string
}

// OptionKeys returns the option map keys in sorted order.
func (r ServiceResponse) OptionKeys() []string {
	keys := make([]string, 0, len(r.ClientResponseOptions))
	for k := range r.ClientResponseOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Payload renders the response as the listener-facing tree:
// {data, errorData, journeyStepId, clientResponseOptions, token}.
func (r ServiceResponse) Payload() value.Value {
	m := value.NewMap()

	if r.Data != nil {
		m.Set("data", value.Clone(*r.Data))
	} else {
		m.Set("data", value.Null())
	}

	if r.ErrorData != nil {
		m.Set("errorData", r.ErrorData.Payload())
	} else {
		m.Set("errorData", value.Null())
	}

	if r.JourneyStepID != nil {
		m.Set("journeyStepId", value.String(r.JourneyStepID.ID()))
	} else {
		m.Set("journeyStepId", value.Null())
	}

	opts := value.NewMap()
	for _, k := range r.OptionKeys() {
		o := r.ClientResponseOptions[k]
		opts.Set(k, value.Object(value.NewMap().
			Set("type", value.String(string(o.Type.Type))).
			Set("id", value.String(o.ID)).
			Set("label", value.String(o.Label))))
	}
	m.Set("clientResponseOptions", value.Object(opts))

	if r.Token != nil {
		m.Set("token", value.String(*r.Token))
	} else {
		m.Set("token", value.Null())
	}
	return value.Object(m)
}
