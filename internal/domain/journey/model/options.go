// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

import (
	"fmt"

	"github.com/tsido/idobridge/internal/value"
)

// StartJourneyOptions are the optional parameters of a journey start.
type StartJourneyOptions struct {
	AdditionalParams map[string]any
	FlowID           *string
}

// ParseStartJourneyOptions reads options from a canonical map with the keys
// additionalParams and flowId. Unknown keys are ignored; a nil map yields nil.
func ParseStartJourneyOptions(m *value.Map) (*StartJourneyOptions, error) {
	if m == nil || m.Len() == 0 {
		return nil, nil
	}
	opts := &StartJourneyOptions{}

	if v, ok := m.Get("additionalParams"); ok && !v.IsNull() {
		params, ok := v.AsMap()
		if !ok {
			return nil, fmt.Errorf("%w: additionalParams must be a map, got %s", ErrValidation, v.Kind())
		}
		opts.AdditionalParams = value.MapToNative(params)
	}

	if v, ok := m.Get("flowId"); ok && !v.IsNull() {
		s, ok := v.AsString()
		if !ok {
			return nil, fmt.Errorf("%w: flowId must be a string, got %s", ErrValidation, v.Kind())
		}
		opts.FlowID = &s
	}
	return opts, nil
}
