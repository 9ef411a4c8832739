// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldJourneyID     = "journey_id"
	FieldCorrelationID = "correlation_id"
	FieldRequestID     = "request_id"
	FieldFlowID        = "flow_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Journey fields
	FieldStep         = "step"
	FieldRawStep      = "raw_step"
	FieldOptionID     = "option_id"
	FieldErrorCode    = "error_code"
	FieldNativeCode   = "native_code"
	FieldSequence     = "seq"
	FieldEventKind    = "event_kind"
	FieldListenerKind = "listener"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"
)
