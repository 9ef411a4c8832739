// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on journey spans.
const (
	JourneyIDKey     = "ido.journey_id"
	CorrelationIDKey = "ido.correlation_id"
	FlowIDKey        = "ido.flow_id"
	OptionTypeKey    = "ido.option_type"
	OptionIDKey      = "ido.option_id"
	StateKey         = "ido.state"
	StepKey          = "ido.step"
	ErrorCodeKey     = "ido.error_code"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// JourneyAttributes identifies the journey a span belongs to. Empty values
// are omitted.
func JourneyAttributes(journeyID, correlationID, flowID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if journeyID != "" {
		attrs = append(attrs, attribute.String(JourneyIDKey, journeyID))
	}
	if correlationID != "" {
		attrs = append(attrs, attribute.String(CorrelationIDKey, correlationID))
	}
	if flowID != "" {
		attrs = append(attrs, attribute.String(FlowIDKey, flowID))
	}
	return attrs
}

// ResponseAttributes describes a client response submission.
func ResponseAttributes(optionType, optionID, state string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(OptionTypeKey, optionType),
		attribute.String(OptionIDKey, optionID),
		attribute.String(StateKey, state),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(ErrorAttributes(errorType)...)
	span.SetStatus(codes.Error, err.Error())
}
