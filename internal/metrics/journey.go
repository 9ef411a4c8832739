// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initializeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_sdk_initialize_total",
		Help: "SDK initialization attempts that reached the engine, by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	journeysStartedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_journeys_started_total",
		Help: "Journey start requests, by outcome",
	}, []string{"outcome"}) // outcome=accepted|rejected

	clientResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_client_responses_total",
		Help: "Client responses submitted, by option type and outcome",
	}, []string{"option", "outcome"})

	stepClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_step_classifications_total",
		Help: "Journey step identifiers classified, by outcome",
	}, []string{"outcome"}) // outcome=known|custom

	errorCodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_error_codes_total",
		Help: "Native error codes mapped, by canonical code",
	}, []string{"code"})

	conversionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_conversion_failures_total",
		Help: "Value conversion failures, by call site",
	}, []string{"site"})

	journeyState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "idobridge_journey_state",
		Help: "Current journey lifecycle state (1 for the active state, 0 otherwise)",
	}, []string{"state"})
)

// RecordInitialize counts an initialization attempt.
func RecordInitialize(outcome string) {
	initializeTotal.WithLabelValues(normalize(outcome)).Inc()
}

// RecordJourneyStart counts a journey start request.
func RecordJourneyStart(outcome string) {
	journeysStartedTotal.WithLabelValues(normalize(outcome)).Inc()
}

// RecordClientResponse counts a submitted client response. Custom option ids
// are collapsed into "custom" to keep label cardinality bounded.
func RecordClientResponse(option, outcome string) {
	clientResponsesTotal.WithLabelValues(normalize(option), normalize(outcome)).Inc()
}

// RecordStepClassification counts a classified step identifier.
func RecordStepClassification(custom bool) {
	outcome := "known"
	if custom {
		outcome = "custom"
	}
	stepClassificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordErrorCode counts a mapped error code.
func RecordErrorCode(code string) {
	errorCodesTotal.WithLabelValues(normalize(code)).Inc()
}

// IncConversionFailure counts a failed value conversion.
func IncConversionFailure(site string) {
	conversionFailuresTotal.WithLabelValues(normalize(site)).Inc()
}

// SetJourneyState marks current as the active state among all.
func SetJourneyState(current string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		journeyState.WithLabelValues(s).Set(v)
	}
}
