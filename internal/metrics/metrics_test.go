package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counter.Write(metric))
	return metric.GetCounter().GetValue()
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	return getCounterValue(t, counterVec.WithLabelValues(labels...))
}

func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, gaugeVec.WithLabelValues(labels...).Write(metric))
	return metric.GetGauge().GetValue()
}

func TestRecordEventDropped_NormalizesLabels(t *testing.T) {
	initial := getCounterVecValue(t, EventsDroppedTotal, "unknown", "unknown")

	RecordEventDropped("", "")

	assert.Equal(t, initial+1, getCounterVecValue(t, EventsDroppedTotal, "unknown", "unknown"))
}

func TestEventCounters(t *testing.T) {
	pub := getCounterVecValue(t, EventsPublishedTotal, "success")
	del := getCounterVecValue(t, EventsDeliveredTotal, "failure")
	panics := getCounterValue(t, ListenerPanicsTotal)

	RecordEventPublished("success")
	RecordEventDelivered("failure")
	IncListenerPanic()

	assert.Equal(t, pub+1, getCounterVecValue(t, EventsPublishedTotal, "success"))
	assert.Equal(t, del+1, getCounterVecValue(t, EventsDeliveredTotal, "failure"))
	assert.Equal(t, panics+1, getCounterValue(t, ListenerPanicsTotal))
}

func TestRecordStepClassification(t *testing.T) {
	known := getCounterVecValue(t, stepClassificationsTotal, "known")
	custom := getCounterVecValue(t, stepClassificationsTotal, "custom")

	RecordStepClassification(false)
	RecordStepClassification(true)
	RecordStepClassification(true)

	assert.Equal(t, known+1, getCounterVecValue(t, stepClassificationsTotal, "known"))
	assert.Equal(t, custom+2, getCounterVecValue(t, stepClassificationsTotal, "custom"))
}

func TestSetJourneyState(t *testing.T) {
	all := []string{"a", "b", "c"}

	SetJourneyState("b", all)
	assert.Equal(t, 0.0, getGaugeVecValue(t, journeyState, "a"))
	assert.Equal(t, 1.0, getGaugeVecValue(t, journeyState, "b"))
	assert.Equal(t, 0.0, getGaugeVecValue(t, journeyState, "c"))

	SetJourneyState("c", all)
	assert.Equal(t, 0.0, getGaugeVecValue(t, journeyState, "b"))
	assert.Equal(t, 1.0, getGaugeVecValue(t, journeyState, "c"))
}

func TestJourneyCounters(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		vec    *prometheus.CounterVec
		labels []string
	}{
		{"initialize", func() { RecordInitialize("success") }, initializeTotal, []string{"success"}},
		{"start", func() { RecordJourneyStart("rejected") }, journeysStartedTotal, []string{"rejected"}},
		{"response", func() { RecordClientResponse("custom", "accepted") }, clientResponsesTotal, []string{"custom", "accepted"}},
		{"error code", func() { RecordErrorCode("@unknown") }, errorCodesTotal, []string{"@unknown"}},
		{"conversion", func() { IncConversionFailure("") }, conversionFailuresTotal, []string{"unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := getCounterVecValue(t, tt.vec, tt.labels...)
			tt.record()
			assert.Equal(t, initial+1, getCounterVecValue(t, tt.vec, tt.labels...))
		})
	}
}
