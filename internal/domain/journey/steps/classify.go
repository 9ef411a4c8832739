// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package steps classifies raw journey step identifiers reported by the
// engine into the stable step taxonomy.
package steps

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/metrics"
)

// namespacePrefixes are stripped before lookup. Engines report action steps as
// "action:<Name>".
var namespacePrefixes = []string{"action:"}

var table = func() map[string]model.StepKind {
	m := make(map[string]model.StepKind, len(model.KnownStepKinds))
	for _, k := range model.KnownStepKinds {
		m[fold(string(k))] = k
	}
	return m
}()

// Casers keep state and must not be shared across goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// StripNamespace removes the first known namespace prefix from raw.
func StripNamespace(raw string) string {
	for _, p := range namespacePrefixes {
		if strings.HasPrefix(raw, p) {
			return strings.TrimPrefix(raw, p)
		}
	}
	return raw
}

// Lookup resolves raw against the step table without recording metrics.
func Lookup(raw string) (model.StepKind, bool) {
	name := StripNamespace(raw)
	if name == "" {
		return "", false
	}
	k, ok := table[fold(name)]
	return k, ok
}

// Classify maps a raw identifier onto a step kind. Unrecognised identifiers
// become custom steps named after raw without its namespace prefix; the
// name keeps its original case. Raw is kept unmodified on every step.
func Classify(raw string) model.JourneyStep {
	k, ok := Lookup(raw)
	metrics.RecordStepClassification(!ok)
	if !ok {
		return model.CustomStep(StripNamespace(raw), raw)
	}
	return model.KnownStep(k, raw)
}

// ClassifyPtr is Classify for optional identifiers.
func ClassifyPtr(raw *string) *model.JourneyStep {
	if raw == nil {
		return nil
	}
	step := Classify(*raw)
	return &step
}
