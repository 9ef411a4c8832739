// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

// StepKind is the canonical name of a journey step understood by the client.
// Keep these stable: application code switches on them.
type StepKind string

const (
	StepSuccess                      StepKind = "success"
	StepRejection                    StepKind = "rejection"
	StepInformation                  StepKind = "information"
	StepDebugBreak                   StepKind = "debugBreak"
	StepWaitForAnotherDevice         StepKind = "waitForAnotherDevice"
	StepRegisterDevice               StepKind = "registerDevice"
	StepValidateDeviceAction         StepKind = "validateDeviceAction"
	StepDrsTriggerAction             StepKind = "drsTriggerAction"
	StepIdentityVerification         StepKind = "identityVerification"
	StepWebAuthnRegistration         StepKind = "webAuthnRegistration"
	StepRegisterNativeBiometrics     StepKind = "registerNativeBiometrics"
	StepAuthenticateNativeBiometrics StepKind = "authenticateNativeBiometrics"
	StepEmailOTPAuthentication       StepKind = "emailOTPAuthentication"
	StepSmsOTPAuthentication         StepKind = "smsOTPAuthentication"
)

// KnownStepKinds lists every canonical step kind in table order.
var KnownStepKinds = []StepKind{
	StepSuccess,
	StepRejection,
	StepInformation,
	StepDebugBreak,
	StepWaitForAnotherDevice,
	StepRegisterDevice,
	StepValidateDeviceAction,
	StepDrsTriggerAction,
	StepIdentityVerification,
	StepWebAuthnRegistration,
	StepRegisterNativeBiometrics,
	StepAuthenticateNativeBiometrics,
	StepEmailOTPAuthentication,
	StepSmsOTPAuthentication,
}

// JourneyStep is a classified step identifier. Kind is empty for identifiers
// the client does not recognise; Name is then the identifier with its
// namespace prefix removed. Raw always holds the identifier as received.
type JourneyStep struct {
	Kind StepKind
	Name string
	Raw  string
}

// KnownStep builds a step of a canonical kind.
func KnownStep(kind StepKind, raw string) JourneyStep {
	return JourneyStep{Kind: kind, Raw: raw}
}

// CustomStep builds a step for an unrecognised identifier. name is raw
// without its namespace prefix.
func CustomStep(name, raw string) JourneyStep {
	return JourneyStep{Name: name, Raw: raw}
}

func (s JourneyStep) IsCustom() bool { return s.Kind == "" }

// ID is the identifier exposed to listeners: the canonical name, or the
// unprefixed name for custom steps. A custom step with an empty name falls
// back to Raw.
func (s JourneyStep) ID() string {
	if s.IsCustom() {
		if s.Name == "" {
			return s.Raw
		}
		return s.Name
	}
	return string(s.Kind)
}

func (s JourneyStep) String() string { return s.ID() }

// IsTerminal reports whether the step ends the journey.
func (s JourneyStep) IsTerminal() bool {
	return s.Kind == StepSuccess || s.Kind == StepRejection
}
