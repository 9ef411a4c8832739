// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

// OptionType tags a client response option.
type OptionType string

const (
	OptionClientInput OptionType = "clientInput"
	OptionCancel      OptionType = "cancel"
	OptionFail        OptionType = "fail"
	OptionResend      OptionType = "resend"
	OptionCustom      OptionType = "custom"
)

// ClientResponseOptionID names the branch a client picks. For OptionCustom,
// CustomID carries the identifier verbatim so it can be routed back.
type ClientResponseOptionID struct {
	Type     OptionType
	CustomID string
}

// ParseClientResponseOptionID resolves a raw identifier. Only the four
// reserved names match (exactly, case-sensitive); anything else is custom.
func ParseClientResponseOptionID(raw string) ClientResponseOptionID {
	switch OptionType(raw) {
	case OptionClientInput, OptionCancel, OptionFail, OptionResend:
		return ClientResponseOptionID{Type: OptionType(raw)}
	default:
		return ClientResponseOptionID{Type: OptionCustom, CustomID: raw}
	}
}

func (id ClientResponseOptionID) IsCustom() bool { return id.Type == OptionCustom }

// String returns the identifier as the engine knows it.
func (id ClientResponseOptionID) String() string {
	if id.IsCustom() {
		return id.CustomID
	}
	return string(id.Type)
}

// ClientResponseOption is a branch offered by a step awaiting input.
type ClientResponseOption struct {
	Type  ClientResponseOptionID
	ID    string
	Label string
}
