// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package scripted

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tsido/idobridge/internal/domain/journey/ports"
)

// ScriptVersion is the only supported script format version.
const ScriptVersion = 1

// Script describes the journeys a scripted engine can run.
type Script struct {
	Version  int                 `yaml:"version"`
	Journeys map[string]*Journey `yaml:"journeys"`
}

// Journey is a graph of named steps.
type Journey struct {
	Start string           `yaml:"start"`
	Steps map[string]*Step `yaml:"steps"`
}

// Step is one engine response. Either StepID or Error must be set.
type Step struct {
	StepID  string         `yaml:"step"`
	Data    map[string]any `yaml:"data"`
	Token   string         `yaml:"token"`
	Options []OptionSpec   `yaml:"options"`
	// Next maps a response option id to the following step key.
	Next map[string]string `yaml:"next"`
	// Require lists data fields the client response must carry with these
	// exact values; a mismatch answers with OnMismatch and stays on the step.
	Require    map[string]any `yaml:"require"`
	OnMismatch *ErrorSpec     `yaml:"onMismatch"`
	Error      *ErrorSpec     `yaml:"error"`
}

// OptionSpec is an offered response option.
type OptionSpec struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// ErrorSpec is a native error response.
type ErrorSpec struct {
	Code    int            `yaml:"code"`
	Message string         `yaml:"message"`
	Data    map[string]any `yaml:"data"`
}

func (e *ErrorSpec) native() *ports.NativeError {
	ne := &ports.NativeError{Code: ports.NativeErrorCode(e.Code), Message: e.Message}
	if e.Data != nil {
		ne.Data = e.Data
	}
	return ne
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: unsupported script format %q", ports.ErrEngineConfig, ext)
	}
	// #nosec G304 -- script path is operator supplied
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read script: %w", ports.ErrEngineConfig, err)
	}
	return ParseScript(data)
}

// ParseScript decodes a single strict YAML document and validates it.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: script is empty", ports.ErrEngineConfig)
		}
		return nil, fmt.Errorf("%w: parse script: %w", ports.ErrEngineConfig, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: script contains multiple documents or trailing content", ports.ErrEngineConfig)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every journey is reachable and closed: the start step
// and all transition targets exist, and every step answers with something.
func (s *Script) Validate() error {
	if s.Version != ScriptVersion {
		return fmt.Errorf("%w: script version %d (want %d)", ports.ErrEngineConfig, s.Version, ScriptVersion)
	}
	if len(s.Journeys) == 0 {
		return fmt.Errorf("%w: script defines no journeys", ports.ErrEngineConfig)
	}
	for _, name := range s.JourneyNames() {
		j := s.Journeys[name]
		if j == nil {
			return fmt.Errorf("%w: journey %q is empty", ports.ErrEngineConfig, name)
		}
		if _, ok := j.Steps[j.Start]; !ok {
			return fmt.Errorf("%w: journey %q: start step %q not defined", ports.ErrEngineConfig, name, j.Start)
		}
		for key, st := range j.Steps {
			if err := st.validate(j); err != nil {
				return fmt.Errorf("%w: journey %q step %q: %w", ports.ErrEngineConfig, name, key, err)
			}
		}
	}
	return nil
}

func (st *Step) validate(j *Journey) error {
	if st == nil {
		return errors.New("empty step")
	}
	if (st.StepID == "") == (st.Error == nil) {
		return errors.New("exactly one of step and error must be set")
	}
	seen := make(map[string]bool, len(st.Options))
	for _, o := range st.Options {
		if o.ID == "" {
			return errors.New("option without id")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option %q", o.ID)
		}
		seen[o.ID] = true
	}
	for opt, target := range st.Next {
		if _, ok := j.Steps[target]; !ok {
			return fmt.Errorf("option %q leads to undefined step %q", opt, target)
		}
	}
	if len(st.Require) > 0 && st.OnMismatch == nil {
		return errors.New("require needs onMismatch")
	}
	return nil
}

// JourneyNames returns the journey ids in sorted order.
func (s *Script) JourneyNames() []string {
	names := make([]string, 0, len(s.Journeys))
	for n := range s.Journeys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
