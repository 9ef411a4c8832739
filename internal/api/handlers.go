// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/orchestration"
)

type startJourneyRequest struct {
	JourneyID string               `json:"journeyId"`
	Options   *startJourneyOptions `json:"options,omitempty"`
}

type startJourneyOptions struct {
	AdditionalParams map[string]any `json:"additionalParams,omitempty"`
	FlowID           *string        `json:"flowId,omitempty"`
}

type submitResponseRequest struct {
	ResponseOptionID string         `json:"responseOptionId"`
	Data             map[string]any `json:"data,omitempty"`
}

type stateResponse struct {
	Initialized   bool       `json:"initialized"`
	State         string     `json:"state"`
	JourneyID     string     `json:"journeyId,omitempty"`
	CorrelationID string     `json:"correlationId,omitempty"`
	FlowID        string     `json:"flowId,omitempty"`
	LastStep      string     `json:"lastStep,omitempty"`
	CustomStep    bool       `json:"customStep,omitempty"`
	StepCount     int        `json:"stepCount"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type eventsResponse struct {
	Events    []EventRecord `json:"events"`
	LastSeq   uint64        `json:"lastSeq"`
	Truncated bool          `json:"truncated,omitempty"`
}

func toStateResponse(snap orchestration.Snapshot) stateResponse {
	out := stateResponse{
		Initialized:   snap.Initialized,
		State:         string(snap.State),
		JourneyID:     snap.JourneyID,
		CorrelationID: snap.CorrelationID,
		FlowID:        snap.FlowID,
		StepCount:     snap.StepCount,
	}
	if snap.LastStep != nil {
		out.LastStep = snap.LastStep.ID()
		out.CustomStep = snap.LastStep.IsCustom()
	}
	if !snap.StartedAt.IsZero() {
		started, updated := snap.StartedAt, snap.UpdatedAt
		out.StartedAt, out.UpdatedAt = &started, &updated
	}
	return out
}

// decodeBody decodes a single JSON object, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ok, err := s.journeys.InitializeSDK(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"initialized": ok})
}

func (s *Server) handleStartJourney(w http.ResponseWriter, r *http.Request) {
	var req startJourneyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	var opts *model.StartJourneyOptions
	if req.Options != nil {
		opts = &model.StartJourneyOptions{
			AdditionalParams: req.Options.AdditionalParams,
			FlowID:           req.Options.FlowID,
		}
	}
	if err := s.journeys.StartJourney(r.Context(), req.JourneyID, opts); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toStateResponse(s.journeys.State()))
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitResponseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if req.ResponseOptionID == "" {
		writeBadRequest(w, r, "responseOptionId is required")
		return
	}
	if err := s.journeys.SubmitClientResponse(r.Context(), req.ResponseOptionID, req.Data); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toStateResponse(s.journeys.State()))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(s.journeys.State()))
}

// handleEvents serves GET /v1/events?after=N[&wait=5s]. With wait, the
// request blocks until a newer event arrives or the wait elapses.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var after uint64
	if raw := q.Get("after"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, r, "after must be a non-negative integer")
			return
		}
		after = n
	}

	var (
		events    []EventRecord
		truncated bool
	)
	if raw := q.Get("wait"); raw != "" {
		wait, err := time.ParseDuration(raw)
		if err != nil || wait < 0 {
			writeBadRequest(w, r, "wait must be a non-negative duration")
			return
		}
		if wait > s.cfg.MaxEventWait {
			wait = s.cfg.MaxEventWait
		}
		ctx, cancel := context.WithTimeout(r.Context(), wait)
		events, truncated = s.events.Wait(ctx, after)
		cancel()
	} else {
		events, truncated = s.events.Since(after)
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:    events,
		LastSeq:   s.events.LastSeq(),
		Truncated: truncated,
	})
}
