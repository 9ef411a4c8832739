// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsido/idobridge/internal/config"
	"github.com/tsido/idobridge/internal/domain/journey/lifecycle"
	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/engine/scripted"
	"github.com/tsido/idobridge/internal/orchestration"
	"github.com/tsido/idobridge/internal/value"
)

var (
	errJourneyRejected = errors.New("journey rejected")
	errJourneyStalled  = errors.New("journey awaiting input with no responses left")
	errJourneyFailed   = errors.New("journey failed before its first step")
)

type runOptions struct {
	scriptPath string
	responses  []string
	flowID     string
	params     map[string]string
	delay      time.Duration
	timeout    time.Duration
}

// clientResponse is one parsed --respond value.
type clientResponse struct {
	optionID string
	data     map[string]any
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <journeyId>",
		Short: "Play a scripted journey in the terminal",
		Long: `Starts journeyId on the scripted engine and prints every journey event as a
JSON line. Whenever the journey awaits input, the next --respond value is
submitted. A response is an option id, optionally followed by '=' and a JSON
object, for example --respond 'clientInput={"otp":"123456"}'.`,
		Example: `  idobridge run login --script login.yaml --respond clientInput --respond 'clientInput={"otp":"123456"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.scriptPath == "" {
				opts.scriptPath = config.ParseString(config.EnvScript, "")
			}
			if opts.scriptPath == "" {
				return fmt.Errorf("--script or %s is required", config.EnvScript)
			}
			responses, err := parseResponses(opts.responses)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runJourney(ctx, cmd.OutOrStdout(), args[0], opts, responses)
		},
	}
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "journey script (YAML); defaults to "+config.EnvScript)
	cmd.Flags().StringArrayVar(&opts.responses, "respond", nil, "client response, in order: optionId[=JSON object]")
	cmd.Flags().StringVar(&opts.flowID, "flow-id", "", "flow id passed with the start options")
	cmd.Flags().StringToStringVar(&opts.params, "param", nil, "additional start parameter key=value")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "delay every engine callback")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

func parseResponses(raw []string) ([]clientResponse, error) {
	out := make([]clientResponse, 0, len(raw))
	for _, r := range raw {
		id, payload, hasData := strings.Cut(r, "=")
		if id == "" {
			return nil, fmt.Errorf("--respond %q: option id is empty", r)
		}
		resp := clientResponse{optionID: id}
		if hasData {
			v, err := value.ParseJSON([]byte(payload))
			if err != nil {
				return nil, fmt.Errorf("--respond %q: %w", r, err)
			}
			m, ok := v.AsMap()
			if !ok {
				return nil, fmt.Errorf("--respond %q: data must be a JSON object, got %s", r, v.Kind())
			}
			resp.data = value.MapToNative(m)
		}
		out = append(out, resp)
	}
	return out, nil
}

func startOptions(opts *runOptions) *model.StartJourneyOptions {
	if opts.flowID == "" && len(opts.params) == 0 {
		return nil
	}
	start := &model.StartJourneyOptions{}
	if opts.flowID != "" {
		flowID := opts.flowID
		start.FlowID = &flowID
	}
	if len(opts.params) > 0 {
		start.AdditionalParams = make(map[string]any, len(opts.params))
		for k, v := range opts.params {
			start.AdditionalParams[k] = v
		}
	}
	return start
}

func runJourney(ctx context.Context, out io.Writer, journeyID string, opts *runOptions, responses []clientResponse) error {
	eng := scripted.New(opts.scriptPath, scripted.WithDelay(opts.delay))
	facade, err := orchestration.New(eng)
	if err != nil {
		return err
	}
	defer func() {
		eng.Close()
		facade.Close()
	}()

	events := make(chan model.ResponseEvent, 16)
	facade.SetEventListener(func(ev model.ResponseEvent) { events <- ev })

	if _, err := facade.InitializeSDK(ctx); err != nil {
		return err
	}
	if err := facade.StartJourney(ctx, journeyID, startOptions(opts)); err != nil {
		return err
	}

	for {
		var ev model.ResponseEvent
		select {
		case ev = <-events:
		case <-ctx.Done():
			return fmt.Errorf("waiting for journey event: %w", ctx.Err())
		}
		if err := printEvent(out, ev); err != nil {
			return err
		}

		switch facade.State().State {
		case lifecycle.StateSucceeded:
			return nil
		case lifecycle.StateRejected:
			return errJourneyRejected
		case lifecycle.StateNotStarted:
			return fmt.Errorf("%w: %s", errJourneyFailed, ev.Err.Error())
		case lifecycle.StateAwaitingClientResponse:
			if len(responses) == 0 {
				return errJourneyStalled
			}
			next := responses[0]
			responses = responses[1:]
			if err := facade.SubmitClientResponse(ctx, next.optionID, next.data); err != nil {
				return err
			}
		}
	}
}

func printEvent(out io.Writer, ev model.ResponseEvent) error {
	line := value.Object(value.NewMap().
		Set("seq", value.Number(float64(ev.Seq))).
		Set("event", ev.Payload()))
	raw, err := line.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
