// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package orchestration

import (
	"github.com/tsido/idobridge/internal/bus"
	"github.com/tsido/idobridge/internal/domain/journey/model"
)

// Handler receives journey outcomes. Either func may be nil, in which case
// events of that kind are ignored.
type Handler struct {
	Success func(model.ServiceResponse)
	Error   func(model.SdkError)
}

func (h Handler) listener() bus.Listener {
	return func(ev model.ResponseEvent) {
		if ev.IsSuccess() {
			if h.Success != nil {
				h.Success(ev.Response)
			}
			return
		}
		if h.Error != nil {
			h.Error(ev.Err)
		}
	}
}

// SetResponseHandler installs h as the sole listener, replacing any previous
// one. Events delivered after this returns reach h only.
func (f *Facade) SetResponseHandler(h Handler) {
	f.channel.SetListener(h.listener())
}

// SetEventListener installs a listener that sees the full event envelope,
// including sequence and correlation ids. It shares the single listener slot
// with SetResponseHandler.
func (f *Facade) SetEventListener(l bus.Listener) {
	f.channel.SetListener(l)
}

// ClearResponseHandler empties the listener slot. Later events are dropped.
func (f *Facade) ClearResponseHandler() {
	f.channel.SetListener(nil)
}
