// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package middleware

import (
	"net/http"
	"time"

	"github.com/tsido/idobridge/internal/log"
)

// AccessLog writes one structured line per request. Health and metrics
// scrapes log at debug.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		logger := log.WithComponentFromContext(r.Context(), "api")
		ev := logger.Info()
		switch {
		case sw.status >= http.StatusInternalServerError:
			ev = logger.Error()
		case !shouldTrace(r):
			ev = logger.Debug()
		}
		ev.Str(log.FieldEvent, "http.request").
			Str(log.FieldMethod, r.Method).
			Str(log.FieldPath, r.URL.Path).
			Int(log.FieldStatus, sw.status).
			Int("bytes", sw.bytes).
			Int64(log.FieldDurationMS, time.Since(start).Milliseconds()).
			Str(log.FieldRemoteAddr, r.RemoteAddr).
			Msg("request handled")
	})
}
