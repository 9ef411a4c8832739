// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package middleware

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Admission caps the global rate of requests that reach the journey engine,
// independent of which client sends them. A nil limiter admits everything.
func Admission(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				rejectedTotal.WithLabelValues("engine").Inc()
				writeTooMany(w, time.Second)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
