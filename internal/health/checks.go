// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
)

// SDKChecker is unhealthy until initialized reports true.
func SDKChecker(initialized func() bool) Checker {
	return CheckFunc{
		CheckName: "sdk",
		Fn: func(context.Context) CheckResult {
			if initialized() {
				return CheckResult{Status: StatusHealthy, Message: "initialized"}
			}
			return CheckResult{Status: StatusUnhealthy, Message: "sdk not initialized"}
		},
	}
}

// DropChecker is degraded once dropped reports any undelivered events.
func DropChecker(dropped func() uint64) Checker {
	return CheckFunc{
		CheckName: "events",
		Fn: func(context.Context) CheckResult {
			n := dropped()
			if n == 0 {
				return CheckResult{Status: StatusHealthy}
			}
			return CheckResult{Status: StatusDegraded, Message: fmt.Sprintf("%d events dropped", n)}
		},
	}
}
