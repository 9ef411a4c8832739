// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsido/idobridge/internal/domain/journey/errcodes"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/domain/journey/steps"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <rawStepId>...",
		Short: "Show how raw engine step identifiers are classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RAW\tSTEP\tKIND")
			for _, raw := range args {
				step := steps.Classify(raw)
				kind := "known"
				if step.IsCustom() {
					kind = "custom"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", raw, step.ID(), kind)
			}
			return tw.Flush()
		},
	}
}

func newErrcodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errcode <nativeCode>...",
		Short: "Show the canonical error code for native engine codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := make([]ports.NativeErrorCode, 0, len(args))
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("native code %q: %w", a, err)
				}
				codes = append(codes, ports.NativeErrorCode(n))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NATIVE\tCODE\tCLASS")
			for _, c := range codes {
				code := errcodes.Map(c)
				fmt.Fprintf(tw, "%d\t%s\t%v\n", int(c), code, errcodes.Class(code))
			}
			return tw.Flush()
		},
	}
}
