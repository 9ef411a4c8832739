// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package main

import (
	"github.com/spf13/cobra"

	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/version"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "idobridge",
		Short:        "Identity journey bridge",
		Version:      version.String(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Configure(log.Config{
				Level:   opts.logLevel,
				Output:  cmd.ErrOrStderr(),
				Service: "idobridge",
				Version: version.Version,
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL or info")

	root.AddCommand(
		newServeCmd(opts),
		newRunCmd(),
		newClassifyCmd(),
		newErrcodeCmd(),
		newConvertCmd(),
	)
	return root
}
