// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsido/idobridge/internal/value"
)

const maxConvertInput = 16 << 20

type convertOptions struct {
	pretty bool
	native bool
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Read JSON on stdin and print its canonical value tree as JSON",
		Long: `Parses one JSON document from stdin into the canonical value tree and prints
it back. Object key order is kept. With --native the tree is first converted
to native Go values and back, which is the path engine payloads take.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxConvertInput+1))
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if len(in) > maxConvertInput {
				return fmt.Errorf("input exceeds %d bytes", maxConvertInput)
			}
			out, err := convertJSON(in, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the output")
	cmd.Flags().BoolVar(&opts.native, "native", false, "round-trip through native Go values")
	return cmd
}

func convertJSON(in []byte, opts *convertOptions) ([]byte, error) {
	tree, err := value.ParseJSON(in)
	if err != nil {
		return nil, err
	}
	if opts.native {
		tree, err = value.ToCanonical(value.ToNative(tree))
		if err != nil {
			return nil, err
		}
	}
	out, err := tree.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if !opts.pretty {
		return out, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
