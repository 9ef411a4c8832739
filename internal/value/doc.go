// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package value implements the canonical value tree exchanged with the
// native journey engine and the conversions into and out of it.
//
// A tree is built from a closed set of tags (null, bool, number, string,
// list, map). Maps keep insertion order. Conversions from Go maps sort keys,
// because Go maps carry no order to preserve; JSON input keeps document order.
package value
