/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
)

func mustParse(t *testing.T, raw string, opts ...pattern.Option) *pattern.Expr {
	t.Helper()
	e, diags := pattern.Parse(raw, opts...)
	require.False(t, diags.HasErrors(), "Parse(%q) diagnostics: %v", raw, diags)
	require.NotNil(t, e)
	return e
}

func mustEndpoint(t *testing.T, inst, pin string, opts ...pattern.Option) *pattern.Expr {
	t.Helper()
	e, diags := pattern.ParseEndpoint(inst, pin, opts...)
	require.False(t, diags.HasErrors(), "ParseEndpoint(%q, %q) diagnostics: %v", inst, pin, diags)
	require.NotNil(t, e)
	return e
}

// registry builds a registry from name/expression pairs, each a single group.
func registry(t *testing.T, tag string, defs ...string) pattern.MapRegistry {
	t.Helper()
	require.Zero(t, len(defs)%2, "defs must be name/expression pairs")
	reg := pattern.MapRegistry{}
	for i := 0; i < len(defs); i += 2 {
		np, ok := pattern.Named(defs[i], tag, mustParse(t, defs[i+1]))
		require.True(t, ok, "%s is not a single group", defs[i+1])
		reg[defs[i]] = np
	}
	return reg
}

func codes(diags diag.List) []diag.Code {
	if len(diags) == 0 {
		return nil
	}
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}
