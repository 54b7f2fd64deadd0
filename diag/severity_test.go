/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package diag_test

import (
	"testing"

	"bennypowers.dev/netpat/diag"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity diag.Severity
		expected string
	}{
		{diag.Error, "error"},
		{diag.Warning, "warning"},
		{diag.Info, "info"},
		{diag.Severity(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.expected {
				t.Errorf("Severity.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected diag.Severity
		wantErr  bool
	}{
		{"error", diag.Error, false},
		{"warn", diag.Warning, false},
		{"W", diag.Warning, false},
		{"info", diag.Info, false},
		{"fatal", diag.Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := diag.ParseSeverity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSeverity() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseSeverity() = %v, want %v", got, tt.expected)
			}
		})
	}
}
