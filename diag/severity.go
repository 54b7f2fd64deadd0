/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package diag

import "fmt"

// Severity ranks a diagnostic.
type Severity int

const (
	// Error diagnostics invalidate the result they accompany.
	Error Severity = iota

	// Warning diagnostics flag questionable input without rejecting it.
	Warning

	// Info diagnostics are purely informational.
	Info
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity returns the severity from a string representation.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error", "err", "E":
		return Error, nil
	case "warning", "warn", "W":
		return Warning, nil
	case "info", "I":
		return Info, nil
	default:
		return Error, fmt.Errorf("unrecognized severity: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler so severities render by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
