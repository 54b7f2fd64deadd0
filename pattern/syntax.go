/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"regexp"
	"strings"
)

// NamedRefPattern matches named axis references: <@NAME>
var NamedRefPattern = regexp.MustCompile(`<\s*@([^<>|,:;@\s]+)\s*>`)

// HasSyntax reports whether raw contains group or splice syntax.
// Plain literal names should not be handed to the pattern engine.
func HasSyntax(raw string) bool {
	return strings.ContainsAny(raw, "<>;")
}

// References returns the named patterns referenced by raw, in order of first use.
func References(raw string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range NamedRefPattern.FindAllStringSubmatch(raw, -1) {
		if len(m) > 1 && !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// SplitEndpoint splits "inst.pin" at the first '.' outside of a group.
func SplitEndpoint(raw string) (inst, pin string, ok bool) {
	depth := 0
	for i, r := range raw {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				return raw[:i], raw[i+1:], true
			}
		}
	}
	return raw, "", false
}
