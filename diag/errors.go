/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package diag

import "errors"

// Sentinel errors for diagnostic classes.
var (
	// ErrSyntax indicates malformed pattern syntax detected while parsing.
	ErrSyntax = errors.New("pattern syntax error")

	// ErrSemantic indicates a well-formed pattern that cannot be expanded.
	ErrSemantic = errors.New("pattern expansion error")

	// ErrBinding indicates two patterns that cannot be bound to each other.
	ErrBinding = errors.New("pattern binding error")

	// ErrElaboration indicates a problem found while materializing atoms into a module.
	ErrElaboration = errors.New("elaboration error")

	// ErrRegistry indicates an invalid named pattern declaration.
	ErrRegistry = errors.New("named pattern error")

	// ErrCircularReference indicates named patterns that reference each other in a loop.
	ErrCircularReference = errors.New("circular named pattern reference")
)
