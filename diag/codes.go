/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package diag

// Code is a stable, machine-checkable diagnostic identifier.
type Code string

// Parser codes.
const (
	PatternEmptyEnum        Code = "PATTERN_EMPTY_ENUM"
	PatternInvalidRange     Code = "PATTERN_INVALID_RANGE"
	PatternEmptySplice      Code = "PATTERN_EMPTY_SPLICE"
	PatternUnexpanded       Code = "PATTERN_UNEXPANDED"
	PatternUnbalancedGroup  Code = "PATTERN_UNBALANCED_GROUP"
	PatternUnknownAxis      Code = "PATTERN_UNKNOWN_AXIS"
	PatternAxisConflict     Code = "PATTERN_AXIS_CONFLICT"
	PatternAxisKindMismatch Code = "PATTERN_AXIS_KIND_MISMATCH"
)

// Atomizer codes.
const (
	PatternDuplicateAtom Code = "PATTERN_DUPLICATE_ATOM"
	PatternTooLarge      Code = "PATTERN_TOO_LARGE"
)

// Binder codes.
const (
	BindAxisSizeMismatch    Code = "BIND_AXIS_SIZE_MISMATCH"
	BindAxisLabelMismatch   Code = "BIND_AXIS_LABEL_MISMATCH"
	BindAxisKindMismatch    Code = "BIND_AXIS_KIND_MISMATCH"
	BindSpliceBroadcast     Code = "BIND_SPLICE_BROADCAST"
	BindAxisProductMismatch Code = "BIND_AXIS_PRODUCT_MISMATCH"
)

// Named pattern registry codes.
const (
	NamedPatternInvalid   Code = "NAMED_PATTERN_INVALID"
	NamedPatternDuplicate Code = "NAMED_PATTERN_DUPLICATE"
	NamedPatternCycle     Code = "NAMED_PATTERN_CYCLE"
)

// Elaboration codes.
const (
	NetLiteralCollision      Code = "NET_LITERAL_COLLISION"
	InstanceLiteralCollision Code = "INSTANCE_LITERAL_COLLISION"
	ElabDuplicateName        Code = "ELAB_DUPLICATE_NAME"
	ElabUnknownInstance      Code = "ELAB_UNKNOWN_INSTANCE"
	ElabEndpointConflict     Code = "ELAB_ENDPOINT_CONFLICT"
	ElabInvalidEndpoint      Code = "ELAB_INVALID_ENDPOINT"
)

// Class returns the sentinel error for the code's diagnostic class.
func (c Code) Class() error {
	switch c {
	case PatternEmptyEnum, PatternInvalidRange, PatternEmptySplice, PatternUnexpanded,
		PatternUnbalancedGroup, PatternUnknownAxis, PatternAxisConflict, PatternAxisKindMismatch:
		return ErrSyntax
	case PatternDuplicateAtom, PatternTooLarge:
		return ErrSemantic
	case BindAxisSizeMismatch, BindAxisLabelMismatch, BindAxisKindMismatch,
		BindSpliceBroadcast, BindAxisProductMismatch:
		return ErrBinding
	case NamedPatternInvalid, NamedPatternDuplicate, NamedPatternCycle:
		return ErrRegistry
	default:
		return ErrElaboration
	}
}
