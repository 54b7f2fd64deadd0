/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pattern parses, expands and binds name pattern expressions.
//
// A pattern expression denotes a family of concrete names. Groups written in
// angle brackets expand; everything else is literal text:
//
//	DATA<3:0>          DATA3 DATA2 DATA1 DATA0
//	MN<1|2>.D<0|1>     MN1.D0 MN1.D1 MN2.D0 MN2.D1
//	OUT<P|N>;CLK<1:0>  OUTP OUTN CLK1 CLK0
//	BUS<@BIT>          labels taken from the named pattern BIT
//
// Every group instantiates an axis. Anonymous groups each get their own axis;
// a named reference reuses the axis of its named pattern, so two groups naming
// the same pattern select labels in lock-step. When a net pattern is bound to
// an endpoint pattern, named axes present on both sides broadcast instead of
// forming a cross product.
//
// Entry points never panic on malformed input. Each returns its result and a
// diag.List; a nil result is always accompanied by at least one
// error-severity diagnostic.
package pattern
