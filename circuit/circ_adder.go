//
// circ_adder.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// NewHalfAdder adds a half adder. The function returns the sum and
// carry wires.
func NewHalfAdder(b *Builder, x, y Wire) (s, c Wire) {
	// S = XOR(X, Y)
	s = b.XOR(x, y)
	// C = AND(X, Y)
	c = b.AND(x, y)
	return
}

// NewFullAdder adds a full adder. The function returns the sum and
// carry wires. If cout is false, the carry is not computed and the
// returned carry wire is undefined.
func NewFullAdder(b *Builder, x, y, cin Wire, cout bool) (s, c Wire) {
	// s = x XOR y XOR cin
	// cout = x XOR ((x XOR cin) AND (x XOR y)).

	// w1 = XOR(cin, x)
	w1 := b.XOR(cin, x)

	// w2 = XOR(y, x)
	w2 := b.XOR(y, x)

	// s = XOR(cin, w2)
	s = b.XOR(cin, w2)

	if cout {
		// w4 = AND(w1, w2)
		w4 := b.AND(w1, w2)

		// cout = XOR(x, w4)
		c = b.XOR(x, w4)
	}
	return
}

// NewAdder adds a ripple-carry adder for the two operands
// inputs[:n/2] and inputs[n/2:]. The result has n/2 bits and the
// carry-out is dropped.
func NewAdder(b *Builder, inputs []Wire) ([]Wire, error) {
	n := len(inputs)
	if n == 0 || n%2 != 0 {
		return nil, errors.Wrapf(ErrPrecondition,
			"adder: invalid input count %d", n)
	}
	split := n / 2
	x := inputs[:split]
	y := inputs[split:]

	result := make([]Wire, split)

	if split == 1 {
		// N+N=N, overflow, drop carry bit.
		result[0] = b.XOR(x[0], y[0])
		return result, nil
	}

	var cin Wire
	result[0], cin = NewHalfAdder(b, x[0], y[0])

	for i := 1; i < split; i++ {
		result[i], cin = NewFullAdder(b, x[i], y[i], cin, i+1 < split)
	}
	return result, nil
}

// NewBitwiseAND adds a circuit computing the bitwise AND of the
// operands inputs[:n/2] and inputs[n/2:].
func NewBitwiseAND(b *Builder, inputs []Wire) ([]Wire, error) {
	n := len(inputs)
	if n == 0 || n%2 != 0 {
		return nil, errors.Wrapf(ErrPrecondition,
			"bitwise AND: invalid input count %d", n)
	}
	split := n / 2

	result := make([]Wire, split)
	for i := 0; i < split; i++ {
		result[i] = b.AND(inputs[i], inputs[split+i])
	}
	return result, nil
}
