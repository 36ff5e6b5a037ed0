//
// circ_mux.go
//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// NewMUX adds a multiplexer selecting between the operands
// inputs[:(n-1)/2] and inputs[(n-1)/2:n-1] with the select bit
// inputs[n-1]. The result is the first operand if the select bit is 0
// and the second operand otherwise.
func NewMUX(b *Builder, inputs []Wire) ([]Wire, error) {
	n := len(inputs)
	if n < 3 || n%2 != 1 {
		return nil, errors.Wrapf(ErrPrecondition,
			"mux: invalid input count %d", n)
	}
	split := (n - 1) / 2
	sel := inputs[n-1]

	result := make([]Wire, split)
	for i := 0; i < split; i++ {
		// out = a XOR (sel AND (a XOR b))
		w1 := b.XOR(inputs[i], inputs[split+i])
		w2 := b.AND(sel, w1)
		result[i] = b.XOR(inputs[i], w2)
	}
	return result, nil
}

// NewMax adds a circuit returning the maximum of the operands
// inputs[:n/2] and inputs[n/2:].
func NewMax(b *Builder, inputs []Wire) ([]Wire, error) {
	x, y, err := split2("max", inputs)
	if err != nil {
		return nil, err
	}
	cmp, err := NewGeComparator(b, inputs)
	if err != nil {
		return nil, err
	}

	muxInputs := make([]Wire, 0, len(inputs)+1)
	muxInputs = append(muxInputs, y...)
	muxInputs = append(muxInputs, x...)
	muxInputs = append(muxInputs, cmp)

	return NewMUX(b, muxInputs)
}
