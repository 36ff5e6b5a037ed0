//
// circ_comparators.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// comparator tests if x>y if cin=0, and x>=y if cin=1.
func comparator(b *Builder, cin Wire, x, y []Wire) Wire {
	for i := 0; i < len(x); i++ {
		// w1 = XOR(x, cin)
		w1 := b.XOR(x[i], cin)

		// w2 = XOR(y, cin)
		w2 := b.XOR(y[i], cin)

		// w3 = AND(w1, w2)
		w3 := b.AND(w1, w2)

		// cout = XOR(x, w3)
		cin = b.XOR(x[i], w3)
	}
	return cin
}

// NewGtComparator adds a comparator testing if inputs[:n/2] >
// inputs[n/2:].
func NewGtComparator(b *Builder, inputs []Wire) (Wire, error) {
	x, y, err := split2("gt comparator", inputs)
	if err != nil {
		return 0, err
	}
	return comparator(b, b.ZeroWire(), x, y), nil
}

// NewGeComparator adds a comparator testing if inputs[:n/2] >=
// inputs[n/2:].
func NewGeComparator(b *Builder, inputs []Wire) (Wire, error) {
	x, y, err := split2("ge comparator", inputs)
	if err != nil {
		return 0, err
	}
	return comparator(b, b.OneWire(), x, y), nil
}

// NewEqual adds a circuit testing if inputs[:n/2] == inputs[n/2:].
func NewEqual(b *Builder, inputs []Wire) (Wire, error) {
	x, y, err := split2("equal", inputs)
	if err != nil {
		return 0, err
	}
	result := b.OneWire()
	for i := 0; i < len(x); i++ {
		eq := b.INV(b.XOR(x[i], y[i]))
		result = b.AND(result, eq)
	}
	return result, nil
}

func split2(name string, inputs []Wire) ([]Wire, []Wire, error) {
	n := len(inputs)
	if n == 0 || n%2 != 0 {
		return nil, nil, errors.Wrapf(ErrPrecondition,
			"%s: invalid input count %d", name, n)
	}
	return inputs[:n/2], inputs[n/2:], nil
}
