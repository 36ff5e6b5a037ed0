//
// circ_vector.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// NewMaxVec adds a circuit returning the maximum of the k-bit
// elements of the inputs vector.
func NewMaxVec(b *Builder, inputs []Wire, k int) ([]Wire, error) {
	n := len(inputs)
	if k <= 0 || n == 0 || n%k != 0 {
		return nil, errors.Wrapf(ErrPrecondition,
			"max vector: %d inputs not divisible to %d-bit elements", n, k)
	}
	maxWires := append([]Wire(nil), inputs[:k]...)

	for i := k; i < n; i += k {
		args := make([]Wire, 0, 2*k)
		args = append(args, maxWires...)
		args = append(args, inputs[i:i+k]...)

		var err error
		maxWires, err = NewMax(b, args)
		if err != nil {
			return nil, err
		}
	}
	return maxWires, nil
}

// NewArgMaxVec adds a circuit returning the indicator bits of the
// maximum elements of the inputs vector followed by the k bits of the
// maximum value. The indicator bit i is 1 if the element i equals the
// maximum.
func NewArgMaxVec(b *Builder, inputs []Wire, k int) ([]Wire, error) {
	maxWires, err := NewMaxVec(b, inputs, k)
	if err != nil {
		return nil, err
	}
	nElems := len(inputs) / k

	result := make([]Wire, 0, nElems+k)
	for i := 0; i < nElems; i++ {
		args := make([]Wire, 0, 2*k)
		args = append(args, inputs[i*k:(i+1)*k]...)
		args = append(args, maxWires...)

		eq, err := NewEqual(b, args)
		if err != nil {
			return nil, err
		}
		result = append(result, eq)
	}
	return append(result, maxWires...), nil
}

// NewArgMaxVecShared adds an arg-max circuit over additively shared
// elements. The input halves hold the two parties' shares of the
// k-bit elements. The elements are reconstructed with modular
// addition before computing the arg-max.
func NewArgMaxVecShared(b *Builder, inputs []Wire, k int) ([]Wire, error) {
	n := len(inputs)
	if k <= 0 || n == 0 || n%(2*k) != 0 {
		return nil, errors.Wrapf(ErrPrecondition,
			"shared arg-max: %d inputs not divisible to 2x%d-bit elements",
			n, k)
	}
	split := n / 2
	nElems := split / k

	sums := make([]Wire, 0, split)
	for e := 0; e < nElems; e++ {
		sum, err := addShares(b, inputs[e*k:(e+1)*k],
			inputs[split+e*k:split+(e+1)*k])
		if err != nil {
			return nil, err
		}
		sums = append(sums, sum...)
	}
	return NewArgMaxVec(b, sums, k)
}

// NewSetDiffVecShared adds a set difference circuit over additively
// shared elements. Each input half holds one party's nElems k-bit
// value shares followed by its nElems selector shares. The output bit
// e is 1 if the element e sums to zero and its selector shares differ.
func NewSetDiffVecShared(b *Builder, inputs []Wire, k int) ([]Wire, error) {
	n := len(inputs)
	if k <= 0 || n == 0 || n%(2*k+2) != 0 {
		return nil, errors.Wrapf(ErrPrecondition,
			"shared set difference: %d inputs not divisible to 2x%d+1 bits",
			n, k)
	}
	split := n / 2
	nElems := split / (k + 1)
	valueBits := nElems * k

	zero := b.ZeroWire()

	result := make([]Wire, nElems)
	for e := 0; e < nElems; e++ {
		sum, err := addShares(b, inputs[e*k:(e+1)*k],
			inputs[split+e*k:split+(e+1)*k])
		if err != nil {
			return nil, err
		}

		args := make([]Wire, 0, 2*k)
		args = append(args, sum...)
		for i := 0; i < k; i++ {
			args = append(args, zero)
		}
		isZero, err := NewEqual(b, args)
		if err != nil {
			return nil, err
		}

		sel := b.XOR(inputs[valueBits+e], inputs[split+valueBits+e])
		result[e] = b.AND(isZero, sel)
	}
	return result, nil
}

func addShares(b *Builder, x, y []Wire) ([]Wire, error) {
	args := make([]Wire, 0, len(x)+len(y))
	args = append(args, x...)
	args = append(args, y...)
	return NewAdder(b, args)
}
