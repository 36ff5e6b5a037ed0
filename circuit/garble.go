//
// garble.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"io"

	"github.com/markkurossi/gcpsi/ot"
	"github.com/pkg/errors"
)

// Garble garbles the circuit with the input wire labels. All input
// wires must share the same free-XOR offset R which must have its
// point-and-permute bit set. The function draws a new garbling key
// and fixed-wire seed from rand, computes the garbled table into
// c.Table, and returns the label pairs of the circuit outputs.
func (c *Circuit) Garble(rand io.Reader, inputs []ot.Wire) ([]ot.Wire, error) {
	if len(inputs) != c.NumInputs {
		return nil, errors.Wrapf(ErrPrecondition,
			"garble: got %d inputs, expected %d", len(inputs), c.NumInputs)
	}
	if len(c.Outputs) != c.NumOutputs {
		return nil, errors.Wrap(ErrPrecondition, "garble: circuit not built")
	}

	// Free-XOR offset.
	var r ot.Label
	var err error
	if len(inputs) > 0 {
		r = inputs[0].Delta()
	} else {
		r, err = ot.NewDelta(rand)
		if err != nil {
			return nil, err
		}
	}
	if !r.S() {
		return nil, errors.Wrapf(ErrPrecondition,
			"garble: offset %s without point-and-permute bit", r)
	}
	for i, w := range inputs {
		if !w.Delta().Equal(r) {
			return nil, errors.Wrapf(ErrPrecondition,
				"garble: input %d has a different offset", i)
		}
	}
	c.R = r

	c.Key, err = ot.NewLabel(rand)
	if err != nil {
		return nil, err
	}
	c.FixedSeed, err = ot.NewLabel(rand)
	if err != nil {
		return nil, err
	}
	alg, err := newHasher(c.Key)
	if err != nil {
		return nil, err
	}
	fixed, err := newHasher(c.FixedSeed)
	if err != nil {
		return nil, err
	}

	if cap(c.wires) < c.NumWires {
		c.wires = make([]ot.Wire, c.NumWires)
	} else {
		c.wires = c.wires[:c.NumWires]
	}
	copy(c.wires, inputs)

	for idx, f := range c.Fixed {
		p := fixed.fixedLabel(idx)
		q := p
		q.Xor(r)
		if f.Kind == FixedZero {
			c.wires[f.Wire] = ot.Wire{L0: p, L1: q}
		} else {
			c.wires[f.Wire] = ot.Wire{L0: q, L1: p}
		}
	}

	c.Table = make([]TableRow, 0, c.NumAND)

	for id := range c.Gates {
		g := &c.Gates[id]
		a := c.wires[g.Input0]

		var l0 ot.Label

		switch g.Op {
		case XOR:
			b := c.wires[g.Input1]
			l0 = a.L0
			l0.Xor(b.L0)

		case INV:
			l0 = a.L1

		case AND:
			var row TableRow
			l0, row = garbleAND(alg, r, a, c.wires[g.Input1], id)
			c.Table = append(c.Table, row)

		case OR:
			// a OR b = NOT(NOT a AND NOT b)
			b := c.wires[g.Input1]
			na := ot.Wire{L0: a.L1, L1: a.L0}
			nb := ot.Wire{L0: b.L1, L1: b.L0}

			var row TableRow
			l0, row = garbleAND(alg, r, na, nb, id)
			c.Table = append(c.Table, row)
			l0.Xor(r)

		default:
			return nil, errors.Errorf("garble: invalid gate %s", g.Op)
		}

		l1 := l0
		l1.Xor(r)
		c.wires[g.Output] = ot.Wire{
			L0: l0,
			L1: l1,
		}
	}
	if len(c.Table) != c.NumAND {
		return nil, errors.Errorf("garble: created %d table rows, expected %d",
			len(c.Table), c.NumAND)
	}

	result := make([]ot.Wire, len(c.Outputs))
	for i, o := range c.Outputs {
		result[i] = c.wires[o]
	}
	return result, nil
}

// garbleAND garbles an AND gate with the half-gates construction. The
// function returns the zero label of the gate output and the gate's
// table row.
func garbleAND(alg *hasher, r ot.Label, a, b ot.Wire, id int) (
	ot.Label, TableRow) {

	tw0 := ot.NewTweak(uint64(2 * id))
	tw1 := ot.NewTweak(uint64(2*id + 1))

	pa := a.L0.S()
	pb := b.L0.S()

	ha0 := alg.hash(a.L0, tw0)
	ha1 := alg.hash(a.L1, tw0)
	hb0 := alg.hash(b.L0, tw1)
	hb1 := alg.hash(b.L1, tw1)

	// First half gate: garbler knows the permute bit pb.
	tg := ha0
	tg.Xor(ha1)
	if pb {
		tg.Xor(r)
	}
	wg := ha0
	if pa {
		wg.Xor(tg)
	}

	// Second half gate: evaluator knows the value b ⊕ pb.
	te := hb0
	te.Xor(hb1)
	te.Xor(a.L0)

	we := hb0
	if pb {
		tmp := te
		tmp.Xor(a.L0)
		we.Xor(tmp)
	}

	l0 := wg
	l0.Xor(we)

	return l0, TableRow{tg, te}
}
