//
// eval.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/markkurossi/gcpsi/ot"
	"github.com/pkg/errors"
)

// Evaluate evaluates the garbled circuit with the active input
// labels. The circuit's Key, FixedSeed, and Table must be set from
// the garbler's material. The function returns the active labels of
// the circuit outputs.
func (c *Circuit) Evaluate(inputs []ot.Label) ([]ot.Label, error) {
	if len(inputs) != c.NumInputs {
		return nil, errors.Wrapf(ErrPrecondition,
			"evaluate: got %d inputs, expected %d", len(inputs), c.NumInputs)
	}
	if len(c.Table) != c.NumAND {
		return nil, errors.Wrapf(ErrProtocol,
			"evaluate: got %d table rows, expected %d",
			len(c.Table), c.NumAND)
	}
	alg, err := newHasher(c.Key)
	if err != nil {
		return nil, err
	}
	fixed, err := newHasher(c.FixedSeed)
	if err != nil {
		return nil, err
	}

	if cap(c.labels) < c.NumWires {
		c.labels = make([]ot.Label, c.NumWires)
	} else {
		c.labels = c.labels[:c.NumWires]
	}
	copy(c.labels, inputs)

	for idx, f := range c.Fixed {
		c.labels[f.Wire] = fixed.fixedLabel(idx)
	}

	var row int

	for id := range c.Gates {
		g := &c.Gates[id]
		a := c.labels[g.Input0]

		var result ot.Label

		switch g.Op {
		case XOR:
			result = a
			result.Xor(c.labels[g.Input1])

		case INV:
			result = a

		case AND, OR:
			result = evalAND(alg, a, c.labels[g.Input1], c.Table[row], id)
			row++

		default:
			return nil, errors.Errorf("evaluate: invalid gate %s", g.Op)
		}
		c.labels[g.Output] = result
	}

	result := make([]ot.Label, len(c.Outputs))
	for i, o := range c.Outputs {
		result[i] = c.labels[o]
	}
	return result, nil
}

func evalAND(alg *hasher, a, b ot.Label, row TableRow, id int) ot.Label {
	tw0 := ot.NewTweak(uint64(2 * id))
	tw1 := ot.NewTweak(uint64(2*id + 1))

	wg := alg.hash(a, tw0)
	if a.S() {
		wg.Xor(row[0])
	}
	we := alg.hash(b, tw1)
	if b.S() {
		tmp := row[1]
		tmp.Xor(a)
		we.Xor(tmp)
	}
	wg.Xor(we)
	return wg
}
