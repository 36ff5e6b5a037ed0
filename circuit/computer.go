//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// Compute evaluates the circuit in plaintext with the input bits and
// returns the output bits.
func (c *Circuit) Compute(inputs []bool) ([]bool, error) {
	if len(inputs) != c.NumInputs {
		return nil, errors.Wrapf(ErrPrecondition,
			"compute: got %d inputs, expected %d", len(inputs), c.NumInputs)
	}

	wires := make([]bool, c.NumWires)
	copy(wires, inputs)

	for _, f := range c.Fixed {
		wires[f.Wire] = f.Kind == FixedOne
	}

	// Evaluate circuit.
	for _, gate := range c.Gates {
		var result bool

		switch gate.Op {
		case XOR:
			result = wires[gate.Input0] != wires[gate.Input1]

		case AND:
			result = wires[gate.Input0] && wires[gate.Input1]

		case OR:
			result = wires[gate.Input0] || wires[gate.Input1]

		case INV:
			result = !wires[gate.Input0]

		default:
			return nil, errors.Errorf("invalid gate %s", gate.Op)
		}

		wires[gate.Output] = result
	}

	// Construct outputs
	result := make([]bool, len(c.Outputs))
	for i, o := range c.Outputs {
		result[i] = wires[o]
	}

	return result, nil
}
