//
// labels.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"io"

	"github.com/markkurossi/gcpsi/ot"
	"github.com/pkg/errors"
)

// InvalidBit marks an output position whose label matched neither
// label of the output wire.
const InvalidBit = -1

// NewInputLabels creates count random input wires with the free-XOR
// offset r.
func NewInputLabels(rand io.Reader, r ot.Label, count int) ([]ot.Wire, error) {
	result := make([]ot.Wire, count)
	for i := 0; i < count; i++ {
		l0, err := ot.NewLabel(rand)
		if err != nil {
			return nil, err
		}
		l1 := l0
		l1.Xor(r)
		result[i] = ot.Wire{
			L0: l0,
			L1: l1,
		}
	}
	return result, nil
}

// LabelForBit returns the wire label corresponding to the provided bit.
func LabelForBit(wire ot.Wire, bit bool) ot.Label {
	if bit {
		return wire.L1
	}
	return wire.L0
}

// ExtractLabels selects the labels of the wires by the bit values.
func ExtractLabels(wires []ot.Wire, bits []bool) ([]ot.Label, error) {
	if len(wires) != len(bits) {
		return nil, errors.Wrapf(ErrPrecondition,
			"extract labels: %d wires, %d bits", len(wires), len(bits))
	}
	result := make([]ot.Label, len(wires))
	for i, w := range wires {
		result[i] = LabelForBit(w, bits[i])
	}
	return result, nil
}

// BitFromLabel resolves a concrete label back into a boolean value.
func BitFromLabel(wire ot.Wire, label ot.Label) (bool, error) {
	switch {
	case label.Equal(wire.L0):
		return false, nil
	case label.Equal(wire.L1):
		return true, nil
	default:
		return false, errors.Errorf("unknown label %s for wire %v",
			label, wire)
	}
}

// MapOutputs decodes the output labels with the output map. The
// result holds 0 or 1 for each output position, or InvalidBit if the
// label did not match the output wire.
func MapOutputs(outputs []ot.Wire, labels []ot.Label) []int {
	result := make([]int, len(outputs))
	for i, wire := range outputs {
		if i >= len(labels) {
			result[i] = InvalidBit
			continue
		}
		bit, err := BitFromLabel(wire, labels[i])
		if err != nil {
			result[i] = InvalidBit
		} else if bit {
			result[i] = 1
		}
	}
	return result
}
