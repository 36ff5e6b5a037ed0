//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/pkg/errors"
)

// ErrPrecondition is returned when a circuit is constructed with
// invalid arguments.
var ErrPrecondition = errors.New("circuit precondition violated")

// Builder constructs the gates of a circuit. The builder allocates
// wires monotonically after the circuit inputs.
type Builder struct {
	circ *Circuit
	next Wire
	zero *Wire
	one  *Wire
	err  error
}

// NewBuilder starts building the circuit. Any previous gates, fixed
// wires, and outputs of the circuit are discarded.
func NewBuilder(c *Circuit) *Builder {
	c.Gates = c.Gates[:0]
	c.Fixed = nil
	c.Outputs = nil
	c.NumAND = 0
	c.NumGates = 0
	c.NumWires = c.NumInputs

	return &Builder{
		circ: c,
		next: Wire(c.NumInputs),
	}
}

// Inputs returns the circuit input wires.
func (b *Builder) Inputs() []Wire {
	result := make([]Wire, b.circ.NumInputs)
	for i := range result {
		result[i] = Wire(i)
	}
	return result
}

// NextWire allocates a new wire.
func (b *Builder) NextWire() Wire {
	w := b.next
	b.next++
	return w
}

// Err returns the first error the builder encountered.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) check(op Operation, wires ...Wire) {
	if b.err != nil {
		return
	}
	for _, w := range wires {
		if w >= b.next {
			b.err = errors.Wrapf(ErrPrecondition,
				"%s: input %s not allocated", op, w)
			return
		}
	}
}

func (b *Builder) binary(op Operation, x, y Wire) Wire {
	b.check(op, x, y)
	o := b.NextWire()
	b.circ.Gates = append(b.circ.Gates, Gate{
		Input0: x,
		Input1: y,
		Output: o,
		Op:     op,
	})
	if !op.Free() {
		b.circ.NumAND++
	}
	return o
}

// AND adds an AND gate and returns its output wire.
func (b *Builder) AND(x, y Wire) Wire {
	return b.binary(AND, x, y)
}

// XOR adds a XOR gate and returns its output wire.
func (b *Builder) XOR(x, y Wire) Wire {
	return b.binary(XOR, x, y)
}

// OR adds an OR gate and returns its output wire.
func (b *Builder) OR(x, y Wire) Wire {
	return b.binary(OR, x, y)
}

// INV adds an inverter gate and returns its output wire.
func (b *Builder) INV(x Wire) Wire {
	b.check(INV, x)
	o := b.NextWire()
	b.circ.Gates = append(b.circ.Gates, Gate{
		Input0: x,
		Output: o,
		Op:     INV,
	})
	return o
}

// ZeroWire returns the circuit's constant zero wire.
func (b *Builder) ZeroWire() Wire {
	if b.zero == nil {
		w := b.fixed(FixedZero)
		b.zero = &w
	}
	return *b.zero
}

// OneWire returns the circuit's constant one wire.
func (b *Builder) OneWire() Wire {
	if b.one == nil {
		w := b.fixed(FixedOne)
		b.one = &w
	}
	return *b.one
}

func (b *Builder) fixed(kind FixedKind) Wire {
	w := b.NextWire()
	b.circ.Fixed = append(b.circ.Fixed, FixedWire{
		Wire: w,
		Kind: kind,
	})
	return w
}

// Finish completes the circuit with the output wires.
func (b *Builder) Finish(outputs []Wire) error {
	if b.err != nil {
		return b.err
	}
	if len(outputs) != b.circ.NumOutputs {
		return errors.Wrapf(ErrPrecondition,
			"got %d outputs, expected %d", len(outputs), b.circ.NumOutputs)
	}
	for _, o := range outputs {
		if o >= b.next {
			return errors.Wrapf(ErrPrecondition,
				"output %s not allocated", o)
		}
	}
	c := b.circ
	c.Outputs = append([]Wire(nil), outputs...)
	c.NumGates = len(c.Gates)
	c.NumWires = int(b.next)
	return nil
}
