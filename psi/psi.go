//
// psi.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package psi implements the two-party set operations on top of the
// garbled circuit protocol. The server garbles the circuit and the
// client evaluates it and learns the result.
package psi

import (
	"fmt"

	"github.com/markkurossi/gcpsi/circuit"
	"github.com/pkg/errors"
)

// Kind specifies the protocol kind.
type Kind int

// Protocol kinds.
const (
	BasicIntersection Kind = iota
	SetDifference
	ArgMax
)

var kindNames = map[Kind]string{
	BasicIntersection: "intersection",
	SetDifference:     "setdiff",
	ArgMax:            "argmax",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return fmt.Sprintf("{Kind %d}", int(k))
}

// ParseKind parses the protocol kind name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown protocol kind '%s'", name)
}

// Program defines a protocol kind with its arguments.
type Program interface {
	// Kind returns the protocol kind.
	Kind() Kind

	// ClientInputs returns the number of the client's input wires.
	ClientInputs() int

	// ServerInputs returns the number of the server's input wires.
	ServerInputs() int

	// NumOutputs returns the number of circuit output wires.
	NumOutputs() int

	// Estimate returns estimates for the circuit gate and wire counts.
	Estimate() (gates, wires int)

	// Build adds the program gates to the circuit.
	Build(b *circuit.Builder, inputs []circuit.Wire) ([]circuit.Wire, error)
}

// NewProgram creates the program for the protocol kind. The nBits
// argument is ignored for BasicIntersection.
func NewProgram(kind Kind, nElems, nBits int) (Program, error) {
	if nElems <= 0 {
		return nil, errors.Wrapf(circuit.ErrPrecondition,
			"invalid number of elements %d", nElems)
	}
	switch kind {
	case BasicIntersection:
		return &IntersectionArgs{
			NElems: nElems,
		}, nil

	case SetDifference, ArgMax:
		if nBits <= 0 {
			return nil, errors.Wrapf(circuit.ErrPrecondition,
				"invalid number of bits %d", nBits)
		}
		if kind == SetDifference {
			return &SetDiffArgs{
				NElems: nElems,
				NBits:  nBits,
			}, nil
		}
		// The maximum value is decoded into an uint64.
		if nBits > 64 {
			return nil, errors.Wrapf(circuit.ErrPrecondition,
				"arg-max: %d-bit elements exceed 64 bits", nBits)
		}
		return &ArgMaxArgs{
			NElems: nElems,
			NBits:  nBits,
		}, nil

	default:
		return nil, errors.Errorf("unknown protocol kind %s", kind)
	}
}

// NewCircuit creates the circuit for the program.
func NewCircuit(prog Program) (*circuit.Circuit, error) {
	gates, wires := prog.Estimate()
	c := circuit.NewCircuit(prog.ClientInputs()+prog.ServerInputs(),
		prog.NumOutputs(), gates, wires)

	b := circuit.NewBuilder(c)
	outputs, err := prog.Build(b, b.Inputs())
	if err != nil {
		return nil, err
	}
	if err := b.Finish(outputs); err != nil {
		return nil, err
	}
	return c, nil
}

// IntersectionArgs define the basic set intersection. Both parties
// hold a membership bit for each of the NElems elements.
type IntersectionArgs struct {
	NElems int
}

// Kind implements Program.Kind.
func (args *IntersectionArgs) Kind() Kind {
	return BasicIntersection
}

// ClientInputs implements Program.ClientInputs.
func (args *IntersectionArgs) ClientInputs() int {
	return args.NElems
}

// ServerInputs implements Program.ServerInputs.
func (args *IntersectionArgs) ServerInputs() int {
	return args.NElems
}

// NumOutputs implements Program.NumOutputs.
func (args *IntersectionArgs) NumOutputs() int {
	return args.NElems
}

// Estimate implements Program.Estimate. The circuit has one AND gate
// for each element.
func (args *IntersectionArgs) Estimate() (gates, wires int) {
	return args.NElems, 3 * args.NElems
}

// Build implements Program.Build.
func (args *IntersectionArgs) Build(b *circuit.Builder,
	inputs []circuit.Wire) ([]circuit.Wire, error) {
	return circuit.NewBitwiseAND(b, inputs)
}

// SetDiffArgs define the set difference over additively shared
// NBits-bit element values. Each party holds its value shares
// followed by its selector shares.
type SetDiffArgs struct {
	NElems int
	NBits  int
}

// Kind implements Program.Kind.
func (args *SetDiffArgs) Kind() Kind {
	return SetDifference
}

// ClientInputs implements Program.ClientInputs.
func (args *SetDiffArgs) ClientInputs() int {
	return args.NElems * (args.NBits + 1)
}

// ServerInputs implements Program.ServerInputs.
func (args *SetDiffArgs) ServerInputs() int {
	return args.NElems * (args.NBits + 1)
}

// NumOutputs implements Program.NumOutputs.
func (args *SetDiffArgs) NumOutputs() int {
	return args.NElems
}

// Estimate implements Program.Estimate.
func (args *SetDiffArgs) Estimate() (gates, wires int) {
	return (8*args.NBits - 1) * args.NElems,
		(11*args.NBits+2)*args.NElems + 1
}

// Build implements Program.Build.
func (args *SetDiffArgs) Build(b *circuit.Builder,
	inputs []circuit.Wire) ([]circuit.Wire, error) {
	return circuit.NewSetDiffVecShared(b, inputs, args.NBits)
}

// ArgMaxArgs define the arg-max over additively shared NBits-bit
// element values.
type ArgMaxArgs struct {
	NElems int
	NBits  int
}

// Kind implements Program.Kind.
func (args *ArgMaxArgs) Kind() Kind {
	return ArgMax
}

// ClientInputs implements Program.ClientInputs.
func (args *ArgMaxArgs) ClientInputs() int {
	return args.NElems * args.NBits
}

// ServerInputs implements Program.ServerInputs.
func (args *ArgMaxArgs) ServerInputs() int {
	return args.NElems * args.NBits
}

// NumOutputs implements Program.NumOutputs.
func (args *ArgMaxArgs) NumOutputs() int {
	return args.NElems + args.NBits
}

// Estimate implements Program.Estimate.
func (args *ArgMaxArgs) Estimate() (gates, wires int) {
	return 15 * args.NElems * args.NBits, 18 * args.NElems * args.NBits
}

// Build implements Program.Build.
func (args *ArgMaxArgs) Build(b *circuit.Builder,
	inputs []circuit.Wire) ([]circuit.Wire, error) {
	return circuit.NewArgMaxVecShared(b, inputs, args.NBits)
}
