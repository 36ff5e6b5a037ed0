//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements boolean circuits, their construction
// from primitive gates, and the half-gates garbling and evaluation of
// the circuits between two parties.
package circuit

import (
	"fmt"
	"io"

	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"
)

// Operation specifies gate function.
type Operation byte

// Gate functions.
const (
	XOR Operation = iota
	AND
	OR
	INV
)

// Stats holds statistics about circuit operations.
type Stats [INV + 1]int

func (op Operation) String() string {
	switch op {
	case XOR:
		return "XOR"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case INV:
		return "INV"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Free tests if the operation is garbled without a table row.
func (op Operation) Free() bool {
	return op == XOR || op == INV
}

// FixedKind specifies the constant value of a fixed wire.
type FixedKind byte

// Fixed wire kinds.
const (
	FixedZero FixedKind = iota
	FixedOne
)

// FixedWire specifies a constant-valued wire.
type FixedWire struct {
	Wire Wire
	Kind FixedKind
}

func (f FixedWire) String() string {
	return f.Wire.String() + superscript.Itoa(int(f.Kind))
}

// TableRow holds the two half-gate ciphertexts of a garbled AND gate.
type TableRow [2]ot.Label

// Circuit specifies a boolean circuit. Wires 0...NumInputs-1 are the
// circuit inputs. The gates are stored in topological order. The
// topology fields are set by the Builder and they are not modified by
// garbling or evaluation so the same topology can be garbled many
// times.
type Circuit struct {
	NumInputs  int
	NumOutputs int
	NumGates   int
	NumWires   int
	NumAND     int
	Gates      []Gate
	Outputs    []Wire
	Fixed      []FixedWire

	// R is the free-XOR offset of the latest garbling.
	R ot.Label

	// Key is the block cipher key of the garbling hash function.
	Key ot.Label

	// FixedSeed seeds the labels of the fixed wires.
	FixedSeed ot.Label

	// Table holds one row for each AND and OR gate in gate order.
	Table []TableRow

	wires  []ot.Wire
	labels []ot.Label
}

// NewCircuit creates a new circuit with numInputs inputs and
// numOutputs outputs. The gateHint and wireHint are capacity
// estimates for the gate and wire arrays.
func NewCircuit(numInputs, numOutputs, gateHint, wireHint int) *Circuit {
	if wireHint < numInputs {
		wireHint = numInputs
	}
	return &Circuit{
		NumInputs:  numInputs,
		NumOutputs: numOutputs,
		NumWires:   numInputs,
		Gates:      make([]Gate, 0, gateHint),
		wires:      make([]ot.Wire, 0, wireHint),
	}
}

func (c *Circuit) String() string {
	var stats string

	st := c.Stats()
	for k := XOR; k <= INV; k++ {
		if len(stats) > 0 {
			stats += " "
		}
		stats += fmt.Sprintf("%s=%d", k, st[k])
	}
	return fmt.Sprintf("#gates=%d (%s) #w=%d #in=%d #out=%d",
		c.NumGates, stats, c.NumWires, c.NumInputs, c.NumOutputs)
}

// Stats counts the circuit gates by operation.
func (c *Circuit) Stats() Stats {
	var stats Stats
	for _, g := range c.Gates {
		stats[g.Op]++
	}
	return stats
}

// Cost computes the relative computational cost of the circuit. Free
// gates cost nothing and each table row costs two ciphertexts.
func (c *Circuit) Cost() int {
	return c.NumAND * 2
}

// Dump prints a debug dump of the circuit.
func (c *Circuit) Dump(out io.Writer) {
	fmt.Fprintf(out, "circuit %s\n", c)
	for _, f := range c.Fixed {
		fmt.Fprintf(out, "fixed\t%s\n", f)
	}
	for id, gate := range c.Gates {
		fmt.Fprintf(out, "%04d\t%s\n", id, gate)
	}
	fmt.Fprintf(out, "outputs\t%v\n", c.Outputs)
}

// PrintStats prints the circuit statistics to out.
func (c *Circuit) PrintStats(out io.Writer) {
	st := c.Stats()

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Item").SetAlign(tabulate.ML)
	tab.Header("Count").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column("Inputs")
	row.Column(fmt.Sprintf("%d", c.NumInputs))

	row = tab.Row()
	row.Column("Outputs")
	row.Column(fmt.Sprintf("%d", c.NumOutputs))

	row = tab.Row()
	row.Column("Wires")
	row.Column(fmt.Sprintf("%d", c.NumWires))

	row = tab.Row()
	row.Column("Fixed")
	row.Column(fmt.Sprintf("%d", len(c.Fixed)))

	row = tab.Row()
	row.Column("Gates").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", c.NumGates)).SetFormat(tabulate.FmtBold)

	for op := XOR; op <= INV; op++ {
		var prefix string
		if op == INV {
			prefix = "╰╴"
		} else {
			prefix = "├╴"
		}
		row = tab.Row()
		row.Column(prefix + op.String()).SetFormat(tabulate.FmtItalic)
		row.Column(fmt.Sprintf("%d", st[op])).SetFormat(tabulate.FmtItalic)
	}

	row = tab.Row()
	row.Column("Cost").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", c.Cost())).SetFormat(tabulate.FmtBold)

	row = tab.Row()
	row.Column("Table").SetFormat(tabulate.FmtBold)
	row.Column(FileSize(c.Cost() * 16).String()).SetFormat(tabulate.FmtBold)

	tab.Print(out)
}

// Gate specifies a boolean gate.
type Gate struct {
	Input0 Wire
	Input1 Wire
	Output Wire
	Op     Operation
}

func (g Gate) String() string {
	return fmt.Sprintf("%v %v %v", g.Inputs(), g.Op, g.Output)
}

// Inputs returns gate input wires.
func (g Gate) Inputs() []Wire {
	switch g.Op {
	case XOR, AND, OR:
		return []Wire{g.Input0, g.Input1}
	case INV:
		return []Wire{g.Input0}
	default:
		panic(fmt.Sprintf("unsupported gate type %s", g.Op))
	}
}

// Wire specifies a wire ID.
type Wire uint32

// ID returns the wire ID as integer.
func (w Wire) ID() int {
	return int(w)
}

func (w Wire) String() string {
	return fmt.Sprintf("w%d", w)
}

// Labels returns the garbled label pair of the wire. The result is
// valid after Garble.
func (c *Circuit) Labels(w Wire) ot.Wire {
	return c.wires[w]
}

// FileSize specifies a human readable byte count.
type FileSize uint64

func (s FileSize) String() string {
	if s > 1000*1000*1000*1000 {
		return fmt.Sprintf("%dTB", s/(1000*1000*1000*1000))
	} else if s > 1000*1000*1000 {
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	} else if s > 1000*1000 {
		return fmt.Sprintf("%dMB", s/(1000*1000))
	} else if s > 1000 {
		return fmt.Sprintf("%dkB", s/1000)
	} else {
		return fmt.Sprintf("%dB", s)
	}
}
