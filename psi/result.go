//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/gcpsi/circuit"
	"github.com/markkurossi/tabulate"
)

// Result holds the result of a protocol run. The Set and Max fields
// are valid only for the client.
type Result struct {
	Kind     Kind
	NElems   int
	NumGates int
	NumAND   int
	NumWires int
	Outputs  []int
	Invalid  int

	// Set holds the elements whose output bit is 1. For ArgMax, the
	// set holds the indices of the maximum elements.
	Set *bitset.BitSet

	// Max holds the maximum value of the ArgMax.
	Max uint64

	Report *circuit.Report
}

func newResult(prog Program, circ *circuit.Circuit,
	report *circuit.Report) *Result {

	var nElems int
	switch args := prog.(type) {
	case *IntersectionArgs:
		nElems = args.NElems
	case *SetDiffArgs:
		nElems = args.NElems
	case *ArgMaxArgs:
		nElems = args.NElems
	}

	result := &Result{
		Kind:     prog.Kind(),
		NElems:   nElems,
		NumGates: circ.NumGates,
		NumAND:   circ.NumAND,
		NumWires: circ.NumWires,
		Outputs:  report.Outputs,
		Invalid:  report.Invalid,
		Set:      bitset.New(uint(nElems)),
		Report:   report,
	}
	for i, bit := range report.Outputs {
		if i < nElems {
			if bit == 1 {
				result.Set.Set(uint(i))
			}
		} else if bit == 1 {
			result.Max |= 1 << (i - nElems)
		}
	}
	return result
}

// Elements returns the elements of the result set.
func (r *Result) Elements() []uint {
	var result []uint
	for i, ok := r.Set.NextSet(0); ok; i, ok = r.Set.NextSet(i + 1) {
		result = append(result, i)
	}
	return result
}

// Print prints the result values.
func (r *Result) Print(out io.Writer) {
	fmt.Fprintf(out, "output:")
	for _, e := range r.Elements() {
		fmt.Fprintf(out, " %d", e)
	}
	fmt.Fprintln(out)
	if r.Kind == ArgMax {
		fmt.Fprintf(out, "max: %d\n", r.Max)
	}
	if r.Invalid > 0 {
		fmt.Fprintf(out, "invalid outputs: %d\n", r.Invalid)
	}
}

// PrintStats prints the protocol statistics.
func (r *Result) PrintStats(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Item").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	add := func(label, value string) {
		row := tab.Row()
		row.Column(label)
		row.Column(value)
	}
	add("Elements", fmt.Sprintf("%d", r.NElems))
	add("Gates", fmt.Sprintf("%d", r.NumGates))
	add("AND gates", fmt.Sprintf("%d", r.NumAND))
	add("Wires", fmt.Sprintf("%d", r.NumWires))

	if r.Report != nil {
		stats := r.Report.Stats
		add("Sent", circuit.FileSize(stats.Sent.Load()).String())
		add("Received", circuit.FileSize(stats.Recvd.Load()).String())
		add("Total", circuit.FileSize(stats.Sum()).String())
		add("Digest", fmt.Sprintf("%x", r.Report.Digest[:8]))
	}
	tab.Print(out)
}
