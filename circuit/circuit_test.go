//
// Copyright (c) 2022-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
)

func newRand(t testing.TB, seed byte) *env.PRG {
	var key [env.SeedSize]byte
	for i := range key {
		key[i] = seed
	}
	prg, err := env.NewPRG(key[:])
	if err != nil {
		t.Fatal(err)
	}
	return prg
}

type constructor func(b *Builder, inputs []Wire) ([]Wire, error)

func build(t testing.TB, numInputs, numOutputs int, f constructor) *Circuit {
	c := NewCircuit(numInputs, numOutputs, 0, 0)
	b := NewBuilder(c)
	outputs, err := f(b, b.Inputs())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := b.Finish(outputs); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return c
}

func toBits(v uint64, bits int) []bool {
	result := make([]bool, bits)
	for i := 0; i < bits; i++ {
		result[i] = v&(1<<i) != 0
	}
	return result
}

func fromBits(bits []bool) uint64 {
	var v uint64
	for i, b := range bits {
		if b {
			v |= 1 << i
		}
	}
	return v
}

// garbleEval garbles and evaluates the circuit with the input bits. It
// verifies the free-XOR and point-and-permute invariants of every
// wire and that the result matches the plaintext evaluation.
func garbleEval(t *testing.T, c *Circuit, inputs []bool) []bool {
	rand := newRand(t, 42)

	r, err := ot.NewDelta(rand)
	if err != nil {
		t.Fatal(err)
	}
	wires, err := NewInputLabels(rand, r, c.NumInputs)
	if err != nil {
		t.Fatal(err)
	}
	outputs, err := c.Garble(rand, wires)
	if err != nil {
		t.Fatalf("garble: %v", err)
	}
	for w := 0; w < c.NumWires; w++ {
		l := c.Labels(Wire(w))
		if !l.Delta().Equal(r) {
			t.Fatalf("wire %d: free-XOR offset %s, expected %s",
				w, l.Delta(), r)
		}
		if l.L0.S() == l.L1.S() {
			t.Fatalf("wire %d: labels share point-and-permute bit", w)
		}
	}

	labels, err := ExtractLabels(wires, inputs)
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Evaluate(labels)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	bits := MapOutputs(outputs, result)

	expected, err := c.Compute(inputs)
	if err != nil {
		t.Fatal(err)
	}
	ret := make([]bool, len(bits))
	for i, bit := range bits {
		if bit == InvalidBit {
			t.Fatalf("output %d: invalid label", i)
		}
		ret[i] = bit == 1
		if ret[i] != expected[i] {
			t.Fatalf("output %d: garbled %v, plaintext %v",
				i, ret[i], expected[i])
		}
	}
	return ret
}

func TestGates(t *testing.T) {
	c := build(t, 2, 6, func(b *Builder, in []Wire) ([]Wire, error) {
		return []Wire{
			b.XOR(in[0], in[1]),
			b.AND(in[0], in[1]),
			b.OR(in[0], in[1]),
			b.INV(in[0]),
			b.ZeroWire(),
			b.OneWire(),
		}, nil
	})
	if c.NumAND != 2 {
		t.Errorf("NumAND=%d, expected 2", c.NumAND)
	}
	for v := uint64(0); v < 4; v++ {
		x := v&1 != 0
		y := v&2 != 0
		result := garbleEval(t, c, toBits(v, 2))
		expected := []bool{x != y, x && y, x || y, !x, false, true}
		for i := range expected {
			if result[i] != expected[i] {
				t.Errorf("%v,%v: output %d=%v, expected %v",
					x, y, i, result[i], expected[i])
			}
		}
	}
}

func TestFixedWiresMemoized(t *testing.T) {
	c := build(t, 1, 2, func(b *Builder, in []Wire) ([]Wire, error) {
		z0 := b.ZeroWire()
		z1 := b.ZeroWire()
		o0 := b.OneWire()
		o1 := b.OneWire()
		if z0 != z1 || o0 != o1 {
			t.Errorf("fixed wires not memoized")
		}
		return []Wire{b.AND(in[0], z0), b.AND(in[0], o0)}, nil
	})
	if len(c.Fixed) != 2 {
		t.Errorf("got %d fixed wires, expected 2", len(c.Fixed))
	}
	for _, v := range []bool{false, true} {
		result := garbleEval(t, c, []bool{v})
		if result[0] || result[1] != v {
			t.Errorf("%v: got %v", v, result)
		}
	}
}

func TestAdder(t *testing.T) {
	c := build(t, 4, 2, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewAdder(b, in)
	})
	// 2+3 mod 4 = 1
	inputs := append(toBits(2, 2), toBits(3, 2)...)
	result := garbleEval(t, c, inputs)
	if fromBits(result) != 1 {
		t.Errorf("2+3=%d, expected 1", fromBits(result))
	}

	const bits = 4
	c = build(t, 2*bits, bits, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewAdder(b, in)
	})
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y += 3 {
			inputs := append(toBits(x, bits), toBits(y, bits)...)
			result := fromBits(garbleEval(t, c, inputs))
			if result != (x+y)%(1<<bits) {
				t.Errorf("%d+%d=%d", x, y, result)
			}
		}
	}
}

func TestAdderSingleBit(t *testing.T) {
	c := build(t, 2, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewAdder(b, in)
	})
	if c.NumAND != 0 {
		t.Errorf("1-bit adder has %d AND gates", c.NumAND)
	}
}

func TestGeComparator(t *testing.T) {
	const bits = 3
	c := build(t, 2*bits, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		w, err := NewGeComparator(b, in)
		return []Wire{w}, err
	})
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y++ {
			inputs := append(toBits(x, bits), toBits(y, bits)...)
			result := garbleEval(t, c, inputs)
			if result[0] != (x >= y) {
				t.Errorf("%d>=%d: got %v", x, y, result[0])
			}
		}
	}
}

func TestGtComparator(t *testing.T) {
	const bits = 2
	c := build(t, 2*bits, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		w, err := NewGtComparator(b, in)
		return []Wire{w}, err
	})
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y++ {
			inputs := append(toBits(x, bits), toBits(y, bits)...)
			result := garbleEval(t, c, inputs)
			if result[0] != (x > y) {
				t.Errorf("%d>%d: got %v", x, y, result[0])
			}
		}
	}
}

func TestEqual(t *testing.T) {
	const bits = 3
	c := build(t, 2*bits, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		w, err := NewEqual(b, in)
		return []Wire{w}, err
	})
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y++ {
			inputs := append(toBits(x, bits), toBits(y, bits)...)
			result := garbleEval(t, c, inputs)
			if result[0] != (x == y) {
				t.Errorf("%d==%d: got %v", x, y, result[0])
			}
		}
	}
}

func TestMUX(t *testing.T) {
	const bits = 3
	c := build(t, 2*bits+1, bits, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewMUX(b, in)
	})
	for _, sel := range []bool{false, true} {
		inputs := append(toBits(5, bits), toBits(2, bits)...)
		inputs = append(inputs, sel)
		result := fromBits(garbleEval(t, c, inputs))
		expected := uint64(5)
		if sel {
			expected = 2
		}
		if result != expected {
			t.Errorf("mux(%v)=%d, expected %d", sel, result, expected)
		}
	}
}

func TestMax(t *testing.T) {
	const bits = 3
	c := build(t, 2*bits, bits, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewMax(b, in)
	})
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y++ {
			inputs := append(toBits(x, bits), toBits(y, bits)...)
			result := fromBits(garbleEval(t, c, inputs))
			expected := x
			if y > x {
				expected = y
			}
			if result != expected {
				t.Errorf("max(%d,%d)=%d", x, y, result)
			}
		}
	}
}

func vector(values []uint64, bits int) []bool {
	var result []bool
	for _, v := range values {
		result = append(result, toBits(v, bits)...)
	}
	return result
}

func TestMaxVec(t *testing.T) {
	const bits = 4
	values := []uint64{3, 9, 1, 7}
	c := build(t, len(values)*bits, bits,
		func(b *Builder, in []Wire) ([]Wire, error) {
			return NewMaxVec(b, in, bits)
		})
	result := fromBits(garbleEval(t, c, vector(values, bits)))
	if result != 9 {
		t.Errorf("max vector=%d, expected 9", result)
	}

	c = build(t, bits, bits, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewMaxVec(b, in, bits)
	})
	result = fromBits(garbleEval(t, c, toBits(6, bits)))
	if result != 6 {
		t.Errorf("single element max=%d, expected 6", result)
	}
}

func TestArgMaxVec(t *testing.T) {
	const bits = 3
	values := []uint64{2, 5, 1, 5}
	c := build(t, len(values)*bits, len(values)+bits,
		func(b *Builder, in []Wire) ([]Wire, error) {
			return NewArgMaxVec(b, in, bits)
		})
	result := garbleEval(t, c, vector(values, bits))

	expected := []bool{false, true, false, true}
	for i, e := range expected {
		if result[i] != e {
			t.Errorf("indicator %d=%v, expected %v", i, result[i], e)
		}
	}
	if m := fromBits(result[len(values):]); m != 5 {
		t.Errorf("max=%d, expected 5", m)
	}
}

func TestArgMaxVecShared(t *testing.T) {
	const bits = 4
	values := []uint64{6, 11, 4}
	shares := []uint64{9, 3, 14}

	other := make([]uint64, len(values))
	for i := range values {
		other[i] = (values[i] - shares[i]) & (1<<bits - 1)
	}
	inputs := append(vector(shares, bits), vector(other, bits)...)

	c := build(t, len(inputs), len(values)+bits,
		func(b *Builder, in []Wire) ([]Wire, error) {
			return NewArgMaxVecShared(b, in, bits)
		})
	result := garbleEval(t, c, inputs)

	expected := []bool{false, true, false}
	for i, e := range expected {
		if result[i] != e {
			t.Errorf("indicator %d=%v, expected %v", i, result[i], e)
		}
	}
	if m := fromBits(result[len(values):]); m != 11 {
		t.Errorf("max=%d, expected 11", m)
	}
}

func TestSetDiffVecShared(t *testing.T) {
	const bits = 3

	// Element values: 0, 0, 5, 0 with selector values 1, 0, 1, 1.
	a := []uint64{3, 7, 2, 0}
	b := []uint64{5, 1, 3, 0}
	aSel := []bool{true, true, false, false}
	bSel := []bool{false, true, true, true}

	var inputs []bool
	inputs = append(inputs, vector(a, bits)...)
	inputs = append(inputs, aSel...)
	inputs = append(inputs, vector(b, bits)...)
	inputs = append(inputs, bSel...)

	c := build(t, len(inputs), len(a),
		func(bld *Builder, in []Wire) ([]Wire, error) {
			return NewSetDiffVecShared(bld, in, bits)
		})
	result := garbleEval(t, c, inputs)

	expected := []bool{true, false, false, true}
	for i, e := range expected {
		if result[i] != e {
			t.Errorf("element %d=%v, expected %v", i, result[i], e)
		}
	}
}

func TestPreconditions(t *testing.T) {
	tests := []struct {
		name string
		n    int
		f    constructor
	}{
		{"adder", 3, NewAdder},
		{"and", 0, NewBitwiseAND},
		{"mux", 4, NewMUX},
		{"max", 5, NewMax},
		{"maxvec", 5, func(b *Builder, in []Wire) ([]Wire, error) {
			return NewMaxVec(b, in, 2)
		}},
		{"argmax", 6, func(b *Builder, in []Wire) ([]Wire, error) {
			return NewArgMaxVecShared(b, in, 2)
		}},
		{"setdiff", 8, func(b *Builder, in []Wire) ([]Wire, error) {
			return NewSetDiffVecShared(b, in, 2)
		}},
	}
	for _, test := range tests {
		b := NewBuilder(NewCircuit(test.n, 1, 0, 0))
		_, err := test.f(b, b.Inputs())
		if !errors.Is(err, ErrPrecondition) {
			t.Errorf("%s: expected precondition error, got %v",
				test.name, err)
		}
	}

	c := NewCircuit(2, 1, 0, 0)
	if _, err := NewEqual(NewBuilder(c), nil); !errors.Is(err, ErrPrecondition) {
		t.Errorf("equal: expected precondition error, got %v", err)
	}
}

func TestUnallocatedWire(t *testing.T) {
	c := NewCircuit(2, 1, 0, 0)
	b := NewBuilder(c)
	o := b.AND(0, 7)
	if err := b.Finish([]Wire{o}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected precondition error, got %v", err)
	}

	c = NewCircuit(2, 2, 0, 0)
	b = NewBuilder(c)
	o = b.XOR(0, 1)
	if err := b.Finish([]Wire{o}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected output count error, got %v", err)
	}
}

func TestGarbleOffset(t *testing.T) {
	c := build(t, 2, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		return NewBitwiseAND(b, in)
	})
	rand := newRand(t, 1)
	r, err := ot.NewDelta(rand)
	if err != nil {
		t.Fatal(err)
	}
	wires, err := NewInputLabels(rand, r, 2)
	if err != nil {
		t.Fatal(err)
	}
	wires[1].L1.Xor(ot.Label{D0: 1})
	if _, err := c.Garble(rand, wires); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected offset error, got %v", err)
	}

	r.SetS(false)
	wires, err = NewInputLabels(rand, r, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Garble(rand, wires); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected point-and-permute error, got %v", err)
	}
}

func TestMapOutputs(t *testing.T) {
	outputs := []ot.Wire{
		{L0: ot.Label{D1: 2}, L1: ot.Label{D1: 3}},
		{L0: ot.Label{D1: 4}, L1: ot.Label{D1: 5}},
		{L0: ot.Label{D1: 6}, L1: ot.Label{D1: 7}},
	}
	labels := []ot.Label{{D1: 3}, {D1: 99}}

	result := MapOutputs(outputs, labels)
	expected := []int{1, InvalidBit, InvalidBit}
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("output %d=%d, expected %d", i, result[i], expected[i])
		}
	}
}

func TestDump(t *testing.T) {
	c := build(t, 2, 1, func(b *Builder, in []Wire) ([]Wire, error) {
		return []Wire{b.AND(b.XOR(in[0], in[1]), b.OneWire())}, nil
	})
	var buf bytes.Buffer
	c.Dump(&buf)
	if !strings.Contains(buf.String(), "w3¹") {
		t.Errorf("dump missing fixed wire: %s", buf.String())
	}
	buf.Reset()
	c.Dot(&buf)
	if !strings.HasPrefix(buf.String(), "digraph circuit") {
		t.Errorf("invalid dot output: %s", buf.String())
	}
	st := c.Stats()
	if st[XOR] != 1 || st[AND] != 1 {
		t.Errorf("invalid stats: %v", st)
	}
	if c.Cost() != 2 {
		t.Errorf("Cost()=%d, expected 2", c.Cost())
	}
	buf.Reset()
	c.PrintStats(&buf)
	if !strings.Contains(buf.String(), "Cost") ||
		!strings.Contains(buf.String(), "32B") {
		t.Errorf("invalid stats table: %s", buf.String())
	}
}

func BenchmarkGarble(b *testing.B) {
	const bits = 16
	c := build(b, 64*bits, 64+bits,
		func(bld *Builder, in []Wire) ([]Wire, error) {
			return NewArgMaxVec(bld, in, bits)
		})
	rand := newRand(b, 7)
	r, err := ot.NewDelta(rand)
	if err != nil {
		b.Fatal(err)
	}
	wires, err := NewInputLabels(rand, r, c.NumInputs)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Garble(rand, wires); err != nil {
			b.Fatal(err)
		}
	}
}

func TestTiming(t *testing.T) {
	timing := NewTiming()
	timing.Sample("Garble", nil)
	timing.Sample("Xfer", []string{FileSize(2048).String()})

	stats := p2p.NewIOStats()
	stats.Sent.Add(2048)

	var buf bytes.Buffer
	timing.Print(&buf, stats)
	for _, s := range []string{"Garble", "Xfer", "2kB", "Total"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("report missing %s: %s", s, buf.String())
		}
	}
}
