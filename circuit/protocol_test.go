//
// protocol_test.go
//
// Copyright (c) 2026 Markku Rossi
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

func newConfig(t *testing.T, seed byte, batchSize int) *env.Config {
	cfg := env.DefaultConfig()
	cfg.Rand = newRand(t, seed)
	cfg.OTBatchSize = batchSize
	return cfg
}

type garblerResult struct {
	report *Report
	err    error
}

func runProtocol(t *testing.T, build func() *Circuit, server, client []bool,
	batchSize int) (*Report, *Report) {

	gCfg := newConfig(t, 1, batchSize)
	eCfg := newConfig(t, 2, batchSize)

	gConn, eConn := p2p.Pipe()
	defer gConn.Close()
	defer eConn.Close()

	ch := make(chan garblerResult)
	go func() {
		cot := ot.NewIKNP(ot.NewCO(gCfg.Rand), gCfg.Rand)
		report, err := Garbler(gCfg, gConn, cot, build(), server, len(client))
		ch <- garblerResult{
			report: report,
			err:    err,
		}
	}()

	cot := ot.NewIKNP(ot.NewCO(eCfg.Rand), eCfg.Rand)
	eReport, err := Evaluator(eCfg, eConn, cot, build(), client)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	result := <-ch
	if result.err != nil {
		t.Fatalf("garbler: %v", result.err)
	}
	return result.report, eReport
}

func intersection(n int) func() *Circuit {
	return func() *Circuit {
		c := NewCircuit(2*n, n, n, 3*n)
		b := NewBuilder(c)
		outputs, err := NewBitwiseAND(b, b.Inputs())
		if err != nil {
			panic(err)
		}
		if err := b.Finish(outputs); err != nil {
			panic(err)
		}
		return c
	}
}

func TestProtocolIntersection(t *testing.T) {
	server := []bool{true, false, true, true}
	client := []bool{true, true, false, true}

	for _, batchSize := range []int{1, 3, env.DefaultOTBatchSize} {
		gReport, eReport := runProtocol(t, intersection(4), server, client,
			batchSize)

		expected := []int{1, 0, 0, 1}
		for i, bit := range eReport.Outputs {
			if bit != expected[i] {
				t.Errorf("batch %d: output %d=%d, expected %d",
					batchSize, i, bit, expected[i])
			}
		}
		if eReport.Invalid != 0 {
			t.Errorf("batch %d: %d invalid outputs",
				batchSize, eReport.Invalid)
		}
		if !bytes.Equal(gReport.Digest, eReport.Digest) {
			t.Errorf("batch %d: digest mismatch", batchSize)
		}
	}
}

func TestProtocolArgMax(t *testing.T) {
	const bits = 4
	values := []uint64{6, 11, 4}
	shares := []uint64{9, 3, 14}
	other := make([]uint64, len(values))
	for i := range values {
		other[i] = (values[i] - shares[i]) & (1<<bits - 1)
	}
	n := 2 * len(values) * bits

	build := func() *Circuit {
		c := NewCircuit(n, len(values)+bits, 0, 0)
		b := NewBuilder(c)
		outputs, err := NewArgMaxVecShared(b, b.Inputs(), bits)
		if err != nil {
			panic(err)
		}
		if err := b.Finish(outputs); err != nil {
			panic(err)
		}
		return c
	}
	_, eReport := runProtocol(t, build, vector(other, bits),
		vector(shares, bits), env.DefaultOTBatchSize)

	expected := []int{0, 1, 0, 1, 1, 0, 1}
	for i, bit := range eReport.Outputs {
		if bit != expected[i] {
			t.Errorf("output %d=%d, expected %d", i, bit, expected[i])
		}
	}
}

func TestProtocolNoClientInputs(t *testing.T) {
	build := func() *Circuit {
		c := NewCircuit(2, 1, 0, 0)
		b := NewBuilder(c)
		if err := b.Finish([]Wire{b.XOR(0, 1)}); err != nil {
			panic(err)
		}
		return c
	}
	_, eReport := runProtocol(t, build, []bool{true, false}, nil,
		env.DefaultOTBatchSize)
	if eReport.Outputs[0] != 1 {
		t.Errorf("got %v, expected [1]", eReport.Outputs)
	}
}

type failingCOT struct{}

var errFailing = errors.New("base OT failed")

func (cot failingCOT) InitSender(io ot.IO, delta ot.Label) error {
	return errFailing
}

func (cot failingCOT) InitReceiver(io ot.IO) error {
	return errFailing
}

func (cot failingCOT) Send(zero, one []ot.Label) error {
	return errFailing
}

func (cot failingCOT) Receive(flags []bool, result []ot.Label) error {
	return errFailing
}

func TestProtocolOTFailure(t *testing.T) {
	gConn, eConn := p2p.Pipe()
	defer gConn.Close()
	defer eConn.Close()

	server := []bool{true, false, true, true}
	client := []bool{true, true, false, true}

	_, err := Garbler(newConfig(t, 1, 0), gConn, failingCOT{},
		intersection(4)(), server, len(client))
	if !errors.Is(err, ErrOT) {
		t.Errorf("garbler: expected OT error, got %v", err)
	}
	if sent := gConn.Stats.Sent.Load(); sent != 0 {
		t.Errorf("garbler sent %d bytes after OT failure", sent)
	}

	_, err = Evaluator(newConfig(t, 2, 0), eConn, failingCOT{},
		intersection(4)(), client)
	if !errors.Is(err, ErrOT) {
		t.Errorf("evaluator: expected OT error, got %v", err)
	}
	if sent := eConn.Stats.Sent.Load(); sent != 0 {
		t.Errorf("evaluator sent %d bytes after OT failure", sent)
	}
}

func singleAND() *Circuit {
	c := NewCircuit(2, 1, 0, 0)
	b := NewBuilder(c)
	if err := b.Finish([]Wire{b.AND(0, 1)}); err != nil {
		panic(err)
	}
	return c
}

func TestProtocolInvalidAck(t *testing.T) {
	gConn, eConn := p2p.Pipe()
	defer gConn.Close()
	defer eConn.Close()

	circ := singleAND()

	ch := make(chan error)
	go func() {
		_, err := Garbler(newConfig(t, 1, 0), gConn, nil, circ,
			[]bool{true, true}, 0)
		ch <- err
	}()

	// Consume the garbled material: 2 input labels, 2 output labels,
	// 2 table labels, AND count, seed, and key.
	labels := make([]ot.Label, 6)
	if err := eConn.ReceiveLabels(labels); err != nil {
		t.Fatal(err)
	}
	if _, err := eConn.ReceiveUint32(); err != nil {
		t.Fatal(err)
	}
	if err := eConn.ReceiveLabels(labels[:2]); err != nil {
		t.Fatal(err)
	}
	if err := eConn.SendUint32(2); err != nil {
		t.Fatal(err)
	}
	if err := eConn.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := <-ch; !errors.Is(err, ErrProtocol) {
		t.Errorf("expected protocol error, got %v", err)
	}
}

func TestProtocolDisconnect(t *testing.T) {
	// Garbler disconnects after sending its input labels.
	gConn, eConn := p2p.Pipe()
	ch := make(chan error)
	go func() {
		labels := make([]ot.Label, 2)
		err := gConn.SendLabels(labels)
		if err == nil {
			err = gConn.Close()
		}
		ch <- err
	}()
	_, err := Evaluator(newConfig(t, 2, 0), eConn, nil, singleAND(), nil)
	if !errors.Is(err, p2p.ErrDisconnected) {
		t.Errorf("evaluator: expected disconnect, got %v", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "transfer: ") {
		t.Errorf("evaluator: expected transfer error, got %v", err)
	}
	if err := <-ch; err != nil {
		t.Fatal(err)
	}
	eConn.Close()

	// Evaluator disconnects without acknowledging.
	gConn, eConn = p2p.Pipe()
	go func() {
		_, err := Garbler(newConfig(t, 1, 0), gConn, nil, singleAND(),
			[]bool{true, false}, 0)
		ch <- err
	}()
	labels := make([]ot.Label, 6)
	if err := eConn.ReceiveLabels(labels); err != nil {
		t.Fatal(err)
	}
	if _, err := eConn.ReceiveUint32(); err != nil {
		t.Fatal(err)
	}
	if err := eConn.ReceiveLabels(labels[:2]); err != nil {
		t.Fatal(err)
	}
	if err := eConn.Close(); err != nil {
		t.Fatal(err)
	}
	err = <-ch
	if !errors.Is(err, p2p.ErrDisconnected) {
		t.Errorf("garbler: expected disconnect, got %v", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "ack: ") {
		t.Errorf("garbler: expected ack error, got %v", err)
	}
	gConn.Close()
}
