//
// garbler.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Garbler runs the garbler (server) role of the protocol. The
// evaluator owns the first numClient circuit input wires and the
// garbler the remaining wires, selected with the inputs bits. The
// function transfers the evaluator's input labels with the correlated
// OT, garbles the circuit, sends the garbled material to the
// evaluator, and waits for the evaluator's acknowledgement.
func Garbler(cfg *env.Config, conn *p2p.Conn, cot ot.COT, circ *Circuit,
	inputs []bool, numClient int) (*Report, error) {

	log := cfg.GetLogger().With(zap.String("role", "garbler"))
	rand := cfg.GetRandom()
	timing := NewTiming()

	if numClient < 0 || numClient+len(inputs) != circ.NumInputs {
		return nil, errors.Wrapf(ErrPrecondition,
			"garbler: %d+%d inputs, circuit has %d",
			numClient, len(inputs), circ.NumInputs)
	}

	r, err := ot.NewDelta(rand)
	if err != nil {
		return nil, err
	}

	// Evaluator's input labels with OT.
	wires := make([]ot.Wire, circ.NumInputs)
	if numClient > 0 {
		log.Debug("transfer inputs", zap.String("phase", "ot"),
			zap.Int("wires", numClient))

		if err := cot.InitSender(conn, r); err != nil {
			return nil, errors.Wrapf(ErrOT, "init: %v", err)
		}
		zero := make([]ot.Label, numClient)
		one := make([]ot.Label, numClient)

		err = batches(numClient, cfg.GetOTBatchSize(),
			func(start, end int) error {
				return cot.Send(zero[start:end], one[start:end])
			})
		if err != nil {
			return nil, errors.Wrapf(ErrOT, "send: %v", err)
		}
		for i := 0; i < numClient; i++ {
			wires[i] = ot.Wire{
				L0: zero[i],
				L1: one[i],
			}
		}
	}
	xfer := conn.Stats.Sum()
	timing.Sample("OT", []string{FileSize(xfer).String()})

	// Our input labels.
	own, err := NewInputLabels(rand, r, len(inputs))
	if err != nil {
		return nil, err
	}
	copy(wires[numClient:], own)

	log.Debug("garble", zap.String("phase", "garble"),
		zap.Int("gates", circ.NumGates), zap.Int("and", circ.NumAND))

	outputs, err := circ.Garble(rand, wires)
	if err != nil {
		return nil, errors.Wrap(err, "garble")
	}
	timing.Sample("Garble", nil)

	// Send garbled material.
	labels, err := ExtractLabels(own, inputs)
	if err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	if err := sendGarbled(conn, circ, labels, outputs); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	digest := circ.Digest()

	log.Debug("garbled circuit sent", zap.String("phase", "transfer"),
		zap.Int("rows", len(circ.Table)),
		zap.String("digest", fmt.Sprintf("%x", digest)))

	timing.Sample("Xfer", []string{FileSize(conn.Stats.Sum() - xfer).String()})
	xfer = conn.Stats.Sum()

	ack, err := conn.ReceiveUint32()
	if err != nil {
		return nil, errors.Wrap(err, "ack")
	}
	if ack != AckFinished {
		return nil, errors.Wrapf(ErrProtocol, "ack: invalid acknowledgement %d",
			ack)
	}
	log.Debug("evaluator finished", zap.String("phase", "ack"))

	timing.Sample("Eval", []string{FileSize(conn.Stats.Sum() - xfer).String()})

	return &Report{
		Timing: timing,
		Stats:  conn.Stats,
		Digest: digest,
	}, nil
}

// sendGarbled sends the garbler input labels, the output map, and the
// garbled table followed by the fixed wire seed and key.
func sendGarbled(conn *p2p.Conn, circ *Circuit, labels []ot.Label,
	outputs []ot.Wire) error {

	if err := conn.SendLabels(labels); err != nil {
		return err
	}
	if err := sendOutputMap(conn, outputs); err != nil {
		return err
	}
	if err := sendTable(conn, circ.Table); err != nil {
		return err
	}
	if err := conn.SendUint32(circ.NumAND); err != nil {
		return err
	}
	var data ot.LabelData
	if err := conn.SendLabel(circ.FixedSeed, &data); err != nil {
		return err
	}
	if err := conn.SendLabel(circ.Key, &data); err != nil {
		return err
	}
	return conn.Flush()
}
