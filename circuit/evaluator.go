//
// evaluator.go
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

// Evaluator runs the evaluator (client) role of the protocol. The
// evaluator owns the first len(inputs) circuit input wires. The
// function receives its input labels with the correlated OT, receives
// the garbled material, evaluates the circuit, and decodes the
// outputs. The decoded outputs are returned in the report's Outputs
// with InvalidBit for positions that could not be decoded.
func Evaluator(cfg *env.Config, conn *p2p.Conn, cot ot.COT, circ *Circuit,
	inputs []bool) (*Report, error) {

	log := cfg.GetLogger().With(zap.String("role", "evaluator"))
	timing := NewTiming()

	numClient := len(inputs)
	if numClient > circ.NumInputs {
		return nil, errors.Wrapf(ErrPrecondition,
			"evaluator: %d inputs, circuit has %d", numClient, circ.NumInputs)
	}

	// Our input labels with OT.
	labels := make([]ot.Label, circ.NumInputs)
	if numClient > 0 {
		log.Debug("transfer inputs", zap.String("phase", "ot"),
			zap.Int("wires", numClient))

		if err := cot.InitReceiver(conn); err != nil {
			return nil, errors.Wrapf(ErrOT, "init: %v", err)
		}
		err := batches(numClient, cfg.GetOTBatchSize(),
			func(start, end int) error {
				return cot.Receive(inputs[start:end], labels[start:end])
			})
		if err != nil {
			return nil, errors.Wrapf(ErrOT, "receive: %v", err)
		}
	}
	xfer := conn.Stats.Sum()
	timing.Sample("OT", []string{FileSize(xfer).String()})

	// Garbled material.
	outputs, table, err := receiveGarbled(conn, circ, labels[numClient:])
	if err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	circ.Table = table
	digest := circ.Digest()

	log.Debug("garbled circuit received", zap.String("phase", "transfer"),
		zap.Int("rows", len(table)),
		zap.String("digest", fmt.Sprintf("%x", digest)))

	timing.Sample("Xfer", []string{FileSize(conn.Stats.Sum() - xfer).String()})

	result, err := circ.Evaluate(labels)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	bits := MapOutputs(outputs, result)

	var invalid int
	for i, bit := range bits {
		if bit == InvalidBit {
			log.Warn("invalid output label", zap.String("phase", "evaluate"),
				zap.Int("index", i))
			invalid++
		}
	}
	timing.Sample("Eval", nil)

	if err := conn.SendUint32(AckFinished); err != nil {
		return nil, errors.Wrap(err, "ack")
	}
	if err := conn.Flush(); err != nil {
		return nil, errors.Wrap(err, "ack")
	}
	log.Debug("finished", zap.String("phase", "ack"),
		zap.Int("invalid", invalid))

	return &Report{
		Timing:  timing,
		Stats:   conn.Stats,
		Digest:  digest,
		Outputs: bits,
		Invalid: invalid,
	}, nil
}

// receiveGarbled receives the garbler's input labels into labels and
// returns the output map and the garbled table. The circuit's fixed
// wire seed and key are set from the received values.
func receiveGarbled(conn *p2p.Conn, circ *Circuit, labels []ot.Label) (
	[]ot.Wire, []TableRow, error) {

	if err := conn.ReceiveLabels(labels); err != nil {
		return nil, nil, err
	}
	outputs, err := receiveOutputMap(conn, circ.NumOutputs)
	if err != nil {
		return nil, nil, err
	}
	table, err := receiveTable(conn, circ.NumAND)
	if err != nil {
		return nil, nil, err
	}
	numAND, err := conn.ReceiveUint32()
	if err != nil {
		return nil, nil, err
	}
	if numAND != circ.NumAND {
		return nil, nil, errors.Wrapf(ErrProtocol,
			"got %d table rows, expected %d", numAND, circ.NumAND)
	}
	var data ot.LabelData
	if err := conn.ReceiveLabel(&circ.FixedSeed, &data); err != nil {
		return nil, nil, err
	}
	if err := conn.ReceiveLabel(&circ.Key, &data); err != nil {
		return nil, nil, err
	}
	return outputs, table, nil
}
