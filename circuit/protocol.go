//
// protocol.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
)

// AckFinished is the acknowledgement the evaluator sends after it
// has evaluated the circuit.
const AckFinished = 1

var (
	// ErrOT is returned when the oblivious transfer fails.
	ErrOT = errors.New("oblivious transfer failed")

	// ErrProtocol is returned when the peer violates the protocol.
	ErrProtocol = errors.New("protocol error")
)

// Report contains information about a protocol run.
type Report struct {
	Timing  *Timing
	Stats   p2p.IOStats
	Digest  []byte
	Outputs []int
	Invalid int
}

func sendTable(conn *p2p.Conn, table []TableRow) error {
	labels := make([]ot.Label, 0, 2*len(table))
	for _, row := range table {
		labels = append(labels, row[0], row[1])
	}
	return conn.SendLabels(labels)
}

func receiveTable(conn *p2p.Conn, count int) ([]TableRow, error) {
	labels := make([]ot.Label, 2*count)
	if err := conn.ReceiveLabels(labels); err != nil {
		return nil, err
	}
	table := make([]TableRow, count)
	for i := range table {
		table[i] = TableRow{labels[2*i], labels[2*i+1]}
	}
	return table, nil
}

func sendOutputMap(conn *p2p.Conn, outputs []ot.Wire) error {
	labels := make([]ot.Label, 0, 2*len(outputs))
	for _, w := range outputs {
		labels = append(labels, w.L0, w.L1)
	}
	return conn.SendLabels(labels)
}

func receiveOutputMap(conn *p2p.Conn, count int) ([]ot.Wire, error) {
	labels := make([]ot.Label, 2*count)
	if err := conn.ReceiveLabels(labels); err != nil {
		return nil, err
	}
	result := make([]ot.Wire, count)
	for i := range result {
		result[i] = ot.Wire{
			L0: labels[2*i],
			L1: labels[2*i+1],
		}
	}
	return result, nil
}

func batches(count, size int, f func(start, end int) error) error {
	for start := 0; start < count; start += size {
		end := start + size
		if end > count {
			end = count
		}
		if err := f(start, end); err != nil {
			return err
		}
	}
	return nil
}
