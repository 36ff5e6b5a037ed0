//
// run.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/gcpsi/circuit"
	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewCOT creates the correlated OT for a protocol run.
func NewCOT(cfg *env.Config) ot.COT {
	rand := cfg.GetRandom()
	return ot.NewIKNP(ot.NewCO(rand), rand)
}

// RunServer runs the server (garbler) role of the program with the
// input bits.
func RunServer(cfg *env.Config, conn *p2p.Conn, prog Program,
	input *bitset.BitSet) (*Result, error) {

	log := cfg.GetLogger().With(zap.String("role", "server"),
		zap.Stringer("kind", prog.Kind()))

	circ, err := NewCircuit(prog)
	if err != nil {
		return nil, err
	}
	log.Debug("circuit created", zap.Stringer("circuit", circ))

	report, err := circuit.Garbler(cfg, conn, NewCOT(cfg), circ,
		Bools(input, prog.ServerInputs()), prog.ClientInputs())
	if err != nil {
		log.Error("protocol execution failed", zap.Error(err))
		return nil, errors.Wrap(err, "server")
	}
	return newResult(prog, circ, report), nil
}

// RunClient runs the client (evaluator) role of the program with the
// input bits. The returned result holds the program output.
func RunClient(cfg *env.Config, conn *p2p.Conn, prog Program,
	input *bitset.BitSet) (*Result, error) {

	log := cfg.GetLogger().With(zap.String("role", "client"),
		zap.Stringer("kind", prog.Kind()))

	circ, err := NewCircuit(prog)
	if err != nil {
		return nil, err
	}
	log.Debug("circuit created", zap.Stringer("circuit", circ))

	report, err := circuit.Evaluator(cfg, conn, NewCOT(cfg), circ,
		Bools(input, prog.ClientInputs()))
	if err != nil {
		log.Error("protocol execution failed", zap.Error(err))
		return nil, errors.Wrap(err, "client")
	}
	return newResult(prog, circ, report), nil
}
