//
// iotest.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"

	"github.com/markkurossi/gcpsi/circuit"
	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/pkg/errors"
)

func evaluatorTestIO(cfg *env.Config) error {
	conn, err := cfg.Dialer().Dial(cfg.Address())
	if err != nil {
		return err
	}
	defer conn.Close()

	timing := circuit.NewTiming()
	for {
		var label ot.Label
		var labelData ot.LabelData
		err = conn.ReceiveLabel(&label, &labelData)
		if err != nil {
			if errors.Is(err, p2p.ErrDisconnected) {
				break
			}
			return err
		}
	}
	timing.Sample("Recv", []string{
		circuit.FileSize(conn.Stats.Sum()).String(),
	})
	timing.Print(os.Stdout, conn.Stats)
	return nil
}

func garblerTestIO(cfg *env.Config, size int64) error {
	ln, err := p2p.Listen(fmt.Sprintf(":%d", cfg.Network.Port),
		cfg.GetLogger())
	if err != nil {
		return err
	}
	defer ln.Close()
	fmt.Printf("Listening for connections at %s\n", ln.Addr())

	conn, err := ln.Accept()
	if err != nil {
		return err
	}

	timing := circuit.NewTiming()
	labels := make([]ot.Label, p2p.MaxLabelChunk)

	var sent int64
	for sent < size {
		if err := conn.SendLabels(labels); err != nil {
			return err
		}
		sent += int64(len(labels) * len(ot.LabelData{}))
	}
	if err := conn.Close(); err != nil {
		return err
	}
	timing.Sample("Send", []string{
		circuit.FileSize(conn.Stats.Sum()).String(),
	})
	timing.Print(os.Stdout, conn.Stats)
	return nil
}
