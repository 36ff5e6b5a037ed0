//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/markkurossi/gcpsi/circuit"
	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/ot"
	"github.com/markkurossi/gcpsi/p2p"
)

func main() {
	count := flag.Int("n", 1000000, "number of correlated OTs")
	batch := flag.Int("batch", env.DefaultOTBatchSize, "OT batch size")
	flag.Parse()

	log.SetFlags(0)

	sRand, err := env.NewRandomPRG()
	if err != nil {
		log.Fatal(err)
	}
	rRand, err := env.NewRandomPRG()
	if err != nil {
		log.Fatal(err)
	}
	delta, err := ot.NewDelta(sRand)
	if err != nil {
		log.Fatal(err)
	}

	flags := make([]bool, *count)
	var buf [1]byte
	for i := range flags {
		if _, err := rRand.Read(buf[:]); err != nil {
			log.Fatal(err)
		}
		flags[i] = buf[0]&1 != 0
	}

	zero := make([]ot.Label, *count)
	one := make([]ot.Label, *count)
	result := make([]ot.Label, *count)

	timing := circuit.NewTiming()

	c0, c1 := p2p.Pipe()
	defer c0.Close()
	defer c1.Close()
	sender := ot.NewIKNP(ot.NewCO(sRand), sRand)
	receiver := ot.NewIKNP(ot.NewCO(rRand), rRand)

	done := make(chan error)
	go func() {
		if err := receiver.InitReceiver(c1); err != nil {
			done <- err
			return
		}
		for start := 0; start < *count; start += *batch {
			end := min(start+*batch, *count)
			if err := receiver.Receive(flags[start:end],
				result[start:end]); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	if err := sender.InitSender(c0, delta); err != nil {
		log.Fatal(err)
	}
	timing.Sample("Init", nil)

	for start := 0; start < *count; start += *batch {
		end := min(start+*batch, *count)
		if err := sender.Send(zero[start:end], one[start:end]); err != nil {
			log.Fatal(err)
		}
	}
	if err := <-done; err != nil {
		log.Fatal(err)
	}
	timing.Sample("COT", []string{fmt.Sprintf("%d", *count)})

	for i, flag := range flags {
		expected := zero[i]
		if flag {
			expected = one[i]
		}
		if !result[i].Equal(expected) {
			log.Fatalf("Verify failed at %d!", i)
		}
	}
	timing.Sample("Verify", nil)

	timing.Print(os.Stdout, c0.Stats.Add(c1.Stats))
}
