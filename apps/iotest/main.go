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
	"log"
	"os"
	"runtime/pprof"

	"github.com/markkurossi/gcpsi/env"
)

func main() {
	evaluator := flag.Bool("e", false, "evaluator / garbler mode")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	size := flag.Int64("size", 100*1000*1000, "number of bytes to transfer")
	host := flag.String("host", "127.0.0.1", "garbler host")
	port := flag.Int("port", env.DefaultPort, "port")
	fDebug := flag.Bool("d", false, "debug logging")
	flag.Parse()

	log.SetFlags(0)

	cfg := env.DefaultConfig()
	cfg.Network.Host = *host
	cfg.Network.Port = *port

	logger, err := env.NewLogger(*fDebug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	cfg.Logger = logger

	if len(*cpuprofile) > 0 {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *evaluator {
		err = evaluatorTestIO(cfg)
	} else {
		err = garblerTestIO(cfg, *size)
	}
	if err != nil {
		log.Fatal(err)
	}
}
