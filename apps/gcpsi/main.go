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
	"runtime/pprof"
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/gcpsi/env"
	"github.com/markkurossi/gcpsi/p2p"
	"github.com/markkurossi/gcpsi/psi"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage: %s [options] input-file nElems [nBits] [port]\n", os.Args[0])
	fmt.Fprintf(os.Stderr,
		"The nBits argument is required for setdiff and argmax.\n\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	evaluator := flag.Bool("e", false, "evaluator (client) / garbler (server) mode")
	kindName := flag.String("p", "intersection",
		"protocol: intersection, setdiff, argmax")
	configFile := flag.String("config", "", "YAML configuration `file`")
	host := flag.String("host", "", "server host for the evaluator")
	fVerbose := flag.Bool("v", false, "verbose output")
	fDebug := flag.Bool("d", false, "debug logging")
	stats := flag.Bool("stats", false, "print protocol statistics")
	dot := flag.String("dot", "", "write circuit graphviz to `file`")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	flag.Usage = usage
	flag.Parse()

	log.SetFlags(0)

	cfg := env.DefaultConfig()
	if len(*configFile) > 0 {
		var err error
		cfg, err = env.LoadConfig(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *fVerbose {
		cfg.Verbose = true
	}
	if *fDebug {
		cfg.Debug = true
	}
	if len(*host) > 0 {
		cfg.Network.Host = *host
	}

	kind, err := psi.ParseKind(*kindName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		usage()
	}

	args := flag.Args()
	minArgs := 2
	if kind != psi.BasicIntersection {
		minArgs = 3
	}
	if len(args) < minArgs || len(args) > minArgs+1 {
		usage()
	}
	nElems := intArg(args[1])
	var nBits int
	if kind != psi.BasicIntersection {
		nBits = intArg(args[2])
	}
	if len(args) > minArgs {
		cfg.Network.Port = intArg(args[minArgs])
	}

	logger, err := env.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	cfg.Logger = logger

	prg, err := env.NewRandomPRG()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Rand = prg

	prog, err := psi.NewProgram(kind, nElems, nBits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	count := prog.ServerInputs()
	if *evaluator {
		count = prog.ClientInputs()
	}
	input, err := psi.ReadInput(args[0], count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to read input file: %s\n", err)
		os.Exit(1)
	}
	logger.Info("finished reading input", zap.Int("bits", count))

	if len(*dot) > 0 {
		if err := writeDot(*dot, prog); err != nil {
			log.Fatal(err)
		}
	}

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

	var result *psi.Result
	if *evaluator {
		result, err = evaluatorMode(cfg, prog, input)
	} else {
		result, err = garblerMode(cfg, prog, input)
	}
	if err != nil {
		logger.Error("protocol execution failed", zap.Error(err))
		return
	}

	if *evaluator {
		fmt.Println()
		result.Print(os.Stdout)
		fmt.Println()
	}
	if cfg.Verbose {
		fmt.Printf("digest: %x\n", result.Report.Digest)
	}
	if *stats {
		result.PrintStats(os.Stdout)
		result.Report.Timing.Print(os.Stdout, result.Report.Stats)
	}
}

func intArg(arg string) int {
	v, err := strconv.Atoi(arg)
	if err != nil || v < 0 {
		fmt.Fprintf(os.Stderr, "invalid argument '%s'\n", arg)
		usage()
	}
	return v
}

func writeDot(file string, prog psi.Program) error {
	circ, err := psi.NewCircuit(prog)
	if err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	circ.Dot(f)
	if circ.NumGates < 64 {
		circ.Dump(os.Stdout)
	}
	circ.PrintStats(os.Stdout)
	return nil
}

func garblerMode(cfg *env.Config, prog psi.Program, input *bitset.BitSet) (
	*psi.Result, error) {

	addr := fmt.Sprintf(":%d", cfg.Network.Port)
	ln, err := p2p.Listen(addr, cfg.GetLogger())
	if err != nil {
		return nil, err
	}
	defer ln.Close()

	if cfg.Verbose {
		fmt.Printf("Listening for connections at %s\n", ln.Addr())
	}
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return psi.RunServer(cfg, conn, prog, input)
}

func evaluatorMode(cfg *env.Config, prog psi.Program, input *bitset.BitSet) (
	*psi.Result, error) {

	conn, err := cfg.Dialer().Dial(cfg.Address())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return psi.RunClient(cfg, conn, prog, input)
}
