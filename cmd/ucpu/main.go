// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pborman/getopt/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ezrec/ucpu/cpu"
	"github.com/ezrec/ucpu/emulator"
	ucpu_io "github.com/ezrec/ucpu/io"
)

func main() {
	os.Exit(run())
}

func run() (status int) {
	optCompile := getopt.StringLong("compile", 'c', "", "Source file to assemble and run (default: built-in demo)")
	optConfig := getopt.StringLong("config", 'f', "", "TOML configuration file")
	optEncoding := getopt.StringLong("encoding", 'e', "", "Instruction encoding: minimal or extended")
	optStack := getopt.BoolLong("stack", 's', "Save return addresses on a stack")
	optLimit := getopt.IntLong("limit", 'l', 0, "Maximum instructions to execute")
	optInput := getopt.StringLong("input", 'i', "", "Comma separated input values")
	optVerbose := getopt.BoolLong("verbose", 'v', "Trace execution")
	optDump := getopt.BoolLong("dump", 'd', "Dump the final machine state")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return
	}

	if getopt.NArgs() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], getopt.Args())
	}

	var err error

	cfg := emulator.DefaultConfig()
	if len(*optConfig) != 0 {
		cfg, err = emulator.LoadConfig(*optConfig)
		if err != nil {
			log.Fatalf("%v: %v", *optConfig, err)
		}
	}

	if len(*optEncoding) != 0 {
		cfg.Encoding = *optEncoding
	}
	if *optStack {
		cfg.Convention = cpu.CALL_STACK.String()
	}
	if *optLimit != 0 {
		cfg.Limit = *optLimit
	}
	if len(*optInput) != 0 {
		cfg.Inputs, err = ucpu_io.ParseValues(*optInput)
		if err != nil {
			log.Fatalf("%v: %v", *optInput, err)
		}
	}
	if *optVerbose {
		cfg.Verbose = true
	}

	var source io.Reader = strings.NewReader(emulator.Demo)
	if len(*optCompile) != 0 {
		inf, err := os.Open(*optCompile)
		if err != nil {
			log.Printf("%v: %v", *optCompile, err)
			return 1
		}
		defer inf.Close()
		source = inf
	}

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatal(err)
	}

	switch port := emu.Port.(type) {
	case *ucpu_io.Queue:
		port.Output = os.Stdout
	case nil:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			terminal := ucpu_io.NewTerminal(os.Stdout)
			defer terminal.Close()
			emu.Port = terminal
		} else {
			emu.Port = &ucpu_io.Console{Input: os.Stdin, Output: os.Stdout}
		}
	}

	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
		emu.Observer = &cpu.LogObserver{Encoding: emu.Encoding}
	}

	err = emu.Assemble(source)
	if err != nil {
		log.Printf("%v: %v", *optCompile, err)
		return 1
	}

	if cfg.Verbose {
		log.Printf("%v", emu.Program)
	}

	_, err = emu.Run()

	if rerr := emu.Report(os.Stdout); rerr != nil {
		log.Print(rerr)
		status = 1
	}

	if *optDump {
		spew.Fdump(os.Stdout, emu.Processor)
	}

	if err != nil {
		log.Print(err)
		status = 1
	}

	return
}
