// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/ucpu/cpu"
	"github.com/ezrec/ucpu/internal"
	ucpu_io "github.com/ezrec/ucpu/io"
)

var _emulator_defines = map[string]string{
	"STACK_LIMIT": fmt.Sprintf("%v", cpu.STACK_LIMIT),
}

// Emulator state. Processor + program listing + I/O port.
type Emulator struct {
	Verbose        bool         // If set, enables verbose logging.
	*cpu.Processor              // Reference to the processor simulation.
	Program        *cpu.Program // Reference to the loaded program listing.

	defines map[string]string
}

// NewEmulator creates a new emulator from a configuration.
// If the configuration has scripted inputs, the port is a Queue on them.
func NewEmulator(cfg Config) (emu *Emulator, err error) {
	enc, err := cpu.ParseEncoding(cfg.Encoding)
	if err != nil {
		return
	}

	cc, err := cpu.ParseConvention(cfg.Convention)
	if err != nil {
		return
	}

	p := cpu.NewProcessor(enc)
	p.Convention = cc
	p.Limit = cfg.Limit

	if len(cfg.Inputs) != 0 {
		p.Port = &ucpu_io.Queue{Inputs: slices.Clone(cfg.Inputs)}
	}

	emu = &Emulator{
		Verbose:   cfg.Verbose,
		Processor: p,
		defines:   maps.Clone(cfg.Defines),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
		emu.Encoding.Defines(),
		maps.All(emu.defines),
	)
}

// Assemble parses source text for the processor encoding, and loads it.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose:  emu.Verbose,
		Encoding: emu.Encoding,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	err = emu.Load(prog)
	return
}

// Load copies the program into memory.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	if prog.Encoding != emu.Encoding {
		err = fmt.Errorf("%w: %v != %v", ErrEncodingMismatch, prog.Encoding.Name, emu.Encoding.Name)
		return
	}

	words := prog.Binary()
	loaded := emu.LoadProgram(words)
	if emu.Verbose {
		log.Printf("loaded %d of %d words", loaded, len(words))
	}

	emu.Program = prog
	return
}

// LineNo returns the source line of the instruction at addr, or 0.
func (emu *Emulator) LineNo(addr int) int {
	if emu.Program == nil {
		return 0
	}

	line := emu.Program.Debug(addr)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Run executes the loaded program until halt or fault.
// A fault is returned as an ErrRuntime at the faulting source line.
func (emu *Emulator) Run() (stats cpu.Stats, err error) {
	if emu.Program == nil {
		err = ErrProgramMissing
		return
	}

	stats, err = emu.Processor.Run()
	if err == nil {
		return
	}

	var fault *cpu.ErrFault
	lineno := 0
	if errors.As(err, &fault) {
		lineno = emu.LineNo(fault.Pc)
	}

	if emu.Verbose {
		log.Printf("%v", emu.Processor)
	}

	err = &ErrRuntime{LineNo: lineno, Err: err}
	return
}

// Report writes the statistics report of the run.
func (emu *Emulator) Report(w io.Writer) error {
	return emu.Stats().Report(w)
}
