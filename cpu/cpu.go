package cpu

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the execution state of a processor.
type State int

const (
	STATE_IDLE    = State(0) // idle
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
	STATE_FAULTED = State(3) // faulted
)

var stateNames = [...]string{"idle", "running", "halted", "faulted"}

func (state State) String() string {
	if state >= 0 && int(state) < len(stateNames) {
		return stateNames[state]
	}
	return fmt.Sprintf("State(%d)", int(state))
}

// CallConvention selects how CALL and RET save the return address.
type CallConvention int

const (
	// CALL_SLOT saves the return address in the memory cell of the CALL
	// instruction itself, and RET jumps to the address held in the cell
	// following the RET. Only one return address per call site can be
	// outstanding, so nested or recursive calls through a site overwrite it.
	CALL_SLOT = CallConvention(0) // slot
	// CALL_STACK saves return addresses on a bounded stack.
	CALL_STACK = CallConvention(1) // stack
)

func (cc CallConvention) String() string {
	switch cc {
	case CALL_SLOT:
		return "slot"
	case CALL_STACK:
		return "stack"
	}
	return fmt.Sprintf("CallConvention(%d)", int(cc))
}

// ParseConvention returns the named call convention.
func ParseConvention(name string) (cc CallConvention, err error) {
	switch strings.ToLower(name) {
	case "", "slot":
		cc = CALL_SLOT
	case "stack":
		cc = CALL_STACK
	default:
		err = fmt.Errorf("%w: %q", ErrConventionUnknown, name)
	}
	return
}

// Processor is the simulation context of the register machine.
type Processor struct {
	Encoding   Encoding       // Instruction word layout.
	Convention CallConvention // CALL/RET return address convention.
	Limit      int            // If non-zero, maximum instructions per run.
	Port       Port           // I/O port for IN and OUT.
	Observer   Observer       // If set, receives trace events.

	Pc       int                   // Address of the next instruction to fetch.
	Register [REGISTER_COUNT]int32 // Register file.
	Memory   [MEMORY_SIZE]int32    // Memory cells.
	Stack    Stack                 // Return addresses, for CALL_STACK.

	state State
	stats Stats
}

// NewProcessor creates a zeroed, idle processor using the given encoding.
func NewProcessor(enc Encoding) (p *Processor) {
	p = &Processor{
		Encoding: enc,
	}

	return
}

// State returns the execution state.
func (p *Processor) State() State {
	return p.state
}

// Stats returns the statistics gathered so far.
func (p *Processor) Stats() Stats {
	return p.stats
}

// String returns the register file and program counter as text.
func (p *Processor) String() (text string) {
	for n, reg := range p.Register {
		text += fmt.Sprintf("   r%d: %v (%3d)\n", n, BinaryString(uint64(uint32(reg)), 32), reg)
	}
	text += fmt.Sprintf("   pc: %d\n", p.Pc)
	text += fmt.Sprintf("state: %v\n", p.state)

	return
}

func (p *Processor) trace(ev Event) {
	if p.Observer == nil {
		return
	}

	if ev.Kind != EVENT_LOAD {
		ev.Next = p.Pc
		ev.Registers = p.Register
	}

	p.Observer.Trace(ev)
}

// LoadProgram copies words into memory from address 0, truncating at
// MEMORY_SIZE, and readies the processor for a run from address 0.
// The statistics and return stack are cleared; registers are kept.
func (p *Processor) LoadProgram(words []Word) (loaded int) {
	loaded = min(len(words), MEMORY_SIZE)

	for addr, word := range words[:loaded] {
		p.Memory[addr] = int32(word)
		p.trace(Event{Kind: EVENT_LOAD, Pc: addr, Word: word})
	}

	p.Pc = 0
	p.Stack.Reset()
	p.stats = Stats{}
	p.state = STATE_IDLE

	return
}

// fault terminates the run with a fault at pc.
func (p *Processor) fault(pc int, word Word, cause error) error {
	err := &ErrFault{Pc: pc, Word: word, Err: cause}

	p.state = STATE_FAULTED
	p.stats.Fault = err
	p.trace(Event{Kind: EVENT_FAULT, Pc: pc, Word: word, Err: err})

	return err
}

// Step executes a single fetch, halt check, decode, execute cycle.
// Returns ErrHalt once halted, or the fault once faulted.
func (p *Processor) Step() (err error) {
	switch p.state {
	case STATE_HALTED:
		return ErrHalt
	case STATE_FAULTED:
		return p.stats.Fault
	case STATE_IDLE:
		p.state = STATE_RUNNING
	}

	pc := p.Pc

	if p.Limit > 0 && p.stats.Instructions >= p.Limit {
		return p.fault(pc, 0, ErrStepLimit)
	}

	// Fetch
	if pc < 0 || pc >= MEMORY_SIZE {
		return p.fault(pc, 0, ErrPcRange)
	}
	word := Word(uint32(p.Memory[pc])) & p.Encoding.Mask()
	p.Pc++
	p.trace(Event{Kind: EVENT_FETCH, Pc: pc, Word: word})

	// Halt check
	if word == p.Encoding.Halt() {
		p.state = STATE_HALTED
		p.stats.Halted = true
		p.trace(Event{Kind: EVENT_HALT, Pc: pc, Word: word})
		return ErrHalt
	}

	// Decode
	code := p.Encoding.Decode(word)

	// Dispatch
	exec := instructionSet[code.Op].Exec
	if exec == nil {
		return p.fault(pc, word, fmt.Errorf("%w: %w", ErrOpcodeUnknown, ErrOpcode(code)))
	}

	// Execute
	msg, err := exec(p, code)
	if err != nil {
		return p.fault(pc, word, err)
	}

	p.stats.Instructions++
	p.trace(Event{Kind: EVENT_EXECUTE, Pc: pc, Word: word, Code: code, Message: msg})

	return
}

// Run executes instructions until the processor halts or faults.
// The statistics are returned in both cases; err is nil on a normal halt.
func (p *Processor) Run() (stats Stats, err error) {
	if p.state != STATE_IDLE {
		err = ErrNotIdle
		stats = p.stats
		return
	}

	start := time.Now()
	defer func() {
		p.stats.Elapsed = time.Since(start)
		stats = p.stats
	}()

	for {
		err = p.Step()
		if errors.Is(err, ErrHalt) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}
