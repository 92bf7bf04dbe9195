package cpu

import (
	"errors"

	"github.com/ezrec/ucpu/translate"
)

var f = translate.From

var (
	// Processor faults
	ErrPcRange       = errors.New(f("program counter out of range"))
	ErrAddressRange  = errors.New(f("address out of range"))
	ErrOpcodeUnknown = errors.New(f("unknown opcode"))
	ErrInterrupt     = errors.New(f("interrupt signal"))
	ErrOperand       = errors.New(f("operand register out of range"))
	ErrStackEmpty    = errors.New(f("return stack empty"))
	ErrStackFull     = errors.New(f("return stack full"))
	ErrStepLimit     = errors.New(f("instruction limit reached"))
	ErrInput         = errors.New(f("input failed"))
	ErrOutput        = errors.New(f("output failed"))
	ErrPortMissing   = errors.New(f("no i/o port attached"))

	// Processor state
	ErrHalt    = errors.New(f("halted"))
	ErrNotIdle = errors.New(f("processor not idle"))

	// Configuration errors
	ErrEncodingUnknown   = errors.New(f("encoding unknown"))
	ErrConventionUnknown = errors.New(f("call convention unknown"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrFormUnsupported    = errors.New(f("operand form not supported by encoding"))
	ErrValueRange         = errors.New(f("value does not fit a word"))
)

// ErrEncoding is returned when an instruction field does not fit its
// allotted width.
type ErrEncoding struct {
	Field string
	Value int
	Bits  int
}

func (err *ErrEncoding) Error() string {
	return f("%v %d does not fit in %d bits", err.Field, err.Value, err.Bits)
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", int(eo.Op), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrFault is a terminal processor fault, with the location of the
// faulting instruction.
type ErrFault struct {
	Pc   int
	Word Word
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at %03d (%#x): %v", err.Pc, uint32(err.Word), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
