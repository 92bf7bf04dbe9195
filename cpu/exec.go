package cpu

import (
	"fmt"
)

// Instruction is an entry of the instruction set.
type Instruction struct {
	// Exec executes the instruction. The program counter already holds the
	// address following the instruction. Exec must validate its operands
	// before changing any state. msg is an optional trace message.
	Exec func(p *Processor, code Code) (msg string, err error)
}

// instructionSet maps opcodes to their handlers; undefined opcodes have
// no handler.
var instructionSet = [OPCODE_LIMIT]Instruction{
	OP_LOAD:  {(*Processor).execLoad},
	OP_STORE: {(*Processor).execStore},
	OP_ADD:   {(*Processor).execAdd},
	OP_SUB:   {(*Processor).execSub},
	OP_MOV:   {(*Processor).execMov},
	OP_JMP:   {(*Processor).execJmp},
	OP_CMP:   {(*Processor).execCmp},
	OP_NOP:   {(*Processor).execNop},
	OP_OUT:   {(*Processor).execOut},
	OP_CALL:  {(*Processor).execCall},
	OP_RET:   {(*Processor).execRet},
	OP_BEQ:   {(*Processor).execBeq},
	OP_INT:   {(*Processor).execInt},
	OP_IN:    {(*Processor).execIn},
	OP_LDI:   {(*Processor).execLdi},
	OP_LDA:   {(*Processor).execLda},
}

// Defined returns true if the opcode has a handler.
func (op Opcode) Defined() bool {
	return op >= 0 && op < OPCODE_LIMIT && instructionSet[op].Exec != nil
}

// threeRegister is true when the encoding carries a third register
// operand in the immediate field.
func (p *Processor) threeRegister() bool {
	return p.Encoding.ImmBits > 0
}

// address returns the memory address of a LOAD or STORE operand.
func (p *Processor) address(code Code) (addr int, err error) {
	addr = int(p.Register[code.Reg2]) + code.Imm
	if addr < 0 || addr >= MEMORY_SIZE {
		err = fmt.Errorf("%w: %d", ErrAddressRange, addr)
	}
	return
}

// operands returns the two ALU operands.
//
// Two-register form: reg1 op reg2.
// Three-register form: reg2 op R[imm].
func (p *Processor) operands(code Code) (a, b int32, err error) {
	if !p.threeRegister() {
		a = p.Register[code.Reg1]
		b = p.Register[code.Reg2]
		return
	}

	if code.Imm >= REGISTER_COUNT {
		err = fmt.Errorf("%w: r%d", ErrOperand, code.Imm)
		return
	}

	a = p.Register[code.Reg2]
	b = p.Register[code.Imm]
	return
}

func (p *Processor) execLoad(code Code) (msg string, err error) {
	addr, err := p.address(code)
	if err != nil {
		return
	}

	p.Register[code.Reg1] = p.Memory[addr]
	return
}

func (p *Processor) execStore(code Code) (msg string, err error) {
	addr, err := p.address(code)
	if err != nil {
		return
	}

	p.Memory[addr] = p.Register[code.Reg1]
	return
}

func (p *Processor) execAdd(code Code) (msg string, err error) {
	a, b, err := p.operands(code)
	if err != nil {
		return
	}

	p.Register[code.Reg1] = a + b
	return
}

func (p *Processor) execSub(code Code) (msg string, err error) {
	a, b, err := p.operands(code)
	if err != nil {
		return
	}

	p.Register[code.Reg1] = a - b
	return
}

func (p *Processor) execMov(code Code) (msg string, err error) {
	p.Register[code.Reg1] = p.Register[code.Reg2]
	return
}

func (p *Processor) execJmp(code Code) (msg string, err error) {
	p.Pc = int(p.Register[code.Reg1]) + code.Imm
	return
}

// execCmp only reports the comparison. There is no flags register: BEQ
// computes its own condition.
func (p *Processor) execCmp(code Code) (msg string, err error) {
	a := p.Register[code.Reg1]
	b := p.Register[code.Reg2]
	msg = f("compare r%d=%d r%d=%d equal=%v", code.Reg1, a, code.Reg2, b, a == b)
	return
}

func (p *Processor) execNop(code Code) (msg string, err error) {
	return
}

func (p *Processor) execOut(code Code) (msg string, err error) {
	if p.Port == nil {
		err = ErrPortMissing
		return
	}

	err = p.Port.WriteOutput(p.Register[code.Reg1])
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return
}

func (p *Processor) execIn(code Code) (msg string, err error) {
	if p.Port == nil {
		err = ErrPortMissing
		return
	}

	value, err := p.Port.ReadInput()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInput, err)
		return
	}

	p.Register[code.Reg1] = value
	return
}

// execCall saves the address of the next instruction, and jumps to the
// address in reg1 (plus the immediate).
func (p *Processor) execCall(code Code) (msg string, err error) {
	target := int(p.Register[code.Reg1]) + code.Imm

	switch p.Convention {
	case CALL_STACK:
		if p.Stack.Full() {
			err = ErrStackFull
			return
		}
		p.Stack.Push(p.Pc)
	default:
		// The call site cell becomes the return slot.
		p.Memory[p.Pc-1] = int32(p.Pc)
	}

	p.Pc = target
	return
}

func (p *Processor) execRet(code Code) (msg string, err error) {
	switch p.Convention {
	case CALL_STACK:
		addr, ok := p.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		p.Pc = addr
	default:
		if p.Pc >= MEMORY_SIZE {
			err = fmt.Errorf("%w: %d", ErrAddressRange, p.Pc)
			return
		}
		p.Pc = int(p.Memory[p.Pc])
	}

	return
}

// execBeq compares reg1 against the literal reg2 field. The branch target
// is held in the cell following the instruction; execution falls through
// to that cell when the branch is not taken.
func (p *Processor) execBeq(code Code) (msg string, err error) {
	if p.Pc >= MEMORY_SIZE {
		err = fmt.Errorf("%w: %d", ErrAddressRange, p.Pc)
		return
	}

	if int(p.Register[code.Reg1]) == code.Reg2 {
		p.Pc = int(p.Memory[p.Pc])
		msg = f("branch taken to %d", p.Pc)
	} else {
		msg = f("branch not taken")
	}

	return
}

func (p *Processor) execInt(code Code) (msg string, err error) {
	err = ErrInterrupt
	return
}

func (p *Processor) execLdi(code Code) (msg string, err error) {
	p.Register[code.Reg1] = int32(code.Imm)
	return
}

func (p *Processor) execLda(code Code) (msg string, err error) {
	if code.Imm >= MEMORY_SIZE {
		err = fmt.Errorf("%w: %d", ErrAddressRange, code.Imm)
		return
	}

	p.Register[code.Reg1] = p.Memory[code.Imm]
	return
}
