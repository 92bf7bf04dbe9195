package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Word is a single packed instruction, or a data cell.
type Word uint32

// Opcode is the operation tag of an instruction.
type Opcode int

const (
	OP_LOAD  = Opcode(0x00) // load
	OP_STORE = Opcode(0x01) // store
	OP_ADD   = Opcode(0x02) // add
	OP_SUB   = Opcode(0x03) // sub
	OP_MOV   = Opcode(0x04) // mov
	OP_JMP   = Opcode(0x05) // jmp
	OP_CMP   = Opcode(0x06) // cmp
	OP_NOP   = Opcode(0x07) // nop
	OP_OUT   = Opcode(0x09) // out
	OP_CALL  = Opcode(0x0a) // call
	OP_RET   = Opcode(0x0b) // ret
	OP_BEQ   = Opcode(0x0c) // beq
	OP_INT   = Opcode(0x0d) // int
	OP_IN    = Opcode(0x0e) // in
	OP_HALT  = Opcode(0x0f) // halt, only as the all-ones sentinel
	OP_LDI   = Opcode(0x10) // ldi, extended only
	OP_LDA   = Opcode(0x11) // lda, extended only

	OPCODE_LIMIT = 0x100 // Opcode space of the widest encoding.
)

var opcodeNames = [OPCODE_LIMIT]string{
	OP_LOAD:  "load",
	OP_STORE: "store",
	OP_ADD:   "add",
	OP_SUB:   "sub",
	OP_MOV:   "mov",
	OP_JMP:   "jmp",
	OP_CMP:   "cmp",
	OP_NOP:   "nop",
	OP_OUT:   "out",
	OP_CALL:  "call",
	OP_RET:   "ret",
	OP_BEQ:   "beq",
	OP_INT:   "int",
	OP_IN:    "in",
	OP_HALT:  "halt",
	OP_LDI:   "ldi",
	OP_LDA:   "lda",
}

func (op Opcode) String() string {
	if op >= 0 && op < OPCODE_LIMIT && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op%02x", int(op))
}

// Code is a decoded instruction record.
type Code struct {
	Op   Opcode
	Reg1 int // Destination, or first operand, register.
	Reg2 int // Source, or second operand, register.
	Imm  int // Immediate; always zero when the encoding has none.
}

// String returns the assembly-like representation of the code.
func (code Code) String() string {
	str := fmt.Sprintf("%v r%d r%d", code.Op, code.Reg1, code.Reg2)
	if code.Imm != 0 {
		str += fmt.Sprintf(" #%d", code.Imm)
	}
	return str
}

// Encoding describes the bit layout of an instruction word:
//
//	[opcode:OpBits][reg1:RegBits][reg2:RegBits][immediate:ImmBits]
//
// with the opcode in the most significant bits.
type Encoding struct {
	Name    string
	OpBits  int
	RegBits int
	ImmBits int
}

var (
	// EncodingMinimal is the 8-bit [opcode:4][reg1:2][reg2:2] layout.
	EncodingMinimal = Encoding{Name: "minimal", OpBits: 4, RegBits: 2}
	// EncodingExtended is the 30-bit [opcode:8][reg1:3][reg2:3][imm:16] layout.
	EncodingExtended = Encoding{Name: "extended", OpBits: 8, RegBits: 3, ImmBits: 16}
)

// ParseEncoding returns the named encoding variant.
func ParseEncoding(name string) (enc Encoding, err error) {
	switch strings.ToLower(name) {
	case "", EncodingMinimal.Name:
		enc = EncodingMinimal
	case EncodingExtended.Name:
		enc = EncodingExtended
	default:
		err = fmt.Errorf("%w: %q", ErrEncodingUnknown, name)
	}
	return
}

// Width returns the number of bits in an instruction word.
func (enc Encoding) Width() int {
	return enc.OpBits + 2*enc.RegBits + enc.ImmBits
}

// Mask returns the mask of the valid bits of an instruction word.
func (enc Encoding) Mask() Word {
	return Word(uint64(1)<<enc.Width() - 1)
}

// Halt returns the halt sentinel, the all-ones word.
func (enc Encoding) Halt() Word {
	return enc.Mask()
}

// MaxRegister returns the largest register index the encoding can address.
func (enc Encoding) MaxRegister() int {
	return min(1<<enc.RegBits, REGISTER_COUNT) - 1
}

// Defines returns the encoding constants as assembler equates.
func (enc Encoding) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"HALT":      fmt.Sprintf("%#x", uint32(enc.Halt())),
		"WORD_BITS": fmt.Sprintf("%v", enc.Width()),
		"IMM_MAX":   fmt.Sprintf("%v", (1<<enc.ImmBits)-1),
	})
}

type field struct {
	name  string
	value int
	bits  int
}

// Encode packs a code into a word.
// No partial word is produced if any field exceeds its width.
func (enc Encoding) Encode(code Code) (word Word, err error) {
	fields := [4]field{
		{"opcode", int(code.Op), enc.OpBits},
		{"reg1", code.Reg1, enc.RegBits},
		{"reg2", code.Reg2, enc.RegBits},
		{"immediate", code.Imm, enc.ImmBits},
	}

	var packed Word
	for _, fld := range fields {
		if fld.value < 0 || fld.value >= (1<<fld.bits) {
			err = &ErrEncoding{Field: fld.name, Value: fld.value, Bits: fld.bits}
			return
		}
		packed = (packed << fld.bits) | Word(fld.value)
	}

	word = packed
	return
}

// Decode unpacks a word. Any bit pattern decodes; bits above the
// encoding width are ignored.
func (enc Encoding) Decode(word Word) (code Code) {
	extract := func(shift, bits int) int {
		return int((uint32(word) >> shift) & ((1 << bits) - 1))
	}

	code.Imm = extract(0, enc.ImmBits)
	code.Reg2 = extract(enc.ImmBits, enc.RegBits)
	code.Reg1 = extract(enc.ImmBits+enc.RegBits, enc.RegBits)
	code.Op = Opcode(extract(enc.ImmBits+2*enc.RegBits, enc.OpBits))

	return
}

// Format returns the binary text of a word, in the encoding width.
func (enc Encoding) Format(word Word) string {
	return BinaryString(uint64(word), enc.Width())
}
