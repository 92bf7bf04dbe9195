package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncoding_Encode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		enc  Encoding
		code Code
		word Word
	}){
		{"min_add", EncodingMinimal, Code{Op: OP_ADD, Reg1: 1, Reg2: 2}, 0x26},
		{"min_load", EncodingMinimal, Code{Op: OP_LOAD, Reg1: 0, Reg2: 1}, 0x01},
		{"min_store", EncodingMinimal, Code{Op: OP_STORE, Reg1: 1, Reg2: 2}, 0x16},
		{"min_beq", EncodingMinimal, Code{Op: OP_BEQ, Reg1: 0, Reg2: 3}, 0xc3},
		{"min_in", EncodingMinimal, Code{Op: OP_IN, Reg1: 1}, 0xe4},
		{"ext_add", EncodingExtended, Code{Op: OP_ADD, Reg1: 1, Reg2: 2, Imm: 3}, 0x8a0003},
		{"ext_ldi", EncodingExtended, Code{Op: OP_LDI, Reg1: 2, Imm: 5}, 0x4100005},
		{"ext_imm_max", EncodingExtended, Code{Op: OP_JMP, Reg1: 7, Imm: 0xffff}, 0x178ffff},
	}

	for _, entry := range table {
		word, err := entry.enc.Encode(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.word, word, entry.name)
		assert.Equal(entry.code, entry.enc.Decode(word), entry.name)
	}
}

func TestEncoding_Encode_Error(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		enc   Encoding
		code  Code
		field string
	}){
		{"min_reg1", EncodingMinimal, Code{Op: OP_ADD, Reg1: 4}, "reg1"},
		{"min_reg2", EncodingMinimal, Code{Op: OP_ADD, Reg2: 7}, "reg2"},
		{"min_ldi", EncodingMinimal, Code{Op: OP_LDI}, "opcode"},
		{"min_imm", EncodingMinimal, Code{Op: OP_JMP, Imm: 1}, "immediate"},
		{"ext_imm", EncodingExtended, Code{Op: OP_JMP, Imm: 0x10000}, "immediate"},
		{"ext_opcode", EncodingExtended, Code{Op: 0x100}, "opcode"},
		{"ext_negative", EncodingExtended, Code{Op: OP_ADD, Reg1: -1}, "reg1"},
	}

	for _, entry := range table {
		word, err := entry.enc.Encode(entry.code)
		assert.Equal(Word(0), word, entry.name)
		var errEnc *ErrEncoding
		if assert.True(errors.As(err, &errEnc), entry.name) {
			assert.Equal(entry.field, errEnc.Field, entry.name)
		}
	}
}

func TestEncoding_Decode(t *testing.T) {
	assert := assert.New(t)

	// Bits above the encoding width are ignored.
	assert.Equal(EncodingMinimal.Decode(0x26), EncodingMinimal.Decode(0x126))
	assert.Equal(EncodingExtended.Decode(0x8a0003), EncodingExtended.Decode(0xc08a0003))

	// Undefined opcodes still decode.
	code := EncodingMinimal.Decode(0x80)
	assert.Equal(Opcode(8), code.Op)
	assert.False(code.Op.Defined())
	assert.Equal("op08", code.Op.String())
}

func TestEncoding_Halt(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(8, EncodingMinimal.Width())
	assert.Equal(Word(0xff), EncodingMinimal.Halt())
	assert.Equal(30, EncodingExtended.Width())
	assert.Equal(Word(0x3fffffff), EncodingExtended.Halt())

	assert.Equal(3, EncodingMinimal.MaxRegister())
	assert.Equal(7, EncodingExtended.MaxRegister())

	assert.Equal("11111111", EncodingMinimal.Format(EncodingMinimal.Halt()))
}

func TestEncoding_Defines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range EncodingExtended.Defines() {
		defines[key] = value
	}

	assert.Equal("0x3fffffff", defines["HALT"])
	assert.Equal("30", defines["WORD_BITS"])
	assert.Equal("65535", defines["IMM_MAX"])
}

func TestParseEncoding(t *testing.T) {
	assert := assert.New(t)

	enc, err := ParseEncoding("")
	assert.NoError(err)
	assert.Equal(EncodingMinimal, enc)

	enc, err = ParseEncoding("Extended")
	assert.NoError(err)
	assert.Equal(EncodingExtended, enc)

	_, err = ParseEncoding("huge")
	assert.ErrorIs(err, ErrEncodingUnknown)
}

func TestOpcode_Defined(t *testing.T) {
	assert := assert.New(t)

	defined := []Opcode{OP_LOAD, OP_STORE, OP_ADD, OP_SUB, OP_MOV, OP_JMP,
		OP_CMP, OP_NOP, OP_OUT, OP_CALL, OP_RET, OP_BEQ, OP_INT, OP_IN,
		OP_LDI, OP_LDA}
	for _, op := range defined {
		assert.True(op.Defined(), op.String())
	}

	for _, op := range []Opcode{0x08, OP_HALT, 0x12, 0xff, -1, OPCODE_LIMIT} {
		assert.False(op.Defined(), op.String())
	}
}

func FuzzEncoding(f *testing.F) {
	f.Add(uint8(0), uint8(0), uint8(0), uint16(0))
	f.Add(uint8(0xff), uint8(0xff), uint8(0xff), uint16(0xffff))
	f.Add(uint8(0x12), uint8(0x34), uint8(0x56), uint16(0x789a))

	f.Fuzz(func(t *testing.T, op uint8, reg1 uint8, reg2 uint8, imm uint16) {
		assert := assert.New(t)

		for _, enc := range []Encoding{EncodingMinimal, EncodingExtended} {
			code := Code{
				Op:   Opcode(int(op) & (1<<enc.OpBits - 1)),
				Reg1: int(reg1) & (1<<enc.RegBits - 1),
				Reg2: int(reg2) & (1<<enc.RegBits - 1),
				Imm:  int(imm) & (1<<enc.ImmBits - 1),
			}

			word, err := enc.Encode(code)
			assert.NoError(err, enc.Name)
			assert.Equal(Word(0), word&^enc.Mask(), enc.Name)
			assert.Equal(code, enc.Decode(word), enc.Name)
			assert.Equal(enc.Width(), len(enc.Format(word)), enc.Name)
		}
	})
}
