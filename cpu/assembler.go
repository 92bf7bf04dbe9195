// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler maps lines of text, each matching one of a fixed set of
// mnemonic patterns, to instruction words.
type Assembler struct {
	Verbose  bool     // If set, verbosely logs the assembler actions.
	Encoding Encoding // Target encoding. If unset, EncodingMinimal.
	Lines    []Line   // List of generated lines.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

const (
	reReg = `(r[0-7])`
	reNum = `(\$\([^)]*\)|[^\s,\[\]+$]+)`
	reSep = `\s*,\s*`
)

// pattern is a recognised line form.
type pattern struct {
	re    *regexp.Regexp
	build func(asm *Assembler, args []string) (code Code, err error)
}

// mustPattern compiles a case-insensitive, whole line pattern.
func mustPattern(expr string, build func(asm *Assembler, args []string) (Code, error)) pattern {
	return pattern{
		re:    regexp.MustCompile(`(?i)^` + expr + `$`),
		build: build,
	}
}

// The recognised instruction forms.
var patterns = []pattern{
	mustPattern(`add\s+`+reReg+reSep+reReg+reSep+reReg, buildAlu3(OP_ADD)),
	mustPattern(`add\s+`+reReg+reSep+reReg, buildAlu2(OP_ADD)),
	mustPattern(`sub\s+`+reReg+reSep+reReg+reSep+reReg, buildAlu3(OP_SUB)),
	mustPattern(`sub\s+`+reReg+reSep+reReg, buildAlu2(OP_SUB)),
	mustPattern(`mov\s+`+reReg+reSep+reReg, func(asm *Assembler, args []string) (Code, error) {
		return Code{Op: OP_MOV, Reg1: register(args[0]), Reg2: register(args[1])}, nil
	}),
	mustPattern(`load\s+`+reReg+reSep+`\[\s*`+reReg+`\s*\]`, buildMemory(OP_LOAD)),
	mustPattern(`load\s+`+reReg+reSep+`\[\s*`+reReg+`\s*\+\s*`+reNum+`\s*\]`, buildMemory(OP_LOAD)),
	mustPattern(`load\s+`+reReg+reSep+`\[\s*`+reNum+`\s*\]`, buildImmediate(OP_LDA)),
	mustPattern(`load\s+`+reReg+reSep+reNum, buildImmediate(OP_LDI)),
	mustPattern(`store\s+`+reReg+reSep+`\[\s*`+reReg+`\s*\]`, buildMemory(OP_STORE)),
	mustPattern(`store\s+`+reReg+reSep+`\[\s*`+reReg+`\s*\+\s*`+reNum+`\s*\]`, buildMemory(OP_STORE)),
	mustPattern(`jmp\s+`+reReg, buildSingle(OP_JMP)),
	mustPattern(`cmp\s+`+reReg+reSep+reReg, func(asm *Assembler, args []string) (Code, error) {
		return Code{Op: OP_CMP, Reg1: register(args[0]), Reg2: register(args[1])}, nil
	}),
	mustPattern(`nop`, buildNone(OP_NOP)),
	mustPattern(`out\s+`+reReg, buildSingle(OP_OUT)),
	mustPattern(`in\s+`+reReg, buildSingle(OP_IN)),
	mustPattern(`call\s+`+reReg, buildSingle(OP_CALL)),
	mustPattern(`ret`, buildNone(OP_RET)),
	mustPattern(`beq\s+`+reReg+reSep+reNum, func(asm *Assembler, args []string) (code Code, err error) {
		value, err := asm.valueOf(args[1])
		if err != nil {
			return
		}
		code = Code{Op: OP_BEQ, Reg1: register(args[0]), Reg2: value}
		return
	}),
	mustPattern(`int`, buildNone(OP_INT)),
	mustPattern(`halt`, func(asm *Assembler, args []string) (Code, error) {
		return asm.encoding().Decode(asm.encoding().Halt()), nil
	}),
}

// dataPattern is the raw data cell directive.
var dataPattern = regexp.MustCompile(`(?i)^\.word\s+` + reNum + `$`)

// register returns the index of a register name.
func register(name string) int {
	return int(name[1] - '0')
}

func buildNone(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (Code, error) {
		return Code{Op: op}, nil
	}
}

func buildSingle(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (Code, error) {
		return Code{Op: op, Reg1: register(args[0])}, nil
	}
}

// buildAlu2 builds 'OP Rd, Rs', meaning Rd = Rd op Rs.
func buildAlu2(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (code Code, err error) {
		dst := register(args[0])
		src := register(args[1])
		if asm.encoding().ImmBits > 0 {
			code = Code{Op: op, Reg1: dst, Reg2: dst, Imm: src}
		} else {
			code = Code{Op: op, Reg1: dst, Reg2: src}
		}
		return
	}
}

// buildAlu3 builds 'OP Rd, Rs, Rt', meaning Rd = Rs op Rt.
func buildAlu3(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (code Code, err error) {
		dst := register(args[0])
		src1 := register(args[1])
		src2 := register(args[2])
		switch {
		case asm.encoding().ImmBits > 0:
			code = Code{Op: op, Reg1: dst, Reg2: src1, Imm: src2}
		case dst == src1:
			code = Code{Op: op, Reg1: dst, Reg2: src2}
		default:
			err = ErrFormUnsupported
		}
		return
	}
}

// buildMemory builds 'OP Rn, [Ra]' and 'OP Rn, [Ra+offset]'.
func buildMemory(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (code Code, err error) {
		code = Code{Op: op, Reg1: register(args[0]), Reg2: register(args[1])}
		if len(args) > 2 {
			code.Imm, err = asm.valueOf(args[2])
		}
		return
	}
}

// buildImmediate builds 'OP Rd, value'.
func buildImmediate(op Opcode) func(asm *Assembler, args []string) (Code, error) {
	return func(asm *Assembler, args []string) (code Code, err error) {
		code = Code{Op: op, Reg1: register(args[0])}
		code.Imm, err = asm.valueOf(args[1])
		return
	}
}

func (asm *Assembler) encoding() Encoding {
	if asm.Encoding.Width() == 0 {
		return EncodingMinimal
	}
	return asm.Encoding
}

// valueOf returns the value of a number, equate, or $(...) expression.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2 : len(word)-1])
	}

	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// reset prepares the equates for a new assembly.
func (asm *Assembler) reset() {
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
}

// Line assembles a single line of text into an instruction.
// Text that matches no recognised pattern is rejected.
func (asm *Assembler) Line(text string) (code Code, word Word, err error) {
	if asm.Equate == nil {
		asm.reset()
	}

	line := strings.TrimSpace(text)
	for _, pat := range patterns {
		match := pat.re.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		code, err = pat.build(asm, match[1:])
		if err != nil {
			return
		}

		word, err = asm.encoding().Encode(code)
		return
	}

	err = ErrInstructionInvalid
	return
}

// currentAddr gets the address of the next generated line.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	return asm.Lines[len(asm.Lines)-1].Addr + 1
}

// parseLine evaluates a comment-free line of assembly text.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	if len(line) == 0 {
		return
	}

	words := slices.DeleteFunc(strings.Fields(line), func(a string) bool { return len(a) == 0 })

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value int
		value, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		asm.Equate[words[1]] = fmt.Sprintf("%v", value)
		return
	}

	var code Code
	var word Word

	// .word VALUE
	if match := dataPattern.FindStringSubmatch(line); match != nil {
		var value int
		value, err = asm.valueOf(match[1])
		if err != nil {
			return
		}
		if int64(value) < math.MinInt32 || int64(value) > math.MaxUint32 {
			err = fmt.Errorf("%w: %d", ErrValueRange, value)
			return
		}
		word = Word(uint32(value))
		code = asm.encoding().Decode(word)
	} else {
		code, word, err = asm.Line(line)
		if err != nil {
			return
		}
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Text:   line,
		Code:   code,
		Word:   word,
	})

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Encoding: asm.encoding(),
		Lines:    slices.Clone(asm.Lines),
	}

	return
}
