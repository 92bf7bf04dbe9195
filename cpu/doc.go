// Package cpu implements the processor core and assembler for the μCPU system.
//
// The processor is a small fixed-width register machine: eight signed 32-bit
// registers (R0-R7), a flat memory of 256 cells, a program counter, and a
// single-value I/O port. Instructions are packed into a fixed-width word by an
// Encoding, of which two variants are provided: the 8-bit Minimal encoding,
// and the 30-bit Extended encoding that adds a 16-bit immediate.
//
// Execution is a strict fetch, halt check, decode, execute cycle. Every fault
// terminates the run; the statistics gathered up to that point are still
// reported.
//
// The assembler recognises a fixed set of mnemonic patterns, one instruction
// per line, and produces a Program listing that can be loaded into memory.
package cpu
