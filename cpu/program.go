package cpu

import (
	"fmt"
	"iter"
)

// Line represents a line of assembled code with its source location and
// generated word.
type Line struct {
	LineNo int
	Addr   int
	Text   string
	Code   Code
	Word   Word
}

// Program is an assembled listing.
type Program struct {
	Encoding Encoding
	Lines    []Line
}

// Debug returns the listing entry at addr, or nil.
func (prog *Program) Debug(addr int) (line *Line) {
	for n := range prog.Lines {
		if prog.Lines[n].Addr == addr {
			line = &prog.Lines[n]
			break
		}
	}

	return
}

// Binary returns the words of the program, in address order.
func (prog *Program) Binary() (words []Word) {
	for _, word := range prog.Words() {
		words = append(words, word)
	}

	return
}

// Words iterates over the address and word of each listing entry.
func (prog *Program) Words() iter.Seq2[int, Word] {
	return func(yield func(addr int, word Word) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Addr, line.Word) {
				return
			}
		}
	}
}

// String returns the listing as text.
func (prog *Program) String() (text string) {
	for _, line := range prog.Lines {
		text += fmt.Sprintf("%03d: %v  %v\n", line.Addr, prog.Encoding.Format(line.Word), line.Text)
	}

	return
}
