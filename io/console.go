package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/ucpu/cpu"
)

// Console is a line oriented port on a reader and writer pair.
// Each input request prompts for a value, and prompts again until a
// valid value is entered.
type Console struct {
	Input  io.Reader
	Output io.Writer // Receives output values.
	Prompt io.Writer // Receives prompts. If nil, prompts go to Output.

	scanner *bufio.Scanner
}

var _ cpu.Port = (*Console)(nil)

// ParseValue parses a decimal input value, and checks it is in the
// accepted input range.
func ParseValue(text string) (value int32, ok bool) {
	v64, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || !cpu.InputValid(v64) {
		return
	}

	value = int32(v64)
	ok = true
	return
}

// FormatOutput returns the text announcing an output value.
func FormatOutput(value int32) string {
	return f("[OUT] Value %v (%d) written", cpu.BinaryString(uint64(uint32(value)), 8), value)
}

func (con *Console) prompt(text string) {
	w := con.Prompt
	if w == nil {
		w = con.Output
	}
	if w != nil {
		fmt.Fprint(w, text)
	}
}

// ReadInput reads lines until one holds a valid value.
// Returns ErrInputClosed at end of input.
func (con *Console) ReadInput() (value int32, err error) {
	if con.scanner == nil {
		con.scanner = bufio.NewScanner(con.Input)
	}

	con.prompt(f("Enter 8-bit value (0-255): "))
	for con.scanner.Scan() {
		var ok bool
		value, ok = ParseValue(con.scanner.Text())
		if ok {
			return
		}
		con.prompt(f("Invalid! Enter 0-255: "))
	}

	err = con.scanner.Err()
	if err == nil {
		err = ErrInputClosed
	}

	return
}

// WriteOutput announces the value on the output.
func (con *Console) WriteOutput(value int32) (err error) {
	_, err = fmt.Fprintln(con.Output, FormatOutput(value))
	return
}
