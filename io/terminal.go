package io

import (
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/ezrec/ucpu/cpu"
)

// Terminal is an interactive port, with line editing and history.
// Ctrl-C at the prompt aborts the input request.
type Terminal struct {
	Output io.Writer

	line *liner.State
}

var _ cpu.Port = (*Terminal)(nil)

// NewTerminal takes control of the terminal. Close must be called to
// restore it.
func NewTerminal(output io.Writer) (term *Terminal) {
	term = &Terminal{
		Output: output,
		line:   liner.NewLiner(),
	}

	term.line.SetCtrlCAborts(true)

	return
}

// Close restores the terminal.
func (term *Terminal) Close() error {
	return term.line.Close()
}

// ReadInput prompts until a valid value is entered.
func (term *Terminal) ReadInput() (value int32, err error) {
	prompt := f("Enter 8-bit value (0-255): ")

	for {
		var text string
		text, err = term.line.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			err = ErrAborted
			return
		case errors.Is(err, io.EOF):
			err = ErrInputClosed
			return
		case err != nil:
			return
		}

		var ok bool
		value, ok = ParseValue(text)
		if ok {
			term.line.AppendHistory(text)
			return
		}

		prompt = f("Invalid! Enter 0-255: ")
	}
}

// WriteOutput announces the value on the output.
func (term *Terminal) WriteOutput(value int32) (err error) {
	_, err = fmt.Fprintln(term.Output, FormatOutput(value))
	return
}
