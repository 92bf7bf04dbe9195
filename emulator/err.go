package emulator

import (
	"errors"

	"github.com/ezrec/ucpu/translate"
)

var f = translate.From

var (
	ErrEncodingMismatch = errors.New(f("program encoding does not match processor"))
	ErrProgramMissing   = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
