package io

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/ucpu/cpu"
)

// Queue is a port with scripted inputs. Inputs are consumed in order;
// values outside the accepted range are rejected and the next one is
// taken instead. Outputs are captured.
type Queue struct {
	Inputs   []int32
	Outputs  []int32
	Rejected int       // Number of rejected inputs.
	Output   io.Writer // If set, outputs are also announced here.
}

var _ cpu.Port = (*Queue)(nil)

// ReadInput takes the next valid value from the queue.
// Returns ErrQueueEmpty once the inputs are exhausted.
func (q *Queue) ReadInput() (value int32, err error) {
	for len(q.Inputs) > 0 {
		value = q.Inputs[0]
		q.Inputs = q.Inputs[1:]
		if cpu.InputValid(int64(value)) {
			return
		}
		q.Rejected++
	}

	value = 0
	err = ErrQueueEmpty
	return
}

// WriteOutput captures the value.
func (q *Queue) WriteOutput(value int32) (err error) {
	q.Outputs = append(q.Outputs, value)

	if q.Output != nil {
		_, err = fmt.Fprintln(q.Output, FormatOutput(value))
	}

	return
}

// ParseValues parses a comma separated list of values.
// Range checking is left to the port.
func ParseValues(text string) (values []int32, err error) {
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			continue
		}

		var v64 int64
		v64, err = strconv.ParseInt(item, 0, 32)
		if err != nil {
			err = fmt.Errorf("%w: %q", ErrValueInvalid, item)
			values = nil
			return
		}

		values = append(values, int32(v64))
	}

	return
}
