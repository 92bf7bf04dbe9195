package cpu

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ucpu/translate"
)

func TestStats_Rate(t *testing.T) {
	assert := assert.New(t)

	st := Stats{Instructions: 10, Elapsed: 500 * time.Nanosecond}
	_, ok := st.Rate()
	assert.False(ok)

	st.Elapsed = 4 * time.Microsecond
	rate, ok := st.Rate()
	assert.True(ok)
	assert.Equal(2.5, rate)
}

func TestStats_Report(t *testing.T) {
	assert := assert.New(t)

	translate.SetLocale("en-US")

	table := [](struct {
		name     string
		stats    Stats
		expected []string
	}){
		{"halted", Stats{Instructions: 10, Elapsed: 4 * time.Microsecond, Halted: true},
			[]string{
				"Performance Metrics:",
				"Total Instructions Executed: 10",
				"Execution Time: 4 microseconds",
				"Instructions Per Microsecond: 2.50",
				"Halted normally",
			}},
		{"zero", Stats{Halted: true},
			[]string{
				"Performance Metrics:",
				"Total Instructions Executed: 0",
				"Execution Time: 0 microseconds",
				"Instructions Per Microsecond: n/a",
				"Halted normally",
			}},
		{"fault", Stats{Instructions: 3, Fault: &ErrFault{Pc: 2, Err: ErrInterrupt}},
			[]string{
				"Performance Metrics:",
				"Total Instructions Executed: 3",
				"Execution Time: 0 microseconds",
				"Instructions Per Microsecond: n/a",
				fmt.Sprintf("Halted due to fault: %v", ErrInterrupt),
			}},
		{"running", Stats{},
			[]string{
				"Performance Metrics:",
				"Total Instructions Executed: 0",
				"Execution Time: 0 microseconds",
				"Instructions Per Microsecond: n/a",
				"Not halted",
			}},
	}

	for _, entry := range table {
		buff := &bytes.Buffer{}
		err := entry.stats.Report(buff)
		assert.NoError(err, entry.name)
		assert.Equal(strings.Join(entry.expected, "\n")+"\n", buff.String(), entry.name)
	}
}
