package cpu

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Stats are the execution statistics of a run.
type Stats struct {
	Instructions int           // Instructions successfully executed.
	Elapsed      time.Duration // Wall clock time from start to halt or fault.
	Halted       bool          // Set if the run ended on the halt sentinel.
	Fault        error         // Set if the run ended on a fault.
}

// Rate returns the instructions executed per microsecond.
// ok is false when the elapsed time rounds to zero microseconds.
func (st Stats) Rate() (rate float64, ok bool) {
	us := st.Elapsed.Microseconds()
	if us <= 0 {
		return
	}

	rate = float64(st.Instructions) / float64(us)
	ok = true
	return
}

// Report writes the statistics report.
func (st Stats) Report(w io.Writer) (err error) {
	var lines []string

	lines = append(lines,
		f("Performance Metrics:"),
		f("Total Instructions Executed: %d", st.Instructions),
		f("Execution Time: %d microseconds", st.Elapsed.Microseconds()),
	)

	rate, ok := st.Rate()
	if ok {
		lines = append(lines, f("Instructions Per Microsecond: %.2f", rate))
	} else {
		lines = append(lines, f("Instructions Per Microsecond: n/a"))
	}

	switch {
	case st.Fault != nil:
		cause := st.Fault
		var fault *ErrFault
		if errors.As(cause, &fault) {
			cause = fault.Err
		}
		lines = append(lines, f("Halted due to fault: %v", cause))
	case st.Halted:
		lines = append(lines, f("Halted normally"))
	default:
		lines = append(lines, f("Not halted"))
	}

	for _, line := range lines {
		_, err = fmt.Fprintln(w, line)
		if err != nil {
			return
		}
	}

	return
}
