package cpu

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// EventKind is the type of a trace event.
type EventKind int

const (
	EVENT_LOAD    = EventKind(0) // load
	EVENT_FETCH   = EventKind(1) // fetch
	EVENT_EXECUTE = EventKind(2) // execute
	EVENT_HALT    = EventKind(3) // halt
	EVENT_FAULT   = EventKind(4) // fault
)

var eventNames = [...]string{"load", "fetch", "execute", "halt", "fault"}

func (kind EventKind) String() string {
	if kind >= 0 && int(kind) < len(eventNames) {
		return eventNames[kind]
	}
	return fmt.Sprintf("EventKind(%d)", int(kind))
}

// Event is a trace snapshot published by the processor.
type Event struct {
	Kind      EventKind
	Pc        int    // Address of the cell loaded, fetched, or executed.
	Word      Word   // Contents of that cell.
	Code      Code   // Decoded instruction, for EVENT_EXECUTE.
	Next      int    // Program counter after the event.
	Registers [REGISTER_COUNT]int32
	Message   string
	Err       error // Fault, for EVENT_FAULT.
}

// Observer receives trace events from the processor.
type Observer interface {
	Trace(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

func (fn ObserverFunc) Trace(ev Event) {
	fn(ev)
}

// LogObserver traces events to a logrus logger.
// Loads and fetches are logged at debug level, executions at info level.
type LogObserver struct {
	Logger   *logrus.Logger // If nil, the logrus standard logger.
	Encoding Encoding       // Used to format words in binary.
}

var _ Observer = (*LogObserver)(nil)

func (lo *LogObserver) format(word Word) string {
	if lo.Encoding.Width() == 0 {
		return fmt.Sprintf("%#x", uint32(word))
	}
	return lo.Encoding.Format(word)
}

func (lo *LogObserver) Trace(ev Event) {
	logger := lo.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	fields := logrus.Fields{
		"pc":   ev.Pc,
		"word": lo.format(ev.Word),
	}

	switch ev.Kind {
	case EVENT_LOAD:
		logger.WithFields(fields).Debug(f("memory loaded"))
	case EVENT_FETCH:
		logger.WithFields(fields).Debug(f("instruction fetched"))
	case EVENT_EXECUTE:
		regs := make([]string, len(ev.Registers))
		for n, reg := range ev.Registers {
			regs[n] = fmt.Sprintf("%d", reg)
		}
		fields["op"] = ev.Code.Op.String()
		fields["reg1"] = ev.Code.Reg1
		fields["reg2"] = ev.Code.Reg2
		fields["imm"] = ev.Code.Imm
		fields["next"] = ev.Next
		fields["registers"] = strings.Join(regs, " ")
		entry := logger.WithFields(fields)
		if len(ev.Message) != 0 {
			entry.Info(ev.Message)
		} else {
			entry.Info(f("executed"))
		}
	case EVENT_HALT:
		logger.WithFields(fields).Info(f("halted"))
	case EVENT_FAULT:
		logger.WithFields(fields).WithError(ev.Err).Error(f("fault"))
	}
}
