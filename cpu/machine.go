package cpu

import (
	"fmt"
	"iter"
	"maps"
)

const (
	REGISTER_COUNT = 8   // Number of general purpose registers.
	MEMORY_SIZE    = 256 // Number of memory cells.
	INPUT_MIN      = 0   // Smallest value accepted from the input port.
	INPUT_MAX      = 255 // Largest value accepted from the input port.
)

var _machine_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"INPUT_MIN":      fmt.Sprintf("%v", INPUT_MIN),
	"INPUT_MAX":      fmt.Sprintf("%v", INPUT_MAX),
}

// Defines returns the machine constants as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// InputValid returns true if value may be accepted from the input port.
func InputValid(value int64) bool {
	return value >= INPUT_MIN && value <= INPUT_MAX
}
