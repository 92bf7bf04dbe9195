package cpu

// Port is the processor's connection to the outside world.
type Port interface {
	// ReadInput blocks until a value in [INPUT_MIN, INPUT_MAX] is
	// available. Invalid values are re-requested, never clamped.
	ReadInput() (value int32, err error)
	// WriteOutput publishes a single value.
	WriteOutput(value int32) error
}
