package emulator

// Demo is the built-in program. It reads a value and an address, echoes
// the value, stores it at the address, and reads it back.
const Demo = `; echo, store and reload a value
	in r0           ; value
	in r1           ; address
	out r0
	store r0, [r1]
	load r2, [r1]
	out r2
	halt
`
