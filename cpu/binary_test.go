package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		value    uint64
		bits     int
		expected string
	}){
		{0, 8, "00000000"},
		{5, 8, "00000101"},
		{255, 8, "11111111"},
		{0x1ff, 8, "11111111"},
		{0x100, 8, "00000000"},
		{5, 3, "101"},
		{5, 0, ""},
		{5, -1, ""},
		{1, 66, strings.Repeat("0", 65) + "1"},
	}

	for _, entry := range table {
		text := BinaryString(entry.value, entry.bits)
		assert.Equal(entry.expected, text, "%#x/%d", entry.value, entry.bits)
		assert.Equal(max(entry.bits, 0), len(text))
	}
}

func TestInputValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(InputValid(0))
	assert.True(InputValid(255))
	assert.False(InputValid(-1))
	assert.False(InputValid(256))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range Defines() {
		defines[key] = value
	}

	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("8", defines["REGISTER_COUNT"])
	assert.Equal("255", defines["INPUT_MAX"])
}
