package emulator

import (
	"github.com/BurntSushi/toml"
)

// Config selects the machine variant and its I/O.
type Config struct {
	Encoding   string            `toml:"encoding"`   // "minimal" or "extended".
	Convention string            `toml:"convention"` // "slot" or "stack".
	Limit      int               `toml:"limit"`      // Instruction budget, 0 for none.
	Verbose    bool              `toml:"verbose"`
	Inputs     []int32           `toml:"inputs"`  // Scripted inputs. If empty, the caller supplies a port.
	Defines    map[string]string `toml:"defines"` // Additional assembler equates.
}

// DefaultConfig returns the configuration of the basic machine.
func DefaultConfig() Config {
	return Config{
		Encoding:   "minimal",
		Convention: "slot",
	}
}

// ParseConfig decodes TOML text over the default configuration.
func ParseConfig(text string) (cfg Config, err error) {
	cfg = DefaultConfig()
	_, err = toml.Decode(text, &cfg)
	return
}

// LoadConfig decodes a TOML file over the default configuration.
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()
	_, err = toml.DecodeFile(path, &cfg)
	return
}
