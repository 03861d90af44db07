package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// autoSwitch is the value of an auto|on|off flag (--ui, --color).
type autoSwitch uint8

const (
	switchAuto autoSwitch = iota
	switchOn
	switchOff
)

var switchNames = [...]string{switchAuto: "auto", switchOn: "on", switchOff: "off"}

func (s autoSwitch) String() string { return switchNames[s] }

func parseSwitch(flag, value string) (autoSwitch, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return switchAuto, nil
	}
	for i, name := range switchNames {
		if v == name {
			return autoSwitch(i), nil
		}
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto against the terminal the output goes to.
func (s autoSwitch) enabled(out *os.File) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return isTerminal(out)
	}
}

// colorFor reads the persistent --color flag for output written to out.
func colorFor(cmd *cobra.Command, out *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	s, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	return s.enabled(out), nil
}
