package lib

import (
	"fmt"
	"strings"
)

// RunMode is the mode nbfmm is being run in.
type RunMode int
const (
	HelpMode RunMode = iota
	ExampleMode
	CheckMode
	ModelMode
	SolveMode
	CompareMode
	SimulateMode
)

var modeNames = []string{
	"help", "example", "check", "model", "solve", "compare", "simulate",
}

func (mode RunMode) String() string {
	if mode < 0 || int(mode) >= len(modeNames) {
		return fmt.Sprintf("RunMode(%d)", int(mode))
	}
	return modeNames[mode]
}

// NeedsConfig returns true if the mode reads a config file.
func (mode RunMode) NeedsConfig() bool {
	return mode != HelpMode && mode != ExampleMode
}

// ParseRunMode converts the name of a mode to a RunMode.
func ParseRunMode(name string) (RunMode, error) {
	for i := range modeNames {
		if modeNames[i] == strings.ToLower(name) { return RunMode(i), nil }
	}
	return 0, fmt.Errorf("You attempted to run nbfmm in the mode '%s', but " +
		"the only valid modes are %s.", name, strings.Join(modeNames, ", "))
}
