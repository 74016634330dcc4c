package lib

/* check.go contains the core functions of nbfmm's "check" mode. */

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/format"
)

// Check validates c for the given mode: every variable must be legal, every
// file the mode reads must exist, and every file name it writes must be set.
// It returns nil if no problems were found.
func Check(mode RunMode, c *config.Config) error {
	if err := c.Validate(); err != nil { return err }

	switch mode {
	case ModelMode:
		if c.Model.Output == "" {
			return fmt.Errorf("The model mode needs Model.Output to be set.")
		}
	case SolveMode:
		if c.Solve.Output == "" {
			return fmt.Errorf("The solve mode needs Solve.Output to be set.")
		}
		if err := checkInput("Solve.Input", c.Solve.Input); err != nil {
			return err
		}
	case SimulateMode:
		if err := format.CheckStepFormat(c.Simulate.Output); err != nil {
			return fmt.Errorf("Simulate.Output is invalid. %s", err.Error())
		}
		if c.Simulate.Input != "" {
			err := checkInput("Simulate.Input", c.Simulate.Input)
			if err != nil { return err }
		}
	}

	return nil
}

func checkInput(name, fname string) error {
	if fname == "" { return fmt.Errorf("%s must be set.", name) }
	info, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("%s is '%s', which cannot be accessed: %s",
			name, fname, err.Error())
	} else if info.IsDir() {
		return fmt.Errorf("%s is '%s', which is a directory.", name, fname)
	}
	return nil
}
