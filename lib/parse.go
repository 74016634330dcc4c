package lib

import (
	"flag"
	"fmt"
	"io/ioutil"

	"github.com/phil-mansfield/nbfmm/lib/config"
)

// Overrides stores the config variables which the user set on the command
// line. They take precedence over the config file.
type Overrides struct {
	Threads, Levels int
	set map[string]bool
}

// ParseCommandLine parses the command line arguments (without the program
// name) and returns the mode nbfmm is being run in, the name of the config
// file, and any variables which were overridden. Expects that the arguments
// are presented in the order:
// $ nbfmm <mode> <config file> [--Threads <n>] [--Levels <n>]
// The help and example modes don't take a config file.
func ParseCommandLine(
	args []string,
) (mode RunMode, configFile string, over *Overrides, err error) {
	if len(args) == 0 {
		return HelpMode, "", &Overrides{ set: map[string]bool{ } }, nil
	}

	mode, err = ParseRunMode(args[0])
	if err != nil { return 0, "", nil, err }

	rest := args[1:]
	if mode.NeedsConfig() {
		if len(rest) == 0 {
			return 0, "", nil, fmt.Errorf("The '%s' mode needs a config " +
				"file: nbfmm %s <config file> [--Threads <n>] " +
				"[--Levels <n>]", mode, mode)
		}
		configFile, rest = rest[0], rest[1:]
	}

	over = &Overrides{ set: map[string]bool{ } }
	fs := flag.NewFlagSet("nbfmm", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	fs.IntVar(&over.Threads, "Threads", 0, "number of threads (-1 = all)")
	fs.IntVar(&over.Levels, "Levels", 0, "number of grid levels")
	if err := fs.Parse(rest); err != nil {
		return 0, "", nil, fmt.Errorf("Could not parse command line " +
			"arguments: %s", err.Error())
	} else if fs.NArg() > 0 {
		return 0, "", nil, fmt.Errorf("Unexpected command line arguments " +
			"%v.", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { over.set[f.Name] = true })

	return mode, configFile, over, nil
}

// Apply overwrites the variables in c which were set on the command line.
func (over *Overrides) Apply(c *config.Config) {
	if over.set["Threads"] { c.Solver.Threads = over.Threads }
	if over.set["Levels"] { c.Solver.Levels = over.Levels }
}

// ReadConfig reads a config file, applies the overrides, and validates the
// result.
func ReadConfig(fname string, over *Overrides) (*config.Config, error) {
	c, err := config.ReadFile(fname)
	if err != nil { return nil, err }
	over.Apply(c)
	if err := c.Validate(); err != nil { return nil, err }
	return c, nil
}
