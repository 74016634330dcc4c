package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phil-mansfield/nbfmm/lib"
	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/error"
)

const helpString = `nbfmm evaluates pairwise interactions between 2D particles with a fast
multipole method.

Usage:
    nbfmm <mode> <config file> [--Threads <n>] [--Levels <n>]

Modes:
    help      Print this message.
    example   Print an example config file with every variable documented.
    check     Check a config file for errors.
    model     Generate initial conditions and write them to Model.Output.
    solve     Compute accelerations for the particles in Solve.Input and
              write them to Solve.Output as the field "a".
    compare   Compare the solver against a reference solver on a model.
    simulate  Integrate a model with leapfrog steps, writing snapshots.

Particle files whose names end in .txt are read and written as text catalogs
with one particle per line. All other files are binary snapshots.
`

func main() {
	mode, configFile, over, err := lib.ParseCommandLine(os.Args[1:])
	error.Check(err)

	switch mode {
	case lib.HelpMode:
		io.WriteString(os.Stdout, helpString)
		return
	case lib.ExampleMode:
		io.WriteString(os.Stdout, config.ExampleFile)
		return
	}

	c, err := lib.ReadConfig(configFile, over)
	error.Check(err)
	error.Check(lib.Check(mode, c))
	if mode == lib.CheckMode {
		fmt.Println("No errors detected.")
		return
	}

	error.Check(lib.Setup(c))

	// Run the chosen mode.
	switch mode {
	case lib.ModelMode:
		_, err = lib.Model(c)
	case lib.SolveMode:
		err = lib.Solve(c)
	case lib.CompareMode:
		var cmp []lib.Comparison
		cmp, err = lib.Compare(c)
		for i := range cmp {
			fmt.Printf("%2d levels: %s (%s vs. %s)\n", cmp[i].Levels,
				cmp[i].Effect, cmp[i].SolverTime, cmp[i].ReferenceTime)
		}
	case lib.SimulateMode:
		var names []string
		names, err = lib.Simulate(c)
		if err == nil {
			log.Printf("Wrote %d snapshots.", len(names))
		}
	default:
		error.Internal("Run mode %s has no handler.", mode)
	}
	error.Check(err)
}
