/*package error contains simple functions for reporting nbfmm errors and
exiting. Only the command layer uses it: library packages return errors.
*/
package error

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// exit is replaced in tests.
var exit = os.Exit

// External reports an error to stderr and kills the program. It should be
// used when an error is something a user could reasonably be expected to fix
// through changes in configuration/data/environment. It has the same
// signature as the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	log.Printf("nbfmm exited early with the following error:\n" + format, a...)
	exit(1)
}

// Internal reports an error to stderr along with a stack trace and kills the
// program. It should be used when the error requires a code dive to fix. It
// has the same signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	log.Println("nbfmm exited early with the following error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	exit(1)
}

// Check calls External with err's message if err is non-nil.
func Check(err error) {
	if err != nil { External("%s", err.Error()) }
}
