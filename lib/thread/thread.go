/*package thread contains functions useful for multi-threading. Every
function here which launches goroutines waits for all of them to finish
before returning, so consecutive calls are separated by a full barrier.
*/
package thread

import (
	"fmt"
	"runtime"
	"sync"
)

// Set sets the number of threads that the Go runtime will use. n = -1 means
// "use every core." The number of threads actually set is returned.
func Set(n int) (int, error) {
	if n == -1 {
		n = runtime.NumCPU()
	} else if n <= 0 {
		return 0, fmt.Errorf("%d threads requested, but the thread count " +
			"must be positive or -1.", n)
	} else if n > runtime.NumCPU() {
		return 0, fmt.Errorf("%d threads requested, but your system only " +
			"has %d cores per node. If you want nbfmm to use the maximum " +
			"number of threads per node, set Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
	return n, nil
}

// Workers returns the number of workers which should be used for a loop if
// the user asked for n. Non-positive values mean "one per thread."
func Workers(n int) int {
	if n <= 0 { return runtime.GOMAXPROCS(0) }
	return n
}

// Split is a strategy for dividing the range [0, n) among workers. It
// returns the first index, the bound, and the stride used by the given worker.
type Split func(n, workers, worker int) (start, end, step int)

// Jump returns a Split where worker i visits i, i + workers, i + 2*workers,
// etc. This balances loops where the cost of an element varies smoothly with
// its index.
func Jump() Split {
	return func(n, workers, worker int) (start, end, step int) {
		return worker, n, workers
	}
}

// Block returns a Split where each worker gets one contiguous block.
func Block() Split {
	return func(n, workers, worker int) (start, end, step int) {
		size := n / workers
		rem := n % workers
		start = worker*size + imin(worker, rem)
		end = start + size
		if worker < rem { end++ }
		return start, end, 1
	}
}

// SplitArray runs work over the index range [0, n) using the given number of
// workers and returns once every worker has finished. work is called once per
// worker with the range that worker is responsible for and must only write to
// the elements in that range.
func SplitArray(
	n, workers int, work func(start, end, step int), split Split,
) {
	if n <= 0 { return }
	workers = Workers(workers)
	if workers > n { workers = n }

	if workers == 1 {
		start, end, step := split(n, 1, 0)
		work(start, end, step)
		return
	}

	wg := &sync.WaitGroup{ }
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		start, end, step := split(n, workers, i)
		go func() {
			defer wg.Done()
			work(start, end, step)
		}()
	}
	wg.Wait()
}

func imin(x, y int) int {
	if x < y { return x }
	return y
}
