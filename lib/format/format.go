/*package format handles nbfmm's miniature formatting languages, e.g:

   Levels = 2..6 - 4
   Output = snaps/snap_%04d.nbf

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of n tokens separated by "+" or "-".
Each token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous sequences. For example, 0 through 10 would be 0..10,
1, 2, 3, 15, 16, 17 could be written as  1..17 - 4..13. All spaces around
"-" and "+" symbols are ignored.

Step formats are printf() format strings which contain exactly one integer
verb (e.g. %d, %04d, %x). The verb is replaced by the step number of a
simulation snapshot. "%%" is a literal percent sign and doesn't count as a
verb.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1<<20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	// Parse and error-check the format string.
	tok, err := tokeniseSequenceFormat(format)
	if err != nil { return nil, err }
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil { return nil, err }

	// The size check comes before expansion so "0..1000000000" doesn't
	// allocate.
	total := 0
	for i := range adds { total += sequenceFormatTokenLen(adds[i]) }
	if total > BigNumber {
		return nil, fmt.Errorf("This sequence would have %d elements, " +
			"which is almost certianly a bug.", total)
	}

	m := map[int]bool{ }
	for i := range adds {
		for _, n := range parseSequenceFormatToken(adds[i]) {
			if m[n] {
				return nil, fmt.Errorf("The number %d is added more than " +
					"once.", n)
			}
			m[n] = true
		}
	}

	for i := range subs {
		for _, n := range parseSequenceFormatToken(subs[i]) {
			if !m[n] {
				return nil, fmt.Errorf("The number %d is removed more times " +
					"than it was inserted.", n)
			}
			delete(m, n)
		}
	}

	out := []int{ }
	for n := range m { out = append(out, n) }
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format string into numeric tokens
// and "+"/"-" operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	// Make sure all operators are separated by spaces.
	formatClean := strings.ReplaceAll(format, "+", " + ")
	formatClean = strings.ReplaceAll(formatClean, "-", " - ")

	tok := strings.Fields(formatClean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return tok, nil
}

func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("Format string is empty")
	}

	// Handle the case where the starting "+" is dropped.
	adds, subs = []string{}, []string{}
	var start int
	if tok[0] == "+" || tok[0] == "-" {
		start = 0
	} else {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				1, tok[0], err.Error(),
			)
		}

		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', should be a '-' or '+', but isn't.",
				i+1, tok[i])
		}

		if i + 1 >= len(tok) {
			return nil, nil, fmt.Errorf(
				"The format string ends in a trailing '%s'", tok[i],
			)
		}

		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				i+2, tok[i+1], err.Error(),
			)
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error is tok is a valid token for
// a sequence format and an error describing the problem otherwise. The error
// message assumes it is printed after a trailing "because"
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the format string is empty.")
	}

	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		_, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		start, err1 := strconv.Atoi(bounds[0])
		if err1 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		end, err2 := strconv.Atoi(bounds[1])
		if err2 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				start, end)
		}

		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// sequenceFormatTokenLen returns the number of integers in a token which has
// passed isSequenceFormatToken.
func sequenceFormatTokenLen(tok string) int {
	bounds := strings.Split(tok, "..")
	if len(bounds) == 1 { return 1 }
	start, _ := strconv.Atoi(bounds[0])
	end, _ := strconv.Atoi(bounds[1])
	return end - start + 1
}

// parseSequenceFormatToken parses a single token in a sequence format string
// and returns the corresponding array of numbers. It assumes that tok has
// already passed isSequenceFormatToken.
func parseSequenceFormatToken(tok string) []int {
	bounds := strings.Split(tok, "..")

	if len(bounds) == 1 {
		n, _ := strconv.Atoi(tok)
		return []int{ n }
	}

	start, _ := strconv.Atoi(bounds[0])
	end, _ := strconv.Atoi(bounds[1])
	out := make([]int, 0, end - start + 1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}

// CheckStepFormat returns an error if format isn't a valid step format.
func CheckStepFormat(format string) error {
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' { continue }
		if i + 1 < len(format) && format[i + 1] == '%' {
			i++
			continue
		}

		// Skip flags, width, and precision.
		j := i + 1
		for j < len(format) && strings.IndexByte("+-# 0123456789.",
			format[j]) >= 0 {
			j++
		}
		if j == len(format) {
			return fmt.Errorf("The step format '%s' ends in an unfinished " +
				"verb.", format)
		} else if strings.IndexByte("bdoxXv", format[j]) < 0 {
			return fmt.Errorf("The step format '%s' has the verb '%s', " +
				"which can't print an integer.", format, format[i: j+1])
		}

		verbs++
		i = j
	}

	if verbs != 1 {
		return fmt.Errorf("The step format '%s' has %d verbs, but must " +
			"have exactly one, like 'snap_%%04d.nbf'.", format, verbs)
	}
	return nil
}

// StepName returns the name of the snapshot written at the given step. format
// must have passed CheckStepFormat.
func StepName(format string, step int) string {
	return fmt.Sprintf(format, step)
}
