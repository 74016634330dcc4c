package cuckoo

import (
	"math/rand"
	"testing"

	"github.com/phil-mansfield/nbfmm/lib/eq"
)

func TestBin(t *testing.T) {
	tests := []struct{
		bin []int
		bins int
		head, perm []int
	} {
		{[]int{ }, 3, []int{ 0, 0, 0, 0 }, []int{ }},
		{[]int{ 2, 0, 2, 1, 0 }, 3, []int{ 0, 2, 3, 5 },
			[]int{ 1, 4, 3, 0, 2 }},
		{[]int{ 1, 1, 1 }, 4, []int{ 0, 0, 3, 3, 3 }, []int{ 0, 1, 2 }},
	}

	for i := range tests {
		head := make([]int, tests[i].bins + 1)
		cursor := make([]int, tests[i].bins)
		perm := make([]int, len(tests[i].bin))
		Bin(tests[i].bin, head, cursor, perm)

		if !eq.Ints(head, tests[i].head) {
			t.Errorf("%d) Expected head = %v, got %v.", i, tests[i].head, head)
		}
		if !eq.Ints(perm, tests[i].perm) {
			t.Errorf("%d) Expected perm = %v, got %v.", i, tests[i].perm, perm)
		}
		if err := Validate(tests[i].bin, head, perm); err != nil {
			t.Errorf("%d) %s", i, err.Error())
		}
	}
}

func TestBinRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bins := 37
	bin := make([]int, 5000)
	for i := range bin { bin[i] = rng.Intn(bins) }

	head, cursor := make([]int, bins + 1), make([]int, bins)
	perm := make([]int, len(bin))
	Bin(bin, head, cursor, perm)

	if err := Validate(bin, head, perm); err != nil { t.Error(err.Error()) }

	total := 0
	for _, n := range Counts(head) { total += n }
	if total != len(bin) {
		t.Errorf("Expected counts to sum to %d, got %d.", len(bin), total)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct{
		bin []int
		bins, res int
	} {
		{[]int{ }, 2, -1},
		{[]int{ 0, 1, 1 }, 2, -1},
		{[]int{ 0, -1, 5 }, 2, 1},
		{[]int{ 0, 1, 2 }, 2, 2},
	}

	for i := range tests {
		res := Check(tests[i].bin, tests[i].bins)
		if res != tests[i].res {
			t.Errorf("%d) Expected Check = %d, got %d.", i, tests[i].res, res)
		}
	}
}

func TestValidate(t *testing.T) {
	bin := []int{ 1, 0, 1 }
	head := []int{ 0, 1, 3 }
	tests := [][]int{
		{ 1, 2, 0 }, // out of order within a bin
		{ 0, 1, 2 }, // wrong bin
		{ 1, 0, 0 }, // repeated
	}
	for i := range tests {
		if err := Validate(bin, head, tests[i]); err == nil {
			t.Errorf("%d) Expected Validate(%v) to fail.", i, tests[i])
		}
	}
}
