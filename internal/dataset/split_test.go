package dataset

import (
	"errors"
	"fmt"
	"testing"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("img_%03d.png", i)
	}
	return out
}

func TestSplitItemsSizes(t *testing.T) {
	s, err := SplitItems(items(10), 0.70, 0.15, 42)
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}

	// Floor arithmetic on n=10: train=7, val=1, test absorbs the remainder.
	if len(s.Train) != 7 || len(s.Val) != 1 || len(s.Test) != 2 {
		t.Errorf("sizes: got %d/%d/%d, want 7/1/2", len(s.Train), len(s.Val), len(s.Test))
	}
	if s.Size() != 10 {
		t.Errorf("Size: got %d, want 10", s.Size())
	}
}

func TestSplitItemsDeterministic(t *testing.T) {
	in := items(10)

	first, err := SplitItems(in, 0.70, 0.15, 42)
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}

	for run := 0; run < 5; run++ {
		again, err := SplitItems(in, 0.70, 0.15, 42)
		if err != nil {
			t.Fatalf("run %d: SplitItems failed: %v", run, err)
		}
		for i := range first.Train {
			if first.Train[i] != again.Train[i] {
				t.Fatalf("run %d: train[%d] differs: %s vs %s", run, i, first.Train[i], again.Train[i])
			}
		}
		for i := range first.Val {
			if first.Val[i] != again.Val[i] {
				t.Fatalf("run %d: val[%d] differs", run, i)
			}
		}
		for i := range first.Test {
			if first.Test[i] != again.Test[i] {
				t.Fatalf("run %d: test[%d] differs", run, i)
			}
		}
	}
}

func TestSplitItemsSeedChangesShuffle(t *testing.T) {
	in := items(50)

	a, err := SplitItems(in, 0.70, 0.15, 1)
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}
	b, err := SplitItems(in, 0.70, 0.15, 2)
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}

	same := true
	for i := range a.Train {
		if a.Train[i] != b.Train[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical train groups")
	}
}

func TestSplitItemsPartition(t *testing.T) {
	in := items(23)

	s, err := SplitItems(in, 0.70, 0.15, 7)
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}

	seen := make(map[string]string)
	record := func(group string, ids []string) {
		for _, id := range ids {
			if prev, dup := seen[id]; dup {
				t.Errorf("%s appears in both %s and %s", id, prev, group)
			}
			seen[id] = group
		}
	}
	record("train", s.Train)
	record("val", s.Val)
	record("test", s.Test)

	if len(seen) != len(in) {
		t.Errorf("union has %d items, want %d", len(seen), len(in))
	}
	for _, id := range in {
		if _, ok := seen[id]; !ok {
			t.Errorf("input item %s missing from split", id)
		}
	}

	// Input order is untouched.
	for i, id := range in {
		if id != fmt.Sprintf("img_%03d.png", i) {
			t.Fatal("SplitItems mutated its input slice")
		}
	}
}

func TestSplitItemsTooFew(t *testing.T) {
	for n := 0; n < 3; n++ {
		_, err := SplitItems(items(n), 0.70, 0.15, 42)
		if !errors.Is(err, ErrSplitUnavailable) {
			t.Errorf("n=%d: got %v, want ErrSplitUnavailable", n, err)
		}
	}

	if _, err := SplitItems(items(3), 0.70, 0.15, 42); err != nil {
		t.Errorf("n=3: unexpected error %v", err)
	}
}

func TestSplitItemsBadRatios(t *testing.T) {
	tests := []struct {
		name       string
		train, val float64
	}{
		{"negative train", -0.1, 0.5},
		{"negative val", 0.5, -0.1},
		{"sum above one", 0.8, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SplitItems(items(10), tt.train, tt.val, 42); err == nil {
				t.Error("SplitItems accepted invalid ratios")
			}
		})
	}
}
