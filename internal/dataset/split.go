// Package dataset supplies the training-side data plumbing: deterministic
// train/val/test splitting, annotation parsing, and cached radiograph
// loading.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrSplitUnavailable reports an item list too small for a three-way split.
// Callers should fall back to treating all items as a single undivided
// group rather than forcing a split.
var ErrSplitUnavailable = errors.New("not enough items to split")

// Split partitions a set of item identifiers into three disjoint groups.
// The groups are contiguous slices of one seeded shuffle, so their union is
// exactly the input set.
type Split struct {
	Train []string
	Val   []string
	Test  []string
}

// SplitItems shuffles items with a generator seeded by seed and slices the
// result into train/val/test blocks. Sizes use floor arithmetic:
// len(train) = floor(n*trainRatio), len(val) = floor(n*valRatio), and test
// absorbs the remainder. The same seed and the same input order always
// produce the same partition.
//
// Filtering items (for example, requiring complete annotation) is the
// caller's responsibility; SplitItems partitions exactly what it is given.
func SplitItems(items []string, trainRatio, valRatio float64, seed int64) (*Split, error) {
	if trainRatio < 0 || valRatio < 0 || trainRatio+valRatio > 1 {
		return nil, fmt.Errorf("invalid split ratios train=%g val=%g", trainRatio, valRatio)
	}
	n := len(items)
	if n < 3 {
		return nil, fmt.Errorf("%w: have %d, need at least 3", ErrSplitUnavailable, n)
	}

	shuffled := make([]string, n)
	copy(shuffled, items)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTrain := int(float64(n) * trainRatio)
	nVal := int(float64(n) * valRatio)

	return &Split{
		Train: shuffled[:nTrain],
		Val:   shuffled[nTrain : nTrain+nVal],
		Test:  shuffled[nTrain+nVal:],
	}, nil
}

// Size returns the total number of items across all three groups.
func (s *Split) Size() int {
	return len(s.Train) + len(s.Val) + len(s.Test)
}
