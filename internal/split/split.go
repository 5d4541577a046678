// Package split partitions row indices into train and test sets. The split is
// stratified over target quantile buckets so both partitions see the whole
// price range, and is deterministic for a fixed seed.
package split

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Partition is a pair of disjoint row-index sets covering the full table.
type Partition struct {
	Train []int
	Test  []int
}

// Stratified splits indices 0..len(y)-1 into train and test. Each target
// quantile bucket contributes testFrac of its rows to the test set. Rows are
// returned in ascending index order.
func Stratified(y []float64, testFrac float64, bins int, seed int64) (Partition, error) {
	n := len(y)
	if n < 2 {
		return Partition{}, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFrac <= 0 || testFrac >= 1 {
		return Partition{}, fmt.Errorf("test fraction must be in (0,1), got %v", testFrac)
	}
	if bins < 1 {
		return Partition{}, fmt.Errorf("stratify bins must be >= 1, got %d", bins)
	}
	for i, v := range y {
		if math.IsNaN(v) {
			return Partition{}, fmt.Errorf("target is missing at row %d", i)
		}
	}
	if bins > n {
		bins = n
	}

	// Bucket boundaries at the target's quantiles.
	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)
	thresholds := make([]float64, 0, bins-1)
	for k := 1; k < bins; k++ {
		q := float64(k) / float64(bins)
		pos := q * float64(n-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		v := sorted[lo]
		if lo != hi {
			w := pos - float64(lo)
			v = sorted[lo]*(1-w) + sorted[hi]*w
		}
		thresholds = append(thresholds, v)
	}

	buckets := make([][]int, bins)
	for i, v := range y {
		b := sort.SearchFloat64s(thresholds, v)
		buckets[b] = append(buckets[b], i)
	}

	rnd := rand.New(rand.NewSource(seed))
	var p Partition
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		idx := append([]int(nil), bucket...)
		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Round(testFrac * float64(len(idx))))
		p.Test = append(p.Test, idx[:nTest]...)
		p.Train = append(p.Train, idx[nTest:]...)
	}
	sort.Ints(p.Train)
	sort.Ints(p.Test)
	if len(p.Train) == 0 || len(p.Test) == 0 {
		return Partition{}, fmt.Errorf("degenerate partition: %d train / %d test rows", len(p.Train), len(p.Test))
	}
	return p, nil
}
