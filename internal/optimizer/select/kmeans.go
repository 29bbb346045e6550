// Package select picks representative individuals from a Pareto front by
// clustering the objective-space points and returning, per cluster, the
// point closest to its centroid.
package select_

import (
	"sort"
	"strconv"

	optcore "github.com/Yuki-Tanigaki/modutask/internal/optimizer/core"
)

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func uniquePoints(front optcore.Population) []int {
	seen := make(map[string]bool)
	var idx []int
	for i, ind := range front {
		key := keyOf(ind.Objectives)
		if !seen[key] {
			seen[key] = true
			idx = append(idx, i)
		}
	}
	return idx
}

func keyOf(v []float64) string {
	buf := make([]byte, 0, 16*len(v))
	for _, x := range v {
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
		buf = append(buf, ',')
	}
	return string(buf)
}

// KMeansRepresentatives clusters the front's objective vectors into
// min(k, uniquePointCount) clusters using Lloyd's algorithm with a
// deterministic (seed-free) initialization — the unique points are sorted
// lexicographically and centroids start at evenly spaced points of that
// order — and returns, per cluster, the
// individual closest to that cluster's centroid.
func KMeansRepresentatives(front optcore.Population, k int) optcore.Population {
	if len(front) == 0 || k <= 0 {
		return nil
	}
	uniqueIdx := uniquePoints(front)
	sort.Slice(uniqueIdx, func(i, j int) bool {
		return lexLess(front[uniqueIdx[i]].Objectives, front[uniqueIdx[j]].Objectives)
	})
	numClusters := k
	if numClusters > len(uniqueIdx) {
		numClusters = len(uniqueIdx)
	}
	if numClusters == 0 {
		return nil
	}

	points := make([][]float64, len(front))
	for i, ind := range front {
		points[i] = ind.Objectives
	}

	centroids := make([][]float64, numClusters)
	step := len(uniqueIdx) / numClusters
	if step == 0 {
		step = 1
	}
	for c := 0; c < numClusters; c++ {
		centroids[c] = append([]float64(nil), points[uniqueIdx[(c*step)%len(uniqueIdx)]]...)
	}

	assignment := make([]int, len(points))
	for iter := 0; iter < 100; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, squaredDistance(p, centroids[0])
			for c := 1; c < numClusters; c++ {
				if d := squaredDistance(p, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		sums := make([][]float64, numClusters)
		counts := make([]int, numClusters)
		for c := range sums {
			sums[c] = make([]float64, len(points[0]))
		}
		for i, p := range points {
			c := assignment[i]
			counts[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	reps := make(optcore.Population, 0, numClusters)
	for c := 0; c < numClusters; c++ {
		var best *optcore.Individual
		bestDist := 0.0
		for i, ind := range front {
			if assignment[i] != c {
				continue
			}
			d := squaredDistance(ind.Objectives, centroids[c])
			if best == nil || d < bestDist {
				best, bestDist = ind, d
			}
		}
		if best != nil {
			reps = append(reps, best)
		}
	}
	return reps
}

func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
