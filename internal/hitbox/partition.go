package hitbox

import (
	"math/rand"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
)

// RefinementRounds is the number of medoid-snap rounds run after the
// initial clustering fit. The count is contractual: downstream boxes
// change shape if it changes, so it is not tuned for convergence.
const RefinementRounds = 3

// DefaultSeed is a fixed seed so two runs on the same mesh and tier
// produce bit-identical hitbox sets.
const DefaultSeed = 42

// Partitioner groups vertex positions into k spatial clusters. It runs a
// seeded k-means++ fit bounded by Iterations, then RefinementRounds
// medoid-snap rounds: each round replaces every centroid with its nearest
// real vertex (ties broken by lowest vertex index) and recomputes the
// nearest-centroid assignment. Snapping anchors representatives to actual
// surface points so the extracted boxes hug real geometry.
type Partitioner struct {
	K          int
	Iterations int
	Seed       int64

	// Cancelled is polled at the cooperative checkpoints, once before
	// each refinement round. May be nil.
	Cancelled func() bool
	// AfterFit fires when the initial clustering fit completes.
	// AfterRound fires after each refinement round with the zero-based
	// round number. Both may be nil; both are called on the job
	// goroutine.
	AfterFit   func()
	AfterRound func(round int)
}

// Partition holds the final cluster structure: one centroid per cluster
// (snapped to a real vertex) and a per-vertex cluster index. Assignment
// is a partition of the vertex indices: every vertex belongs to exactly
// one cluster. Clusters may be empty.
type Partition struct {
	K          int
	Centroids  []geom.Point
	Assignment []int
}

// Partition clusters the given points. The cluster count is clamped to
// min(K, len(points)); if K >= len(points) every point becomes its own
// singleton cluster. Returns ErrCancelled if a cancellation checkpoint
// fires, with no partial result.
func (p *Partitioner) Partition(points []geom.Point) (*Partition, error) {
	n := len(points)
	if n == 0 {
		return nil, ErrNoPoints
	}

	k := p.K
	if k < 1 {
		k = 1
	}
	if k >= n {
		return p.singletons(points)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	centroids := seedCentroids(points, k, rng)
	assignment := assign(points, centroids)

	for it := 0; it < p.Iterations; it++ {
		recomputeMeans(points, assignment, centroids)
		next := assign(points, centroids)
		if equalAssignment(assignment, next) {
			break
		}
		assignment = next
	}
	if p.AfterFit != nil {
		p.AfterFit()
	}

	for round := 0; round < RefinementRounds; round++ {
		if p.cancelled() {
			return nil, ErrCancelled
		}
		for c := range centroids {
			centroids[c] = points[nearestVertex(points, centroids[c])]
		}
		assignment = assign(points, centroids)
		if p.AfterRound != nil {
			p.AfterRound(round)
		}
	}

	return &Partition{K: len(centroids), Centroids: centroids, Assignment: assignment}, nil
}

// singletons handles the degenerate k >= n case: every vertex is its own
// cluster and refinement rounds are identity. The checkpoints and
// milestone hooks still fire so progress reporting stays uniform.
func (p *Partitioner) singletons(points []geom.Point) (*Partition, error) {
	n := len(points)
	centroids := make([]geom.Point, n)
	assignment := make([]int, n)
	copy(centroids, points)
	for i := range assignment {
		assignment[i] = i
	}
	if p.AfterFit != nil {
		p.AfterFit()
	}
	for round := 0; round < RefinementRounds; round++ {
		if p.cancelled() {
			return nil, ErrCancelled
		}
		if p.AfterRound != nil {
			p.AfterRound(round)
		}
	}
	return &Partition{K: n, Centroids: centroids, Assignment: assignment}, nil
}

func (p *Partitioner) cancelled() bool {
	return p.Cancelled != nil && p.Cancelled()
}

// seedCentroids picks initial centers with the k-means++ heuristic:
// each successive center is drawn with probability proportional to its
// squared distance from the nearest already-chosen center. If the total
// squared distance collapses to zero (all remaining points coincide with
// chosen centers) the count degrades gracefully toward a single cluster
// instead of failing.
func seedCentroids(points []geom.Point, k int, rng *rand.Rand) []geom.Point {
	centroids := make([]geom.Point, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	distSq := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		latest := centroids[len(centroids)-1]
		for i, pt := range points {
			d := pt.DistSq(latest)
			if len(centroids) == 1 || d < distSq[i] {
				distSq[i] = d
			}
			total += distSq[i]
		}
		if total == 0 {
			break // numerical degeneracy: fewer distinct points than clusters
		}
		r := rng.Float64() * total
		chosen := len(points) - 1
		acc := 0.0
		for i, d := range distSq {
			acc += d
			if acc >= r {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

// assign maps every point to its nearest centroid. Ties go to the lowest
// centroid index via the strict comparison.
func assign(points []geom.Point, centroids []geom.Point) []int {
	assignment := make([]int, len(points))
	for i, pt := range points {
		best := 0
		bestD := pt.DistSq(centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := pt.DistSq(centroids[c]); d < bestD {
				best, bestD = c, d
			}
		}
		assignment[i] = best
	}
	return assignment
}

// recomputeMeans moves each centroid to the mean of its members.
// Centroids with no members keep their previous position.
func recomputeMeans(points []geom.Point, assignment []int, centroids []geom.Point) {
	sums := make([]geom.Point, len(centroids))
	counts := make([]int, len(centroids))
	for i, c := range assignment {
		sums[c] = sums[c].Add(points[i])
		counts[c]++
	}
	for c := range centroids {
		if counts[c] > 0 {
			centroids[c] = sums[c].Scale(1 / float64(counts[c]))
		}
	}
}

// nearestVertex returns the index of the vertex closest to q, breaking
// ties by lowest vertex index.
func nearestVertex(points []geom.Point, q geom.Point) int {
	best := 0
	bestD := points[0].DistSq(q)
	for i := 1; i < len(points); i++ {
		if d := points[i].DistSq(q); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func equalAssignment(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
