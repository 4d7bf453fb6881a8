// Package hitbox implements the decomposition engine: it partitions mesh
// vertices into spatial clusters, refines cluster representatives onto
// real surface points, and derives one axis-aligned bounding box per
// cluster, running the whole thing as a cancellable background job.
package hitbox

import "fmt"

// Tier names a precision preset controlling cluster count and
// refinement effort.
type Tier string

// The closed set of precision tiers.
const (
	// TierMinimal bypasses clustering entirely and yields a single box
	// covering the whole mesh.
	TierMinimal Tier = "minimal"
	TierLow     Tier = "low"
	TierMedium  Tier = "medium"
	TierHigh    Tier = "high"
	TierUltra   Tier = "ultra"
)

// Params binds a tier to its cluster count and clustering iteration
// budget.
type Params struct {
	Clusters   int `json:"clusters"`
	Iterations int `json:"iterations"`
}

// catalog is kept as data rather than branching logic so new tiers are
// additive. TierMinimal carries zero params because it never reaches
// the partitioner.
var catalog = map[Tier]Params{
	TierMinimal: {},
	TierLow:     {Clusters: 150, Iterations: 10},
	TierMedium:  {Clusters: 300, Iterations: 15},
	TierHigh:    {Clusters: 600, Iterations: 20},
	TierUltra:   {Clusters: 1200, Iterations: 25},
}

// tierOrder lists tiers from coarsest to finest for display.
var tierOrder = []Tier{TierMinimal, TierLow, TierMedium, TierHigh, TierUltra}

// Lookup returns the clustering parameters for a tier. ok is false only
// for tiers outside the closed set.
func Lookup(t Tier) (Params, bool) {
	p, ok := catalog[t]
	return p, ok
}

// Tiers returns all known tiers from coarsest to finest.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// ParseTier resolves a user-supplied tier name. "super low", the
// historical name for the bypass tier, is accepted as an alias for
// minimal.
func ParseTier(s string) (Tier, error) {
	if s == "super low" {
		return TierMinimal, nil
	}
	t := Tier(s)
	if _, ok := catalog[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}
