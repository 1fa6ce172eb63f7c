// Package lineage derives generation order and walks the parent/child graph.
package lineage

import (
	"fmt"
	"slices"

	"github.com/example/kin/internal/core/outcome"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    outcome.Kind
	Reason  string
}

// Error converts the guard result to a typed outcome if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &outcome.Error{Kind: r.Kind, Detail: r.Reason}
}

func invalid(format string, args ...any) GuardResult {
	return GuardResult{Kind: outcome.KindValidation, Reason: fmt.Sprintf(format, args...)}
}

// DeriveGeneration computes a child's generation from its known parents'
// generations, or checks a requested one against them.
// Rules:
// - Without parents the generation must be given and not negative
// - A requested generation must sit directly below at least one parent
// - Without a request, parents in different generations are ambiguous
func DeriveGeneration(requested *int, parentGens []int) (int, GuardResult) {
	if len(parentGens) == 0 {
		if requested == nil {
			return 0, invalid("generation order is required for a member without known parents")
		}
		if *requested < 0 {
			return 0, invalid("generation order %d must not be negative", *requested)
		}
		return *requested, GuardResult{Allowed: true}
	}

	if requested != nil {
		for _, g := range parentGens {
			if *requested == g+1 {
				return *requested, GuardResult{Allowed: true}
			}
		}
		return 0, invalid("generation order %d is not directly below parent generations %v", *requested, parentGens)
	}

	derived := parentGens[0] + 1
	for _, g := range parentGens[1:] {
		if g+1 != derived {
			return 0, invalid("parents are in generations %v; give the generation order explicitly", parentGens)
		}
	}
	return derived, GuardResult{Allowed: true}
}

// ValidateRange checks a members_in_range request.
func ValidateRange(begin, end int) error {
	if begin > end {
		return outcome.Validation("generation range %d..%d is empty", begin, end)
	}
	return nil
}

// Hop is a member reached by a traversal and its distance from the root.
type Hop struct {
	ID    int64
	Depth int
}

// Expander returns the neighbors of each id in one direction.
type Expander func(ids []int64) (map[int64][]int64, error)

// Walk performs a breadth-first traversal from root for at most maxDepth
// levels. Every member is reported once, at the shallowest depth it is
// reached, and the root is never reported. The depth cap is what makes the
// walk terminate on cyclic data.
func Walk(root int64, maxDepth int, expand Expander) ([]Hop, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	seen := map[int64]bool{root: true}
	frontier := []int64{root}
	var hops []Hop

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		neighbors, err := expand(frontier)
		if err != nil {
			return nil, err
		}

		var next []int64
		for _, id := range frontier {
			for _, n := range neighbors[id] {
				if seen[n] {
					continue
				}
				seen[n] = true
				next = append(next, n)
			}
		}
		slices.Sort(next)
		for _, id := range next {
			hops = append(hops, Hop{ID: id, Depth: depth})
		}
		frontier = next
	}

	return hops, nil
}
