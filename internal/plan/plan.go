// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Package plan computes the ordered sequence of filesystem actions
// that transforms an original listing into an edited one: the planner
// described in the design as the hardest, most important component.
package plan

import (
	"sort"
	"strconv"
)

// Action is the sum type of plan steps: Delete, Rename, Stash, Unstash.
// It is a sealed interface — only types in this package implement it.
type Action interface {
	isAction()
}

// Delete removes the entity currently named Src.
type Delete struct {
	Src string
}

// Rename moves the entity currently named Src to Dst. Dst is free (or
// freed earlier in the plan) by construction.
type Rename struct {
	Src string
	Dst string
}

// Stash moves Src aside to a generated, non-colliding name so a cycle
// can be broken. The generated name is an executor concern (it depends
// on live filesystem/overlay state); Stash only records which original
// entity is being set aside.
type Stash struct {
	Src string
}

// Unstash moves the most recently stashed entity (LIFO) into Dst,
// completing a cycle.
type Unstash struct {
	Dst string
}

func (Delete) isAction()  {}
func (Rename) isAction()  {}
func (Stash) isAction()   {}
func (Unstash) isAction() {}

// Compute consumes the original listing and the edited listing (keyed
// by original 1-based line number; an absent key means "delete") and
// returns the ordered Plan described in the design: non-moves emit
// nothing, deletions emit Delete, simple/chained renames are ordered
// tail-first, cycles are broken with a Stash/Unstash pair at the
// lowest-indexed cycle member, duplicate targets are resolved by
// last-index-wins with ascending "~N" alternates for the rest, and
// external clobbers detour the same way.
//
// exists reports whether path currently exists on disk; it is only
// consulted for paths that are not among original (an "external"
// path), matching the executor's read-only precondition checks.
func Compute(original []string, edited map[int]string, exists func(string) bool) ([]Action, error) {
	n := len(original)

	desired := resolveDestinations(original, edited, exists)

	origIndex := make(map[string]int, n)
	for i, p := range original {
		origIndex[p] = i
	}

	isDeleted := make([]bool, n)
	for i := 0; i < n; i++ {
		if _, present := edited[i+1]; !present {
			isDeleted[i] = true
		}
	}

	needsMove := make([]bool, n)
	for i := 0; i < n; i++ {
		if !isDeleted[i] && desired[i] != original[i] {
			needsMove[i] = true
		}
	}

	blockerOf := func(i int) (int, bool) {
		k, ok := origIndex[desired[i]]
		if !ok || k == i {
			return 0, false
		}
		return k, true
	}

	processed := make([]bool, n)
	var actions []Action

	// Early deletes: a deletion that frees the destination some other
	// entry is waiting to move into must fire before that rename.
	referencedByMove := make([]bool, n)
	for i := 0; i < n; i++ {
		if !needsMove[i] {
			continue
		}
		if k, ok := blockerOf(i); ok && isDeleted[k] {
			referencedByMove[k] = true
		}
	}
	for j := 0; j < n; j++ {
		if isDeleted[j] && referencedByMove[j] {
			actions = append(actions, Delete{Src: original[j]})
			processed[j] = true
		}
	}

	// Walk the blocker chain for every remaining index that needs to
	// move, in ascending index order (a deterministic tie-break: the
	// first unprocessed member of any chain or cycle encountered this
	// way is necessarily its lowest-indexed member).
	for i := 0; i < n; i++ {
		if !needsMove[i] || processed[i] {
			continue
		}

		chain := []int{i}
		cur := i
		cycle := false
		for {
			k, ok := blockerOf(cur)
			if !ok {
				break
			}
			if k == i {
				cycle = true
				break
			}
			if processed[k] {
				// k was already resolved (an early-delete target);
				// this chain ends here, its destination is free.
				break
			}

			chain = append(chain, k)
			cur = k
		}

		if cycle {
			actions = append(actions, Stash{Src: original[i]})
			for idx := len(chain) - 1; idx >= 1; idx-- {
				node := chain[idx]
				actions = append(actions, Rename{Src: original[node], Dst: desired[node]})
				processed[node] = true
			}
			actions = append(actions, Unstash{Dst: desired[i]})
			processed[i] = true
			continue
		}

		for idx := len(chain) - 1; idx >= 0; idx-- {
			node := chain[idx]
			actions = append(actions, Rename{Src: original[node], Dst: desired[node]})
			processed[node] = true
		}
	}

	// Remaining deletes: entries whose removal frees nothing anyone
	// else is waiting on.
	for j := 0; j < n; j++ {
		if isDeleted[j] && !processed[j] {
			actions = append(actions, Delete{Src: original[j]})
			processed[j] = true
		}
	}

	return actions, nil
}

// resolveDestinations computes, for every present (non-deleted) index,
// its final destination path: duplicate claimants on the same path are
// split so the highest original index keeps the literal path and
// earlier claimants get "~", "~1", "~2", … in ascending-index order; a
// destination that is not among original but already exists on disk is
// treated the same way (detour-on-external-clobber), except nobody
// keeps the literal path in that case.
func resolveDestinations(original []string, edited map[int]string, exists func(string) bool) []string {
	n := len(original)
	desired := make([]string, n)

	origSet := make(map[string]bool, n)
	for _, p := range original {
		origSet[p] = true
	}

	claims := make(map[string][]int)
	var claimOrder []string
	for i := 0; i < n; i++ {
		target, present := edited[i+1]
		if !present {
			continue
		}
		if _, seen := claims[target]; !seen {
			claimOrder = append(claimOrder, target)
		}
		claims[target] = append(claims[target], i)
	}

	// Process claim groups in ascending order of their lowest claimant
	// index, so "~N" assignment across unrelated groups stays
	// deterministic regardless of map iteration order.
	sort.Slice(claimOrder, func(a, b int) bool {
		return claims[claimOrder[a]][0] < claims[claimOrder[b]][0]
	})

	used := make(map[string]bool, n)
	for _, p := range original {
		used[p] = true
	}

	for _, target := range claimOrder {
		claimants := claims[target]
		external := !origSet[target] && exists(target)

		winner := -1
		if !external {
			winner = claimants[len(claimants)-1]
			desired[winner] = target
			used[target] = true
		}

		altCounter := 0
		for _, idx := range claimants {
			if idx == winner {
				continue
			}

			alt := nextFreeAlt(target, &altCounter, used, exists)
			desired[idx] = alt
			used[alt] = true
		}
	}

	return desired
}

// nextFreeAlt returns the next "base~", "base~1", "base~2", … candidate
// not already claimed (used) and not occupied by an unrelated existing
// file, advancing counter past whatever it tries.
func nextFreeAlt(base string, counter *int, used map[string]bool, exists func(string) bool) string {
	for {
		var candidate string
		if *counter == 0 {
			candidate = base + "~"
		} else {
			candidate = base + "~" + strconv.Itoa(*counter)
		}
		*counter++

		if used[candidate] || exists(candidate) {
			continue
		}

		return candidate
	}
}
