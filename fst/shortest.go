// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

import "math"

// ShortestPath returns the lowest-weight accepting path of a lattice in the
// tropical semiring. Distances are settled by queue-based relaxation rather
// than a priority queue, so arcs with negative weights, which compiled
// grammars do carry, are handled correctly; composition lattices are acyclic,
// so relaxation terminates. Ties are broken by relaxation order, which is
// deterministic for identical inputs and grammars. ErrNoPath is returned when
// no final state is reachable from the start.
func ShortestPath(l Lattice) (Path, error) {
	n := l.NumStates()
	if l.Empty() || n == 0 {
		return Path{}, ErrNoPath
	}

	dist := make([]float64, n)
	prevState := make([]int, n)
	prevArc := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prevState[i] = -1
		prevArc[i] = -1
	}

	start := l.Start()
	dist[start] = 0

	queue := []int{start}
	inQueue := make([]bool, n)
	inQueue[start] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		inQueue[s] = false

		for ai, arc := range l.Arcs(s) {
			if d := dist[s] + arc.Weight; d < dist[arc.Next] {
				dist[arc.Next] = d
				prevState[arc.Next] = s
				prevArc[arc.Next] = ai
				if !inQueue[arc.Next] {
					inQueue[arc.Next] = true
					queue = append(queue, arc.Next)
				}
			}
		}
	}

	// Pick the best reachable final state.
	best := -1
	bestWeight := math.Inf(1)
	for s := 0; s < n; s++ {
		fw, ok := l.Final(s)
		if !ok || math.IsInf(dist[s], 1) {
			continue
		}
		if total := dist[s] + fw; total < bestWeight {
			bestWeight = total
			best = s
		}
	}
	if best < 0 {
		return Path{}, ErrNoPath
	}

	// Backtrack arcs from the best final state to the start.
	var rev []Arc
	for s := best; s != start; s = prevState[s] {
		rev = append(rev, l.Arcs(prevState[s])[prevArc[s]])
	}

	path := Path{Weight: bestWeight}
	for i := len(rev) - 1; i >= 0; i-- {
		path.ILabels = append(path.ILabels, rev[i].In)
		path.OLabels = append(path.OLabels, rev[i].Out)
	}
	return path, nil
}
