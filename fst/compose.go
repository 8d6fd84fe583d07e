// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

// Compose intersects the output side of a with the input side of b, producing
// the lattice of all joint paths. Only pairs of states reachable from the
// joint start are materialized.
//
// The left operand must have an epsilon-free output side, which holds for
// every acceptor built by Acceptor. The right operand may consume epsilon on
// its input side (insertions); such arcs advance b without advancing a.
// Epsilon-output arcs on b (deletions) need no special handling because they
// still consume a's output symbol.
func Compose(a *Vector, b Transducer) (*Vector, error) {
	out := NewVector()
	if a.Empty() || b.Start() < 0 || b.NumStates() == 0 {
		return out, nil
	}

	type pair struct{ sa, sb int }
	index := map[pair]int{}
	var queue []pair

	stateOf := func(p pair) int {
		if s, ok := index[p]; ok {
			return s
		}
		s := out.AddState()
		index[p] = s
		queue = append(queue, p)
		return s
	}

	start := pair{a.Start(), b.Start()}
	out.SetStart(stateOf(start))

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		src := index[p]

		if wa, oka := a.Final(p.sa); oka {
			if wb, okb := b.Final(p.sb); okb {
				out.SetFinal(src, wa+wb)
			}
		}

		// b-side insertions: consume nothing from a.
		for _, ab := range b.Arcs(p.sb) {
			if ab.In != Epsilon {
				continue
			}
			dst := stateOf(pair{p.sa, ab.Next})
			out.AddArc(src, Arc{In: Epsilon, Out: ab.Out, Weight: ab.Weight, Next: dst})
		}

		// matched moves: a's output feeds b's input.
		for _, aa := range a.Arcs(p.sa) {
			for _, ab := range b.Arcs(p.sb) {
				if ab.In == Epsilon || ab.In != aa.Out {
					continue
				}
				dst := stateOf(pair{aa.Next, ab.Next})
				out.AddArc(src, Arc{In: aa.In, Out: ab.Out, Weight: aa.Weight + ab.Weight, Next: dst})
			}
		}
	}

	return out, nil
}
