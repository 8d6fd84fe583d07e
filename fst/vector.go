// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

import "math"

// nonFinal marks a state with no final weight.
var nonFinal = math.Inf(1)

// Vector is a mutable in-memory transducer backed by per-state arc slices.
// It is the concrete type behind loaded grammars, acceptors, and lattices of
// the bundled engine. Once handed to the pipeline it must be treated as
// read-only.
type Vector struct {
	arcs   [][]Arc
	finals []float64
	start  int
}

// NewVector returns an empty machine with no states and no start.
func NewVector() *Vector {
	return &Vector{start: -1}
}

// AddState appends a fresh state and returns its id.
func (v *Vector) AddState() int {
	v.arcs = append(v.arcs, nil)
	v.finals = append(v.finals, nonFinal)
	return len(v.arcs) - 1
}

// SetStart marks the initial state.
func (v *Vector) SetStart(state int) { v.start = state }

// SetFinal marks a state final with the given weight.
func (v *Vector) SetFinal(state int, weight float64) { v.finals[state] = weight }

// AddArc appends an outgoing arc to a state.
func (v *Vector) AddArc(state int, arc Arc) {
	v.arcs[state] = append(v.arcs[state], arc)
}

func (v *Vector) Start() int { return v.start }

func (v *Vector) Arcs(state int) []Arc { return v.arcs[state] }

func (v *Vector) Final(state int) (float64, bool) {
	w := v.finals[state]
	return w, !math.IsInf(w, 1)
}

func (v *Vector) NumStates() int { return len(v.arcs) }

// Empty reports whether the machine has no states at all.
func (v *Vector) Empty() bool { return len(v.arcs) == 0 || v.start < 0 }
