// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package fst defines the weighted finite-state transducer capability used by
// the normalization pipeline: building a linear acceptor from text, composing
// it with a grammar, taking the lowest-weight accepting path, and decoding
// that path back into a string.
//
// The pipeline only depends on the Engine interface, so the bundled in-memory
// engine can be swapped for an OpenFST binding without touching any pipeline
// code.
package fst

import "errors"

// Label is an arc label. Grammars built without a symbol table use Unicode
// code points directly; grammars with a symbol table use whatever ids the
// table assigns.
type Label = int32

// Epsilon is the reserved empty label.
const Epsilon Label = 0

// ErrNoPath reports that a composition produced no accepting path, i.e. the
// grammar cannot rewrite the given input at all.
var ErrNoPath = errors.New("fst: no accepting path")

// Arc is a single weighted transition.
type Arc struct {
	In     Label
	Out    Label
	Weight float64
	Next   int
}

// Transducer is a read-only weighted FST over the tropical semiring. Loaded
// grammars and composition lattices both satisfy it.
type Transducer interface {
	// Start returns the initial state, or -1 for an empty machine.
	Start() int
	// Arcs returns the outgoing arcs of a state. The returned slice must not
	// be mutated.
	Arcs(state int) []Arc
	// Final returns the final weight of a state and whether it is final.
	Final(state int) (float64, bool)
	// NumStates returns the number of states.
	NumStates() int
}

// Lattice is the opaque result of composing an acceptor with a grammar.
type Lattice interface {
	Transducer
	// Empty reports whether the lattice trivially has no states.
	Empty() bool
}

// Path is a single linear input/output label sequence with its total weight.
type Path struct {
	ILabels []Label
	OLabels []Label
	Weight  float64
}

// Engine is the FST capability consumed by the pipeline.
type Engine interface {
	// Compose intersects the input acceptor with a grammar transducer.
	Compose(input *Vector, grammar Transducer) (Lattice, error)
	// ShortestPath selects the lowest-weight accepting path of a lattice.
	// It returns ErrNoPath when no final state is reachable.
	ShortestPath(l Lattice) (Path, error)
	// Decode renders the output side of a path as a string.
	Decode(p Path, syms *SymbolTable) (string, error)
}

// =============================================================================
// Default Engine
// =============================================================================

type memEngine struct{}

// NewEngine returns the bundled in-memory engine.
func NewEngine() Engine { return memEngine{} }

func (memEngine) Compose(input *Vector, grammar Transducer) (Lattice, error) {
	return Compose(input, grammar)
}

func (memEngine) ShortestPath(l Lattice) (Path, error) {
	return ShortestPath(l)
}

func (memEngine) Decode(p Path, syms *SymbolTable) (string, error) {
	return Decode(p, syms)
}

// Rewrite runs the full acceptor -> compose -> shortest path -> decode chain
// for one input string. It returns ErrNoPath when the grammar has no
// accepting path for the input.
func Rewrite(e Engine, grammar Transducer, syms *SymbolTable, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	acc := Acceptor(text, syms)
	lattice, err := e.Compose(acc, grammar)
	if err != nil {
		return "", err
	}
	if lattice.Empty() {
		return "", ErrNoPath
	}
	path, err := e.ShortestPath(lattice)
	if err != nil {
		return "", err
	}
	return e.Decode(path, syms)
}
