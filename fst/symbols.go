// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

// NoLabel marks the absence of a label.
const NoLabel Label = -1

// SymbolTable maps textual symbols to arc labels and back. A nil table means
// the grammar labels arcs with Unicode code points directly, which is how the
// upstream WeText grammars are compiled.
type SymbolTable struct {
	labels  map[string]Label
	syms    map[Label]string
	unknown Label
}

// NewSymbolTable returns an empty table with no unknown symbol configured.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		labels:  make(map[string]Label),
		syms:    make(map[Label]string),
		unknown: NoLabel,
	}
}

// AddSymbol registers a symbol under the given label. Re-adding a symbol
// overwrites its previous mapping.
func (t *SymbolTable) AddSymbol(sym string, label Label) {
	t.labels[sym] = label
	t.syms[label] = sym
}

// SetUnknown designates the label used for out-of-vocabulary input.
func (t *SymbolTable) SetUnknown(label Label) { t.unknown = label }

// Unknown returns the out-of-vocabulary label, or NoLabel when unset.
func (t *SymbolTable) Unknown() Label { return t.unknown }

// Find returns the label for a symbol.
func (t *SymbolTable) Find(sym string) (Label, bool) {
	l, ok := t.labels[sym]
	return l, ok
}

// Symbol returns the symbol for a label.
func (t *SymbolTable) Symbol(label Label) (string, bool) {
	s, ok := t.syms[label]
	return s, ok
}

// Len returns the number of mapped symbols.
func (t *SymbolTable) Len() int { return len(t.labels) }
