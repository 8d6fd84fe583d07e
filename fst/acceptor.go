// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

// OOVPenalty is the arc weight assigned when an input character is not in the
// grammar's symbol table. It is large enough that any path through a real
// grammar symbol always wins, while still letting an oov-tagging grammar
// accept the input at all.
const OOVPenalty = 1e6

// Acceptor builds a strictly linear weighted acceptor for text: one state per
// Unicode scalar value, every arc carrying zero weight so that downstream
// composition weight reflects only the grammar. With a nil symbol table each
// rune labels its own arc by code point; with a table, unmapped runes take
// the table's unknown label (or their raw code point when no unknown symbol
// is configured) at OOVPenalty weight.
//
// The construction is a single pass over the input runes.
func Acceptor(text string, syms *SymbolTable) *Vector {
	v := NewVector()
	cur := v.AddState()
	v.SetStart(cur)
	for _, r := range text {
		label := Label(r)
		weight := 0.0
		if syms != nil {
			if l, ok := syms.Find(string(r)); ok {
				label = l
			} else {
				weight = OOVPenalty
				if u := syms.Unknown(); u != NoLabel {
					label = u
				}
			}
		}
		next := v.AddState()
		v.AddArc(cur, Arc{In: label, Out: label, Weight: weight, Next: next})
		cur = next
	}
	v.SetFinal(cur, 0)
	return v
}
