// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Decode renders the output side of a path as a string, dropping epsilons.
// With a symbol table, labels resolve through the table; unmapped labels are
// an error because they indicate a grammar/table mismatch. Without a table,
// labels are interpreted as Unicode code points, matching how the upstream
// WeText grammars encode output.
func Decode(p Path, syms *SymbolTable) (string, error) {
	var b strings.Builder
	for _, label := range p.OLabels {
		if label == Epsilon {
			continue
		}
		if syms != nil {
			s, ok := syms.Symbol(label)
			if !ok {
				return "", fmt.Errorf("fst: output label %d not in symbol table", label)
			}
			b.WriteString(s)
			continue
		}
		if !utf8.ValidRune(rune(label)) {
			return "", fmt.Errorf("fst: output label %d is not a valid code point", label)
		}
		b.WriteRune(rune(label))
	}
	return b.String(), nil
}
