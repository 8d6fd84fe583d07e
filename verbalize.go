// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import (
	"context"
	"errors"
	"strings"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/internal/tokenparser"
)

// verbalize parses the tagger's output into tokens and verbalizes each
// classified token independently through the verbalizer grammar. A tagger
// emission that does not parse is a hard failure for the call; a single
// token the verbalizer rejects falls back to its raw slot values.
func (n *Normalizer) verbalize(ctx context.Context, st stage, tagged string, orders tokenparser.Orders) (string, error) {
	tokens, err := tokenparser.Parse(tagged)
	if err != nil {
		var perr *tokenparser.ParseError
		if errors.As(err, &perr) {
			return "", &TagParseError{Offset: perr.Offset, Msg: perr.Msg}
		}
		return "", err
	}

	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == tokenparser.KindLiteral {
			b.WriteString(tok.Text)
			continue
		}
		reordered := orders.Reorder(tok)
		out, err := fst.Rewrite(n.engine, st.g.T, st.g.Syms, reordered.Serialize())
		if err != nil {
			if errors.Is(err, fst.ErrNoPath) {
				n.logger.Warnf("wetext: verbalizer has no path for %s token, keeping raw value", tok.Name)
				b.WriteString(tok.RawValue())
				continue
			}
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
