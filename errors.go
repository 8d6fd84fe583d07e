// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import (
	"errors"
	"fmt"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/grammar"
)

// ErrInvalidConfig reports an unusable configuration, such as an unsupported
// language/operator combination.
var ErrInvalidConfig = errors.New("wetext: invalid config")

// Re-exported sentinels so callers can match every failure mode of a
// normalize call against this package alone.
var (
	// ErrGrammarNotFound: a required grammar file is missing. Surfaces at
	// construction or pipeline build, before any text is processed.
	ErrGrammarNotFound = grammar.ErrNotFound
	// ErrGrammarLoad: a grammar file exists but is malformed.
	ErrGrammarLoad = grammar.ErrLoad
	// ErrNoPath: a grammar has no accepting path for an input. Recoverable;
	// it only surfaces when every fallback also fails.
	ErrNoPath = fst.ErrNoPath
)

// TagParseError reports malformed tagger output. Normalization never returns
// a best-effort string it cannot parse back, so this fails the whole call.
type TagParseError struct {
	Offset int
	Msg    string
}

func (e *TagParseError) Error() string {
	return fmt.Sprintf("wetext: tag parse failed at byte %d: %s", e.Offset, e.Msg)
}
