// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import (
	"errors"
	"fmt"

	"github.com/rapidaai/wetext-go/grammar"
)

// StageKind says how the orchestrator runs a stage.
type StageKind int

const (
	// StageRewrite applies the stage grammar to the running text.
	StageRewrite StageKind = iota
	// StageContractions is the builtin (non-FST) contraction expansion.
	StageContractions
	// StageTagger produces the tagged intermediate text.
	StageTagger
	// StageTagRewrite applies a grammar to the tagged text (tag_oov).
	StageTagRewrite
	// StageVerbalizer parses the tagged text and verbalizes per token.
	StageVerbalizer
)

// StageSpec is one named pipeline stage. GrammarPath is relative to the
// grammar bundle root and empty for builtin stages. A missing grammar fails
// the pipeline build when Required, and drops the stage with a warning
// otherwise.
type StageSpec struct {
	Name        string
	Kind        StageKind
	GrammarPath string
	Required    bool
}

// buildPipeline produces the ordered stage list for a concrete language,
// operator, and configuration. It is a deterministic table lookup; nothing
// here depends on the text being normalized. Lang must already be resolved
// (never LangAuto), and English ITN must already be remapped by the caller.
func buildPipeline(lang Language, op Operator, cfg Config) ([]StageSpec, error) {
	if err := checkCombination(lang, op); err != nil {
		return nil, err
	}

	var stages []StageSpec

	if op == OpTN {
		// Contraction expansion runs before any grammar stage: punctuation
		// removal would otherwise strip the apostrophes it keys on.
		if lang == LangEn && cfg.FixContractions {
			stages = append(stages, StageSpec{Name: "fix_contractions", Kind: StageContractions})
		}
		if cfg.TraditionalToSimple {
			stages = append(stages, StageSpec{Name: "traditional_to_simple", Kind: StageRewrite, GrammarPath: "traditional_to_simple.fst"})
		}
		if cfg.FullToHalf {
			stages = append(stages, StageSpec{Name: "full_to_half", Kind: StageRewrite, GrammarPath: "full_to_half.fst"})
		}
	}
	if cfg.RemoveInterjections {
		stages = append(stages, StageSpec{Name: "remove_interjections", Kind: StageRewrite, GrammarPath: "remove_interjections.fst"})
	}
	if cfg.RemovePuncts {
		stages = append(stages, StageSpec{Name: "remove_puncts", Kind: StageRewrite, GrammarPath: "remove_puncts.fst"})
	}

	stages = append(stages, StageSpec{
		Name:        "tagger",
		Kind:        StageTagger,
		GrammarPath: taggerPath(lang, op, cfg),
		Required:    true,
	})
	if op == OpTN && cfg.TagOOV {
		stages = append(stages, StageSpec{Name: "tag_oov", Kind: StageTagRewrite, GrammarPath: "tag_oov.fst"})
	}
	stages = append(stages, StageSpec{
		Name:        "verbalizer",
		Kind:        StageVerbalizer,
		GrammarPath: verbalizerPath(lang, op, cfg),
		Required:    true,
	})

	return stages, nil
}

func checkCombination(lang Language, op Operator) error {
	switch {
	case lang == LangEn && op == OpTN,
		lang == LangZh && op == OpTN,
		lang == LangZh && op == OpITN,
		lang == LangJa && op == OpTN,
		lang == LangJa && op == OpITN:
		return nil
	}
	return fmt.Errorf("%w: unsupported combination %s/%s", ErrInvalidConfig, lang, op)
}

// taggerPath and verbalizerPath encode the grammar directory layout. The
// layout is a fixed external contract: renaming a grammar file breaks the
// selector, it is not a recoverable input error.

func taggerPath(lang Language, op Operator, cfg Config) string {
	if op == OpITN && cfg.Enable0To9 {
		return fmt.Sprintf("%s/%s/tagger_enable_0_to_9.fst", lang, op)
	}
	return fmt.Sprintf("%s/%s/tagger.fst", lang, op)
}

func verbalizerPath(lang Language, op Operator, cfg Config) string {
	if lang == LangZh && op == OpTN && cfg.RemoveErhua {
		return "zh/tn/verbalizer_remove_erhua.fst"
	}
	return fmt.Sprintf("%s/%s/verbalizer.fst", lang, op)
}

// stage is a resolved pipeline stage with its grammar loaded.
type stage struct {
	spec StageSpec
	g    *grammar.Grammar // nil for builtin stages
}

// resolvePipeline loads every stage grammar through the bundle. Required
// grammars that are missing or malformed abort the build; missing optional
// grammars drop their stage with a warning.
func (n *Normalizer) resolvePipeline(specs []StageSpec) ([]stage, error) {
	stages := make([]stage, 0, len(specs))
	for _, spec := range specs {
		if spec.GrammarPath == "" {
			stages = append(stages, stage{spec: spec})
			continue
		}
		g, err := n.bundle.Get(spec.GrammarPath)
		if err != nil {
			if !spec.Required && errors.Is(err, grammar.ErrNotFound) {
				n.logger.Warnf("wetext: optional stage %s dropped: %v", spec.Name, err)
				continue
			}
			return nil, err
		}
		stages = append(stages, stage{spec: spec, g: g})
	}
	return stages, nil
}
