// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package wetext performs text normalization (TN) and inverse text
// normalization (ITN) for speech applications, driven by pre-compiled
// weighted FST grammars for Chinese, English, and Japanese.
//
//	bundle := grammar.NewBundle("path/to/fsts", grammar.DirLoader{}, logger)
//	n, err := wetext.New(bundle, wetext.DefaultConfig())
//	out, err := n.Normalize(ctx, "2024年1月15日")
//	// out: "二零二四年一月十五日"
package wetext

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/grammar"
	"github.com/rapidaai/wetext-go/internal/contractions"
	"github.com/rapidaai/wetext-go/internal/tokenparser"
	"github.com/rapidaai/wetext-go/pkg/commons"
)

// Result carries the output of one normalize call plus diagnostics.
type Result struct {
	Output string
	// Language is the concrete language the call ran with.
	Language Language
	// Stages lists the stage names actually applied, in order.
	Stages []string
	// TraceID correlates log lines emitted during this call.
	TraceID string
}

// Normalizer is the public entry point. Grammars are loaded once through the
// bundle and shared read-only across calls, so a single Normalizer may be
// used from multiple goroutines; all per-call state (acceptors, lattices,
// parse trees) is freshly allocated and dropped when the call returns.
type Normalizer struct {
	cfg    Config
	bundle *grammar.Bundle
	engine fst.Engine
	logger commons.Logger

	// fixed is the pre-resolved pipeline when the configured language is
	// concrete; nil when language is auto and the pipeline depends on the
	// detected script.
	fixed []stage
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithEngine swaps the FST engine implementation.
func WithEngine(e fst.Engine) Option {
	return func(n *Normalizer) { n.engine = e }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l commons.Logger) Option {
	return func(n *Normalizer) { n.logger = l }
}

// New builds a Normalizer over an already-constructed grammar bundle. For a
// concrete configured language the pipeline is resolved immediately, so a
// missing required grammar surfaces here, before any text is processed.
func New(bundle *grammar.Bundle, cfg Config, opts ...Option) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := &Normalizer{
		cfg:    cfg,
		bundle: bundle,
		engine: fst.NewEngine(),
		logger: commons.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}

	if cfg.Lang != LangAuto {
		lang := resolveOperatorFallback(cfg.Lang, cfg.Operator)
		specs, err := buildPipeline(lang, cfg.Operator, cfg)
		if err != nil {
			return nil, err
		}
		stages, err := n.resolvePipeline(specs)
		if err != nil {
			return nil, err
		}
		n.fixed = stages
	}
	return n, nil
}

// NewFromDir is New with a filesystem-backed bundle rooted at dir.
func NewFromDir(dir string, cfg Config, opts ...Option) (*Normalizer, error) {
	n := &Normalizer{logger: commons.NewNopLogger()}
	for _, opt := range opts {
		opt(n)
	}
	return New(grammar.NewBundle(dir, grammar.DirLoader{}, n.logger), cfg, opts...)
}

// Normalize runs the configured pipeline over text.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, error) {
	res, err := n.NormalizeWithResult(ctx, text)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// NormalizeWithResult is Normalize plus per-call diagnostics.
func (n *Normalizer) NormalizeWithResult(ctx context.Context, text string) (*Result, error) {
	res := &Result{TraceID: uuid.NewString()}
	ctx = commons.ContextWithTraceID(ctx, res.TraceID)

	text = strings.TrimSpace(text)
	if text == "" {
		res.Language = n.cfg.Lang
		return res, nil
	}

	lang := n.cfg.Lang
	if lang == LangAuto {
		lang = n.cfg.Detect.Detect(text)
		n.logger.Tracef(ctx, "wetext: detected language %s", lang)
	}
	lang = resolveOperatorFallback(lang, n.cfg.Operator)
	res.Language = lang

	stages := n.fixed
	if stages == nil {
		specs, err := buildPipeline(lang, n.cfg.Operator, n.cfg)
		if err != nil {
			return nil, err
		}
		if stages, err = n.resolvePipeline(specs); err != nil {
			return nil, err
		}
	}

	runTag := n.shouldNormalize(text)
	tagApplied := false
	orders := tokenparser.OrdersFor(string(lang), string(n.cfg.Operator))

	for _, st := range stages {
		switch st.spec.Kind {
		case StageTagger:
			if !runTag {
				continue
			}
		case StageTagRewrite, StageVerbalizer:
			// When the tagger itself had no path the running text is still
			// plain input, not tagged output; parsing it would misread any
			// brace-shaped prose.
			if !runTag || !tagApplied {
				continue
			}
		}

		var err error
		switch st.spec.Kind {
		case StageRewrite:
			text, err = n.applyRewrite(ctx, st, text)
		case StageContractions:
			text = contractions.Fix(text)
		case StageTagger:
			tagged, rerr := fst.Rewrite(n.engine, st.g.T, st.g.Syms, text)
			if rerr != nil {
				if !errors.Is(rerr, fst.ErrNoPath) {
					return nil, rerr
				}
				n.logger.Tracef(ctx, "wetext: tagger has no path, passing through")
				continue
			}
			text = strings.TrimSpace(tagged)
			tagApplied = true
		case StageTagRewrite:
			text, err = n.applyRewrite(ctx, st, text)
		case StageVerbalizer:
			text, err = n.verbalize(ctx, st, text, orders)
		}
		if err != nil {
			return nil, err
		}
		res.Stages = append(res.Stages, st.spec.Name)
	}

	res.Output = strings.TrimSpace(text)
	return res, nil
}

// applyRewrite runs one plain grammar stage. An input the grammar cannot
// accept at all is not an error for the call: the stage passes the text
// through unchanged.
func (n *Normalizer) applyRewrite(ctx context.Context, st stage, text string) (string, error) {
	out, err := fst.Rewrite(n.engine, st.g.T, st.g.Syms, text)
	if err != nil {
		if errors.Is(err, fst.ErrNoPath) {
			n.logger.Tracef(ctx, "wetext: stage %s has no path, passing through", st.spec.Name)
			return text, nil
		}
		return "", err
	}
	return out, nil
}

// shouldNormalize reports whether the tag/verbalize stages can change the
// text at all. TN grammars only rewrite digit spans (or erhua when that
// removal is on); skipping them for plain prose keeps the hot path cheap.
func (n *Normalizer) shouldNormalize(text string) bool {
	if n.cfg.Operator == OpITN {
		return text != ""
	}
	if strings.ContainsAny(text, "0123456789") {
		return true
	}
	if n.cfg.RemoveErhua && strings.ContainsAny(text, "儿兒") {
		return true
	}
	return false
}

// resolveOperatorFallback remaps English ITN onto the Chinese ITN grammars,
// which handle mixed alphanumeric input; upstream WeText has no English ITN
// grammar family at all.
func resolveOperatorFallback(lang Language, op Operator) Language {
	if lang == LangEn && op == OpITN {
		return LangZh
	}
	return lang
}

// Normalize is a one-shot convenience: default configuration over the
// grammar directory at dir.
func Normalize(ctx context.Context, dir, text string) (string, error) {
	n, err := NewFromDir(dir, DefaultConfig())
	if err != nil {
		return "", err
	}
	return n.Normalize(ctx, text)
}
