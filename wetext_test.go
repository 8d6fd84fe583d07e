// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ntw "moul.io/number-to-words"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/grammar"
	"github.com/rapidaai/wetext-go/pkg/commons"
)

// =============================================================================
// Test helpers
// =============================================================================

// rewriteFst builds a code-point labeled grammar around one hub state: every
// rune in passthrough gets a cheap identity self-loop and every rule maps its
// key to its value at zero weight, so shortest path always prefers a rule.
func rewriteFst(rules map[string]string, passthrough string) *grammar.Grammar {
	v := fst.NewVector()
	hub := v.AddState()
	v.SetStart(hub)
	v.SetFinal(hub, 0)

	for _, r := range passthrough {
		v.AddArc(hub, fst.Arc{In: fst.Label(r), Out: fst.Label(r), Weight: 0.1, Next: hub})
	}
	for in, out := range rules {
		cur := hub
		for _, r := range in {
			next := v.AddState()
			v.AddArc(cur, fst.Arc{In: fst.Label(r), Out: fst.Epsilon, Next: next})
			cur = next
		}
		outs := []rune(out)
		if len(outs) == 0 {
			v.AddArc(cur, fst.Arc{In: fst.Epsilon, Out: fst.Epsilon, Next: hub})
			continue
		}
		for i, r := range outs {
			next := hub
			if i < len(outs)-1 {
				next = v.AddState()
			}
			v.AddArc(cur, fst.Arc{In: fst.Epsilon, Out: fst.Label(r), Next: next})
			cur = next
		}
	}
	return &grammar.Grammar{T: v}
}

const (
	taggedDate     = `date { year: "2024" month: "1" day: "15" }`
	taggedNumber   = `number { value: "123" }`
	taggedMoneyEn  = `money { integer_part: "100" currency_maj: "dollars" }`
	taggedMoneyJa  = `money { value: "100" currency: "円" }`
	taggedBad      = `bad { x: "1`
	taggedMystery  = `mystery { value: "8" }`
	taggedNumberEn = `number { value: "3" }`
)

// testLoader serves a complete toy grammar set covering every language and
// operator the tests exercise.
func testLoader() grammar.StaticLoader {
	oneHundredDollars := fmt.Sprintf("%s dollars", ntw.IntegerToEnUs(100))

	return grammar.StaticLoader{
		"zh/tn/tagger.fst": rewriteFst(map[string]string{
			"2024年1月15日": taggedDate,
			"123":        taggedNumber,
			"7":          taggedBad,
			"8":          taggedMystery,
		}, "今天是对吧天气不错 "),
		"zh/tn/verbalizer.fst": rewriteFst(map[string]string{
			taggedDate:   "二零二四年一月十五日",
			taggedNumber: "一百二十三",
		}, ""),
		"zh/itn/tagger.fst": rewriteFst(map[string]string{
			"一百二十三": taggedNumber,
		}, " "),
		"zh/itn/verbalizer.fst": rewriteFst(map[string]string{
			taggedNumber: "123",
		}, ""),
		"en/tn/tagger.fst": rewriteFst(map[string]string{
			"$100": taggedMoneyEn,
			"3":    taggedNumberEn,
		}, "The cost is I have apples do not "),
		"en/tn/verbalizer.fst": rewriteFst(map[string]string{
			taggedMoneyEn:  oneHundredDollars,
			taggedNumberEn: "three",
		}, ""),
		"ja/tn/tagger.fst": rewriteFst(map[string]string{
			"100円": taggedMoneyJa,
		}, "です "),
		"ja/tn/verbalizer.fst": rewriteFst(map[string]string{
			taggedMoneyJa: "百円",
		}, ""),
		"remove_puncts.fst": rewriteFst(map[string]string{
			"，": "", "。": "", "'": "",
		}, "一百二十三0123456789今天是对吧 do not"),
		"tag_oov.fst": rewriteFst(nil, taggedNumber),
	}
}

func newTestNormalizer(t *testing.T, mutate func(*Config)) *Normalizer {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	b := grammar.NewBundle("", testLoader(), commons.NewNopLogger())
	n, err := New(b, cfg)
	require.NoError(t, err)
	return n
}

// writeGrammarFile renders a toy grammar in AT&T text format under root so
// the filesystem loader can read it back.
func writeGrammarFile(t *testing.T, root, rel string, g *grammar.Grammar) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	var b strings.Builder
	v := g.T
	for s := 0; s < v.NumStates(); s++ {
		for _, a := range v.Arcs(s) {
			fmt.Fprintf(&b, "%d %d %d %d %g\n", s, a.Next, a.In, a.Out, a.Weight)
		}
	}
	for s := 0; s < v.NumStates(); s++ {
		if w, ok := v.Final(s); ok {
			fmt.Fprintf(&b, "%d %g\n", s, w)
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// recordingLogger captures Warnf calls on top of the no-op logger.
type recordingLogger struct {
	commons.Logger
	warnings []string
}

func (l *recordingLogger) Warnf(template string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(template, args...))
}

// =============================================================================
// Chinese
// =============================================================================

func TestNormalizeChineseTN(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "date", input: "2024年1月15日", expected: "二零二四年一月十五日"},
		{name: "number", input: "123", expected: "一百二十三"},
		{name: "date in sentence", input: "今天是2024年1月15日对吧", expected: "今天是二零二四年一月十五日对吧"},
		{name: "no digits skips tagging", input: "今天天气不错", expected: "今天天气不错"},
		{name: "surrounding whitespace trimmed", input: "  123  ", expected: "一百二十三"},
		{name: "empty input", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Normalize(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestNormalizeChineseITN(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangZh
		c.Operator = OpITN
	})

	out, err := n.Normalize(context.Background(), "一百二十三")
	require.NoError(t, err)
	assert.Equal(t, "123", out)
}

func TestNormalizeRoundTrip(t *testing.T) {
	tn := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })
	itn := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangZh
		c.Operator = OpITN
	})

	spoken, err := tn.Normalize(context.Background(), "123")
	require.NoError(t, err)
	require.Equal(t, "一百二十三", spoken)

	written, err := itn.Normalize(context.Background(), spoken)
	require.NoError(t, err)
	assert.Equal(t, "123", written)
}

// =============================================================================
// English and Japanese
// =============================================================================

func TestNormalizeEnglishTN(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangEn })

	out, err := n.Normalize(context.Background(), "$100")
	require.NoError(t, err)
	assert.Equal(t, "one hundred dollars", out)

	out, err = n.Normalize(context.Background(), "The cost is $100")
	require.NoError(t, err)
	assert.Equal(t, "The cost is one hundred dollars", out)
}

func TestNormalizeEnglishContractions(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangEn
		c.FixContractions = true
	})

	out, err := n.Normalize(context.Background(), "I don't have apples")
	require.NoError(t, err)
	assert.Equal(t, "I do not have apples", out)

	out, err = n.Normalize(context.Background(), "I don't have 3 apples")
	require.NoError(t, err)
	assert.Equal(t, "I do not have three apples", out)
}

func TestNormalizeContractionsSurvivePunctRemoval(t *testing.T) {
	// The punct grammar strips apostrophes, so expansion has to run first or
	// "don't" degrades to "dont" and never expands.
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangEn
		c.FixContractions = true
		c.RemovePuncts = true
	})

	res, err := n.NormalizeWithResult(context.Background(), "don't 3")
	require.NoError(t, err)
	assert.Equal(t, "do not three", res.Output)
	assert.Equal(t, []string{"fix_contractions", "remove_puncts", "tagger", "verbalizer"}, res.Stages)
}

func TestNormalizeJapaneseTN(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangJa })

	out, err := n.Normalize(context.Background(), "100円です")
	require.NoError(t, err)
	assert.Equal(t, "百円です", out)
}

func TestNormalizeEnglishITNFallsBackToChinese(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangEn
		c.Operator = OpITN
	})

	res, err := n.NormalizeWithResult(context.Background(), "一百二十三")
	require.NoError(t, err)
	assert.Equal(t, "123", res.Output)
	assert.Equal(t, LangZh, res.Language)
}

// =============================================================================
// Automatic language detection
// =============================================================================

func TestNormalizeAutoDetect(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name     string
		input    string
		expected string
		lang     Language
	}{
		{name: "chinese", input: "今天是2024年1月15日对吧", expected: "今天是二零二四年一月十五日对吧", lang: LangZh},
		{name: "english", input: "I have 3 apples", expected: "I have three apples", lang: LangEn},
		{name: "japanese", input: "100円です", expected: "百円です", lang: LangJa},
		{name: "numeric only reads chinese", input: "123", expected: "一百二十三", lang: LangZh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.NormalizeWithResult(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Output)
			assert.Equal(t, tt.lang, res.Language)
		})
	}
}

// =============================================================================
// Pipeline behavior
// =============================================================================

func TestNormalizeResultStages(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	res, err := n.NormalizeWithResult(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, []string{"tagger", "verbalizer"}, res.Stages)

	res, err = n.NormalizeWithResult(context.Background(), "今天天气不错")
	require.NoError(t, err)
	assert.Empty(t, res.Stages, "digit-free tn input skips tagging entirely")
}

func TestNormalizeRemovePuncts(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangZh
		c.Operator = OpITN
		c.RemovePuncts = true
	})

	res, err := n.NormalizeWithResult(context.Background(), "一百二十三，")
	require.NoError(t, err)
	assert.Equal(t, "123", res.Output)
	assert.Contains(t, res.Stages, "remove_puncts")
}

func TestNormalizeTagOOVStageRuns(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) {
		c.Lang = LangZh
		c.TagOOV = true
	})

	res, err := n.NormalizeWithResult(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "一百二十三", res.Output)
	assert.Contains(t, res.Stages, "tag_oov")
}

func TestNormalizeMissingOptionalStageIsDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lang = LangZh
	cfg.FullToHalf = true // no full_to_half.fst in the test loader

	logger := &recordingLogger{Logger: commons.NewNopLogger()}
	b := grammar.NewBundle("", testLoader(), logger)
	n, err := New(b, cfg, WithLogger(logger))
	require.NoError(t, err)

	out, err := n.Normalize(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "一百二十三", out)
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "full_to_half")
}

func TestNewFailsOnMissingRequiredGrammar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lang = LangZh

	b := grammar.NewBundle("", grammar.StaticLoader{}, commons.NewNopLogger())
	_, err := New(b, cfg)
	assert.ErrorIs(t, err, ErrGrammarNotFound,
		"a concrete language resolves its pipeline at construction")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lang = "xx"

	b := grammar.NewBundle("", testLoader(), commons.NewNopLogger())
	_, err := New(b, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// =============================================================================
// Failure modes
// =============================================================================

func TestNormalizeTagParseErrorFailsClosed(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	// The toy tagger emits an unterminated tag for "7".
	_, err := n.Normalize(context.Background(), "7")
	require.Error(t, err)

	var perr *TagParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 9, perr.Offset)
}

func TestNormalizeTaggerNoPathPassesThrough(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	// The toy tagger cannot accept this text at all, so it passes through
	// untouched. The brace-shaped prose must not reach the tag parser.
	res, err := n.NormalizeWithResult(context.Background(), "foo {bar} 9")
	require.NoError(t, err)
	assert.Equal(t, "foo {bar} 9", res.Output)
	assert.NotContains(t, res.Stages, "verbalizer")
}

func TestNormalizePerTokenFallback(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	// The toy verbalizer has no rule for the "mystery" class, so the token
	// falls back to its raw slot value.
	out, err := n.Normalize(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, "8", out)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	first, err := n.Normalize(context.Background(), "今天是2024年1月15日对吧")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := n.Normalize(context.Background(), "今天是2024年1月15日对吧")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	once, err := n.Normalize(context.Background(), "今天是2024年1月15日对吧")
	require.NoError(t, err)
	twice, err := n.Normalize(context.Background(), once)
	require.NoError(t, err)
	assert.Equal(t, once, twice, "already-spoken text has nothing left to rewrite")
}

// =============================================================================
// One-shot helper over a grammar directory
// =============================================================================

func TestOneShotNormalize(t *testing.T) {
	dir := t.TempDir()
	writeGrammarFile(t, dir, "zh/tn/tagger.fst", rewriteFst(map[string]string{
		"123": taggedNumber,
	}, " "))
	writeGrammarFile(t, dir, "zh/tn/verbalizer.fst", rewriteFst(map[string]string{
		taggedNumber: "一百二十三",
	}, ""))

	out, err := Normalize(context.Background(), dir, "123")
	require.NoError(t, err)
	assert.Equal(t, "一百二十三", out)
}

func TestOneShotNormalizeMissingDir(t *testing.T) {
	// Defaults use auto language, so the pipeline resolves lazily and the
	// missing grammar surfaces on the call itself.
	_, err := Normalize(context.Background(), t.TempDir(), "123")
	assert.ErrorIs(t, err, ErrGrammarNotFound)
}

func TestNormalizeResultTraceIDs(t *testing.T) {
	n := newTestNormalizer(t, func(c *Config) { c.Lang = LangZh })

	r1, err := n.NormalizeWithResult(context.Background(), "123")
	require.NoError(t, err)
	r2, err := n.NormalizeWithResult(context.Background(), "123")
	require.NoError(t, err)

	assert.NotEmpty(t, r1.TraceID)
	assert.NotEqual(t, r1.TraceID, r2.TraceID)
}
