// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

// DetectPolicy tunes script detection for LangAuto. The thresholds are
// policy, not universal truth; mixed-script corpora may want a higher kana
// requirement.
type DetectPolicy struct {
	// MinKanaRunes is the number of Hiragana/Katakana runes that forces
	// Japanese. Kana has the highest priority because Japanese text is full
	// of CJK ideographs too.
	MinKanaRunes int `mapstructure:"min_kana_runes"`

	// NumericAsZh treats text with no alphabetic content (digits, symbols,
	// punctuation only) as Chinese, the common TTS front-end convention for
	// inputs like "123" or "3/4".
	NumericAsZh bool `mapstructure:"numeric_as_zh"`
}

// DefaultDetectPolicy matches the upstream WeText behavior: any kana rune
// forces Japanese, and numeric-only text reads as Chinese.
func DefaultDetectPolicy() DetectPolicy {
	return DetectPolicy{MinKanaRunes: 1, NumericAsZh: true}
}

// Detect classifies text by dominant script. Priority: kana, then CJK
// ideographs, then the numeric fallback, then English. It always returns a
// concrete language; empty or ambiguous text falls back to English.
func (p DetectPolicy) Detect(text string) Language {
	minKana := p.MinKanaRunes
	if minKana < 1 {
		minKana = 1
	}

	kana := 0
	hasCJK := false
	hasAlpha := false
	for _, r := range text {
		switch {
		case r >= 0x3040 && r <= 0x30FF: // Hiragana + Katakana
			kana++
			if kana >= minKana {
				return LangJa
			}
		case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
			hasCJK = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasAlpha = true
		}
	}

	if hasCJK {
		return LangZh
	}
	if p.NumericAsZh && text != "" && !hasAlpha {
		return LangZh
	}
	return LangEn
}
