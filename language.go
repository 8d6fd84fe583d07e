// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import "fmt"

// Language selects a grammar family. The values double as grammar directory
// names, which is a fixed external contract.
type Language string

const (
	// LangAuto defers to script detection per call. It is resolved to a
	// concrete language before any grammar runs.
	LangAuto Language = "auto"
	LangEn   Language = "en"
	LangZh   Language = "zh"
	LangJa   Language = "ja"
)

// ParseLanguage parses a language name as used in configuration.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangAuto, LangEn, LangZh, LangJa:
		return Language(s), nil
	}
	return "", fmt.Errorf("%w: unknown language %q", ErrInvalidConfig, s)
}

// Operator selects the normalization direction. The values double as grammar
// directory names.
type Operator string

const (
	// OpTN converts written form to spoken form.
	OpTN Operator = "tn"
	// OpITN converts spoken form back to written form.
	OpITN Operator = "itn"
)

// ParseOperator parses an operator name as used in configuration.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case OpTN, OpITN:
		return Operator(s), nil
	}
	return "", fmt.Errorf("%w: unknown operator %q", ErrInvalidConfig, s)
}
