// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package tokenparser parses the bracketed output of a tagger grammar into a
// token tree and serializes tokens back into tagger form for verbalization.
//
// The mini-language is a sequence of literal runs and classified tokens:
//
//	money { value: "100" currency: "$" }
//
// Slot values are quoted strings with backslash escaping and may themselves
// embed further classified tokens, so a token is a general tree rather than a
// per-entity struct.
package tokenparser

import "strings"

// Kind distinguishes literal runs from classified tokens.
type Kind int

const (
	// KindLiteral is an untouched span of input text.
	KindLiteral Kind = iota
	// KindClassified is a named token with ordered slots.
	KindClassified
)

// Token is one node of the parse tree.
type Token struct {
	Kind Kind

	// Text is the verbatim span for KindLiteral.
	Text string

	// Name and Slots describe a KindClassified token. Slot order is the
	// order the tagger emitted, which verbalizer grammars are sensitive to.
	Name  string
	Slots []Slot
}

// Slot is one named field of a classified token. Value holds the parsed
// content of the quoted string: literal runs and any nested classified
// tokens, in order.
type Slot struct {
	Name  string
	Value []Token
}

// RawValue flattens a slot back to plain text, descending through nested
// tokens.
func (s Slot) RawValue() string {
	var b strings.Builder
	for _, t := range s.Value {
		b.WriteString(t.rawText())
	}
	return b.String()
}

func (t Token) rawText() string {
	if t.Kind == KindLiteral {
		return t.Text
	}
	var b strings.Builder
	for _, s := range t.Slots {
		b.WriteString(s.RawValue())
	}
	return b.String()
}

// RawValue flattens a classified token to the concatenation of its slot
// values in emitted order. It is the fallback text when verbalization of the
// token fails.
func (t Token) RawValue() string { return t.rawText() }

// Slot returns the raw value of the named slot and whether it is present.
func (t Token) Slot(name string) (string, bool) {
	for _, s := range t.Slots {
		if s.Name == name {
			return s.RawValue(), true
		}
	}
	return "", false
}

// Serialize renders a classified token back into the tagger's bracketed
// textual form, quoting and escaping slot values. It is the exact inverse of
// parsing for the sub-tree being serialized. Literal tokens serialize to
// their text.
func (t Token) Serialize() string {
	if t.Kind == KindLiteral {
		return t.Text
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteString(" {")
	for _, s := range t.Slots {
		b.WriteByte(' ')
		b.WriteString(s.Name)
		b.WriteString(`: "`)
		b.WriteString(escapeValue(s))
		b.WriteByte('"')
	}
	b.WriteString(" }")
	return b.String()
}

func escapeValue(s Slot) string {
	var b strings.Builder
	for _, t := range s.Value {
		var raw string
		if t.Kind == KindLiteral {
			raw = t.Text
		} else {
			raw = t.Serialize()
		}
		for _, r := range raw {
			switch r {
			case '"', '\\':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// literalSlot wraps plain text in a slot value.
func literalSlot(name, text string) Slot {
	return Slot{Name: name, Value: []Token{{Kind: KindLiteral, Text: text}}}
}
