// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package tokenparser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports malformed tagger output. Offset is the byte offset of
// the offending position in the input handed to Parse.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tokenparser: %s at byte %d", e.Msg, e.Offset)
}

// Parse parses tagged text into a sequence of literal and classified tokens.
//
// Literal runs are preserved verbatim, except that runs consisting only of
// whitespace between tokens act as separators and are not emitted. Malformed
// token structure (an unterminated quote or brace after a committed token
// start) fails the whole parse; a wrong spoken-form output downstream is
// worse than a visible failure here.
func Parse(input string) ([]Token, error) {
	p := &parser{src: input}
	return p.parseSequence()
}

type parser struct {
	src string
	pos int // byte offset
}

func (p *parser) errorf(offset int, format string, args ...interface{}) error {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *parser) skipSpaces() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

// parseSequence is the top level: literal runs interleaved with classified
// tokens until end of input.
func (p *parser) parseSequence() ([]Token, error) {
	var tokens []Token
	var literal strings.Builder

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		text := literal.String()
		literal.Reset()
		// Pure whitespace between tokens is a separator, not content.
		if strings.TrimSpace(text) == "" && len(tokens) > 0 && tokens[len(tokens)-1].Kind == KindClassified {
			return
		}
		tokens = append(tokens, Token{Kind: KindLiteral, Text: text})
	}

	for !p.eof() {
		if name, bodyPos, ok := p.peekTokenStart(); ok {
			flush()
			p.pos = bodyPos
			tok, err := p.parseBody(name)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}
		literal.WriteRune(p.next())
	}

	flush()
	return tokens, nil
}

// peekTokenStart reports whether the input at the current position begins a
// classified token: an identifier, optional spaces, then '{'. It returns the
// token name and the byte offset just past the '{' without moving the parser.
func (p *parser) peekTokenStart() (name string, bodyPos int, ok bool) {
	i := p.pos
	r, size := utf8.DecodeRuneInString(p.src[i:])
	if !isIdentStart(r) {
		return "", 0, false
	}
	start := i
	for i < len(p.src) {
		r, size = utf8.DecodeRuneInString(p.src[i:])
		if !isIdentPart(r) {
			break
		}
		i += size
	}
	name = p.src[start:i]
	for i < len(p.src) {
		r, size = utf8.DecodeRuneInString(p.src[i:])
		if r != ' ' && r != '\t' {
			break
		}
		i += size
	}
	if i >= len(p.src) || p.src[i] != '{' {
		return "", 0, false
	}
	return name, i + 1, true
}

// parseBody parses "(slot)* '}'" after the opening brace.
func (p *parser) parseBody(name string) (Token, error) {
	tok := Token{Kind: KindClassified, Name: name}
	for {
		p.skipSpaces()
		if p.eof() {
			return Token{}, p.errorf(p.pos, "unterminated token %q", name)
		}
		if p.peek() == '}' {
			p.next()
			return tok, nil
		}

		slotStart := p.pos
		if !isIdentStart(p.peek()) {
			return Token{}, p.errorf(p.pos, "expected slot name or '}' in token %q", name)
		}
		for !p.eof() && isIdentPart(p.peek()) {
			p.next()
		}
		slotName := p.src[slotStart:p.pos]

		p.skipSpaces()
		if p.eof() || p.peek() != ':' {
			return Token{}, p.errorf(p.pos, "expected ':' after slot %q", slotName)
		}
		p.next()
		p.skipSpaces()

		value, err := p.parseQuoted(slotName)
		if err != nil {
			return Token{}, err
		}
		tok.Slots = append(tok.Slots, value)
	}
}

// parseQuoted reads a quoted slot value, resolves backslash escapes, and
// recursively parses the content for nested classified tokens.
func (p *parser) parseQuoted(slotName string) (Slot, error) {
	if p.eof() || p.peek() != '"' {
		return Slot{}, p.errorf(p.pos, "expected quoted value for slot %q", slotName)
	}
	openAt := p.pos
	p.next()

	var raw strings.Builder
	for {
		if p.eof() {
			return Slot{}, p.errorf(openAt, "unterminated quoted value for slot %q", slotName)
		}
		r := p.next()
		if r == '"' {
			break
		}
		if r == '\\' {
			if p.eof() {
				return Slot{}, p.errorf(openAt, "unterminated escape in slot %q", slotName)
			}
			r = p.next()
		}
		raw.WriteRune(r)
	}

	// Grammars may nest further classified tokens inside a value.
	value := raw.String()
	if strings.Contains(value, "{") {
		nested, err := Parse(value)
		if err != nil {
			// The nested offset is relative to the unescaped value and
			// cannot be mapped through the escapes exactly; anchor it to
			// the quote that opens the slot in the outer input.
			var perr *ParseError
			if errors.As(err, &perr) {
				return Slot{}, &ParseError{Offset: openAt, Msg: perr.Msg}
			}
			return Slot{}, err
		}
		return Slot{Name: slotName, Value: nested}, nil
	}
	return literalSlot(slotName, value), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
