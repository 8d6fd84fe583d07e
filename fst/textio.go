// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package fst

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadText parses a transducer in OpenFST's AT&T text format:
//
//	src dst ilabel olabel [weight]   arc line
//	state [weight]                   final-state line
//
// Labels are numeric. The source state of the first line is the start state.
// States are allocated densely up to the highest id mentioned.
func ReadText(r io.Reader) (*Vector, error) {
	v := NewVector()
	ensure := func(state int) {
		for v.NumStates() <= state {
			v.AddState()
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 1, 2:
			// final state
			state, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("fst: line %d: bad state %q: %w", lineNo, fields[0], err)
			}
			weight := 0.0
			if len(fields) == 2 {
				if weight, err = strconv.ParseFloat(fields[1], 64); err != nil {
					return nil, fmt.Errorf("fst: line %d: bad final weight %q: %w", lineNo, fields[1], err)
				}
			}
			ensure(state)
			v.SetFinal(state, weight)
		case 4, 5:
			src, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("fst: line %d: bad source state %q: %w", lineNo, fields[0], err)
			}
			dst, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("fst: line %d: bad target state %q: %w", lineNo, fields[1], err)
			}
			ilabel, err := strconv.ParseInt(fields[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("fst: line %d: bad input label %q: %w", lineNo, fields[2], err)
			}
			olabel, err := strconv.ParseInt(fields[3], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("fst: line %d: bad output label %q: %w", lineNo, fields[3], err)
			}
			weight := 0.0
			if len(fields) == 5 {
				if weight, err = strconv.ParseFloat(fields[4], 64); err != nil {
					return nil, fmt.Errorf("fst: line %d: bad arc weight %q: %w", lineNo, fields[4], err)
				}
			}
			ensure(src)
			ensure(dst)
			if v.Start() < 0 {
				v.SetStart(src)
			}
			v.AddArc(src, Arc{In: Label(ilabel), Out: Label(olabel), Weight: weight, Next: dst})
		default:
			return nil, fmt.Errorf("fst: line %d: expected 1-2 or 4-5 fields, got %d", lineNo, len(fields))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if v.NumStates() > 0 && v.Start() < 0 {
		// final-only machine; state 0 is the conventional start
		v.SetStart(0)
	}
	return v, nil
}

// ReadSymbols parses a symbol table in OpenFST text format: one
// "symbol<ws>id" pair per line. A symbol named "<unk>" or "<oov>" becomes the
// table's unknown label.
func ReadSymbols(r io.Reader) (*SymbolTable, error) {
	t := NewSymbolTable()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("fst: symbols line %d: expected 2 fields, got %d", lineNo, len(fields))
		}
		id, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("fst: symbols line %d: bad label %q: %w", lineNo, fields[1], err)
		}
		t.AddSymbol(fields[0], Label(id))
		if fields[0] == "<unk>" || fields[0] == "<oov>" {
			t.SetUnknown(Label(id))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
