// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package contractions expands English contractions ("don't" -> "do not"),
// slang shorthands ("gonna" -> "going to"), and month abbreviations
// ("jan." -> "january") ahead of the English tagger, so the grammars only
// ever see canonical word forms.
package contractions

import (
	_ "embed"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed data/contractions_dict.json
var contractionsJSON []byte

//go:embed data/leftovers_dict.json
var leftoversJSON []byte

//go:embed data/slang_dict.json
var slangJSON []byte

// monthAbbrevs are appended to the rule set; the trailing period is part of
// the match.
var monthAbbrevs = [][2]string{
	{"jan.", "january"},
	{"feb.", "february"},
	{"mar.", "march"},
	{"apr.", "april"},
	{"jun.", "june"},
	{"jul.", "july"},
	{"aug.", "august"},
	{"sep.", "september"},
	{"oct.", "october"},
	{"nov.", "november"},
	{"dec.", "december"},
}

type rule struct {
	re        *regexp.Regexp
	expansion string
}

var compile = sync.OnceValue(func() []rule {
	merged := make(map[string]string)

	add := func(data []byte, skipEmpty bool) {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return
		}
		for k, v := range m {
			if skipEmpty && v == "" {
				continue
			}
			merged[strings.ToLower(k)] = v
		}
	}
	add(contractionsJSON, false)
	add(leftoversJSON, true)
	add(slangJSON, false)
	for _, m := range monthAbbrevs {
		merged[m[0]] = m[1]
	}

	// U+2019 curly apostrophes match their straight counterparts.
	for k, v := range merged {
		if strings.Contains(k, "'") {
			curly := strings.ReplaceAll(k, "'", "’")
			if _, exists := merged[curly]; !exists {
				merged[curly] = v
			}
		}
	}

	// Longer keys first so "can't've" wins over "can't".
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	rules := make([]rule, 0, len(keys))
	for _, k := range keys {
		escaped := regexp.QuoteMeta(k)
		var pattern string
		if strings.HasSuffix(k, ".") {
			// Month abbreviations: the period is not a word character, so
			// only anchor the start.
			pattern = `(?i)\b` + escaped
		} else {
			pattern = `(?i)\b` + escaped + `\b`
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		rules = append(rules, rule{re: re, expansion: merged[k]})
	}
	return rules
})

// Fix expands every known contraction in text. Text without apostrophes or
// known apostrophe-free shorthands is returned unchanged without running any
// pattern.
func Fix(text string) string {
	if !strings.ContainsAny(text, "'’") && !needsExpansion(text) {
		return text
	}
	for _, r := range compile() {
		text = r.re.ReplaceAllString(text, r.expansion)
	}
	return text
}

// needsExpansion is a fast probe for apostrophe-free rule triggers.
func needsExpansion(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{
		"gonna", "wanna", "gotta", "dunno", "gimme", "lemme",
		"jan.", "feb.", "mar.", "apr.", "jun.", "jul.",
		"aug.", "sep.", "oct.", "nov.", "dec.",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
