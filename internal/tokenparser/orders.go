// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package tokenparser

// Orders maps a token class name to the slot order its verbalizer grammar
// expects. Slots not listed are dropped, matching the upstream WeText
// reorderer.
type Orders map[string][]string

// OrdersFor returns the reorder table for a language ("en", "zh", "ja") and
// operator ("tn", "itn"). Japanese shares the Chinese tables. An empty table
// means slots keep their emitted order.
func OrdersFor(lang, operator string) Orders {
	switch {
	case lang == "en" && operator == "tn":
		return enTnOrders
	case operator == "tn":
		return cjkTnOrders
	case operator == "itn":
		return cjkItnOrders
	default:
		return nil
	}
}

var cjkTnOrders = Orders{
	"date":     {"year", "month", "day"},
	"fraction": {"denominator", "numerator"},
	"measure":  {"denominator", "numerator", "value"},
	"money":    {"value", "currency"},
	"time":     {"noon", "hour", "minute", "second"},
}

var enTnOrders = Orders{
	"date":  {"preserve_order", "text", "day", "month", "year"},
	"money": {"integer_part", "fractional_part", "quantity", "currency_maj"},
}

var cjkItnOrders = Orders{
	"date":     {"year", "month", "day"},
	"fraction": {"sign", "numerator", "denominator"},
	"measure":  {"numerator", "denominator", "value"},
	"money":    {"currency", "value", "decimal"},
	"time":     {"hour", "minute", "second", "noon"},
}

// Reorder returns a copy of a classified token with its slots arranged per
// the table. Tokens whose class has no defined order, literal tokens, and
// tokens carrying preserve_order: "true" keep their emitted slot order.
func (o Orders) Reorder(t Token) Token {
	if t.Kind != KindClassified || len(o) == 0 {
		return t
	}
	defined, ok := o[t.Name]
	if !ok {
		return t
	}
	if v, present := t.Slot("preserve_order"); present && v == "true" {
		return t
	}

	byName := make(map[string]Slot, len(t.Slots))
	for _, s := range t.Slots {
		byName[s.Name] = s
	}
	out := Token{Kind: KindClassified, Name: t.Name}
	for _, name := range defined {
		if s, present := byName[name]; present {
			out.Slots = append(out.Slots, s)
		}
	}
	return out
}
