// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package ast

// coalesceSimple flattens adjacent Literal simple-words within one quoting
// context into a single literal, via a generic pairwise fold: given two
// adjacent items, either combine them into one or leave both unchanged,
// always preserving the right operand as the seed for the next attempt.
func coalesceSimple(words []SimpleWord) []SimpleWord {
	if len(words) < 2 {
		return words
	}
	out := make([]SimpleWord, 0, len(words))
	cur := words[0]
	for _, next := range words[1:] {
		if merged, ok := mergeSimple(cur, next); ok {
			cur = merged
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

func mergeSimple(a, b SimpleWord) (SimpleWord, bool) {
	if a.Kind == SWLiteral && b.Kind == SWLiteral {
		return SimpleWord{Kind: SWLiteral, Literal: a.Literal + b.Literal}, true
	}
	return SimpleWord{}, false
}

// coalesceWords flattens adjacent SingleQuoted/DoubleQuoted words of the
// same kind within a Concat, using the same pairwise-fold discipline.
func coalesceWords(words []Word) []Word {
	if len(words) < 2 {
		return words
	}
	out := make([]Word, 0, len(words))
	cur := words[0]
	for _, next := range words[1:] {
		if merged, ok := mergeWord(cur, next); ok {
			cur = merged
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

func mergeWord(a, b Word) (Word, bool) {
	switch {
	case a.Kind == WSimple && b.Kind == WSimple &&
		a.Simple.Kind == SWLiteral && b.Simple.Kind == SWLiteral:
		return Word{Kind: WSimple, Simple: &SimpleWord{
			Kind:    SWLiteral,
			Literal: a.Simple.Literal + b.Simple.Literal,
		}}, true
	case a.Kind == WSingleQuoted && b.Kind == WSingleQuoted:
		return Word{Kind: WSingleQuoted, SingleQuoted: a.SingleQuoted + b.SingleQuoted}, true
	case a.Kind == WDoubleQuoted && b.Kind == WDoubleQuoted:
		merged := append(append([]SimpleWord{}, a.DoubleQuoted...), b.DoubleQuoted...)
		return Word{Kind: WDoubleQuoted, DoubleQuoted: coalesceSimple(merged)}, true
	default:
		return Word{}, false
	}
}

// NewComplexWord builds a ComplexWord from a sequence of Words, coalescing
// adjacent mergeable words first and dropping the Concat wrapper when only
// one word remains.
func NewComplexWord(words []Word) ComplexWord {
	coalesced := coalesceWords(words)
	if len(coalesced) == 1 {
		w := coalesced[0]
		return ComplexWord{Single: &w}
	}
	return ComplexWord{Concat: coalesced}
}
