// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package filter

import "strings"

// MatchesTags reports whether tags satisfies f, recursing through the
// sealed variant tree. MetricLiteral is never matched here — it is
// evaluated by the caller against the query's metric name directly, and
// always reports true within a tag match so it does not block an
// otherwise-passing ChainFilter.
func MatchesTags(f Filter, tags map[string]string) bool {
	return evalFilter(f, tags, make(map[string]bool))
}

// evalFilter is MatchesTags' recursive worker. matched accumulates the set
// of tag keys actually examined by a value-filter leaf as evaluation
// proceeds (spec.md's matched_keys out-parameter threaded through
// matches_tags) — a leaf short-circuited away by an And/Or never touches
// it. evalExplicitTags relies on this to size its "every tag referenced"
// check against what was truly examined, not what the tree could
// structurally reach.
func evalFilter(f Filter, tags map[string]string, matched map[string]bool) bool {
	switch v := f.(type) {
	case *ChainFilter:
		return evalChain(v, tags, matched)
	case *NotFilter:
		return !evalFilter(v.Inner, tags, matched)
	case *ExplicitTagsFilter:
		return evalExplicitTags(v, tags)
	case *TagValueLiteralOr:
		return evalTagValueLiteralOr(v, tags, matched)
	case *TagValueRegex:
		return evalTagValueRegex(v, tags, matched)
	case *TagValueWildcard:
		return evalTagValueWildcard(v, tags, matched)
	case *TagKeyLiteralOr:
		return evalTagKeyLiteralOr(v, tags, matched)
	case *MetricLiteral:
		return true
	default:
		return false
	}
}

func evalChain(c *ChainFilter, tags map[string]string, matched map[string]bool) bool {
	if len(c.Children) == 0 {
		return c.Op == And
	}
	switch c.Op {
	case And:
		for _, child := range c.Children {
			if !evalFilter(child, tags, matched) {
				return false
			}
		}
		return true
	default: // Or
		for _, child := range c.Children {
			if evalFilter(child, tags, matched) {
				return true
			}
		}
		return false
	}
}

// evalExplicitTags requires both directions: inner must match, and the set
// of keys inner actually examined while reaching that verdict must cover
// every key in tags — spec.md:76-79's "explicit" semantics. The matched
// set is evaluated dynamically (fresh per ExplicitTagsFilter, threaded
// through evalFilter's recursion) rather than read off DesiredTagKeys'
// static tree traversal, so a short-circuiting inner Or that never reaches
// one of its children correctly fails to cover tags named only by that
// unreached child.
func evalExplicitTags(e *ExplicitTagsFilter, tags map[string]string) bool {
	matched := make(map[string]bool)
	if !evalFilter(e.Inner, tags, matched) {
		return false
	}
	return len(matched) == len(tags)
}

func evalTagValueLiteralOr(f *TagValueLiteralOr, tags map[string]string, matched map[string]bool) bool {
	matched[f.Key] = true
	v, ok := tags[f.Key]
	if !ok {
		return false
	}
	for _, want := range f.Values {
		if v == want {
			return true
		}
	}
	return false
}

func evalTagValueRegex(f *TagValueRegex, tags map[string]string, matched map[string]bool) bool {
	matched[f.Key] = true
	v, ok := tags[f.Key]
	if !ok {
		return false
	}
	if f.MatchesAll {
		return true
	}
	return f.Pattern.MatchString(v)
}

func evalTagValueWildcard(f *TagValueWildcard, tags map[string]string, matched map[string]bool) bool {
	matched[f.Key] = true
	v, ok := tags[f.Key]
	if !ok {
		return false
	}
	if f.MatchesAll {
		return true
	}
	return wildcardMatch(v, f.Components, f.LeadingAny, f.TrailAny)
}

// wildcardMatch scans value for components in order, honoring anchors at
// the pattern's boundaries.
func wildcardMatch(value string, components []string, leadingAny, trailAny bool) bool {
	if len(components) == 0 {
		return leadingAny || trailAny || value == ""
	}

	pos := 0
	if !leadingAny {
		if !strings.HasPrefix(value, components[0]) {
			return false
		}
		pos = len(components[0])
		components = components[1:]
		if len(components) == 0 && !trailAny {
			return pos == len(value)
		}
	}

	for i, comp := range components {
		last := i == len(components)-1
		if last && !trailAny {
			if !strings.HasSuffix(value[pos:], comp) {
				return false
			}
			continue
		}
		idx := strings.Index(value[pos:], comp)
		if idx < 0 {
			return false
		}
		pos += idx + len(comp)
	}
	return true
}

// evalTagKeyLiteralOr matches when the tag map contains every listed key,
// regardless of value — the Open Question resolution:
// TagKeyFilter.matches(tags) = tags.contains_key(self.filter), generalized
// to the multi-key literal-or form (all keys must be present; "or" refers
// to alternative key SETS at a higher level of the tree, not per-key).
// Keys are marked examined in the order checked, so a short-circuited miss
// leaves later keys in the list unexamined.
func evalTagKeyLiteralOr(f *TagKeyLiteralOr, tags map[string]string, matched map[string]bool) bool {
	for _, k := range f.Keys {
		matched[k] = true
		if _, ok := tags[k]; !ok {
			return false
		}
	}
	return true
}

// DesiredTagKeys returns the set of tag keys f can ever reference,
// recursing through the tree. Used by planners deciding which tag columns
// a query needs to fetch. Unlike evalFilter's matched set, this is a
// static, structural traversal — it visits every branch of an Or/And
// regardless of short-circuiting.
func DesiredTagKeys(f Filter) map[string]bool {
	keys := make(map[string]bool)
	collectTagKeys(f, keys, false)
	return keys
}

// collectTagKeys recurses through f, adding the key each value-filter leaf
// references. negated tracks whether the leaf is reached through an odd
// number of enclosing NotFilters: per spec.md:85/SPEC_FULL.md §4.4, "a key
// under Not is omitted iff its value filter would match everything" — a
// negated universal-match leaf (Not(TagValueRegex{MatchesAll:true}) etc.)
// never actually constrains anything, so it contributes no key.
func collectTagKeys(f Filter, into map[string]bool, negated bool) {
	switch v := f.(type) {
	case *ChainFilter:
		for _, child := range v.Children {
			collectTagKeys(child, into, negated)
		}
	case *NotFilter:
		collectTagKeys(v.Inner, into, !negated)
	case *ExplicitTagsFilter:
		collectTagKeys(v.Inner, into, negated)
	case *TagValueLiteralOr:
		into[v.Key] = true
	case *TagValueRegex:
		if negated && v.MatchesAll {
			return
		}
		into[v.Key] = true
	case *TagValueWildcard:
		if negated && v.MatchesAll {
			return
		}
		into[v.Key] = true
	case *TagKeyLiteralOr:
		for _, k := range v.Keys {
			into[k] = true
		}
	}
}
