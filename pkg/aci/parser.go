package aci

import "strings"

// ParseOptions tunes how Parse fills fields the text does not determine.
type ParseOptions struct {
	// DefaultCombinator is used when the text joins no conditions with and/or.
	DefaultCombinator Combinator
}

// Parse decomposes ACI text into a Policy. It never fails: clauses that are
// absent or malformed are left out of the result.
//
// Targets keep the order in which they appear in the text, so that building
// a parsed policy reproduces the clause order. The first clause of each kind
// wins, except that targetscope replaces an earlier legacy scope.
func Parse(text string) Policy {
	return ParseWith(text, ParseOptions{})
}

// ParseWith is Parse with explicit options.
func ParseWith(text string, opts ParseOptions) Policy {
	p, _ := ParseWithReport(text, opts)
	return p
}

// ParseWithReport is ParseWith that also lists the constructs it consumed but
// could not represent: negated targets, comparison bind rules, negated groups,
// mixed and/or, unknown permissions and keywords, repeated target kinds and
// additional permission rules. The returned policy is the same as ParseWith's.
func ParseWithReport(text string, opts ParseOptions) (Policy, ParseReport) {
	st := &parseState{
		src:    text,
		toks:   Tokenize(text),
		policy: Policy{RawText: text},
	}
	st.policy.Bind.Combinator = opts.DefaultCombinator
	st.run()
	return st.policy, st.report
}

type parseState struct {
	src    string
	toks   []Token
	policy Policy
	report ParseReport

	haveName        bool
	haveEffect      bool
	haveCombinator  bool
	mixedCombinator bool
	legacyScopeSeen bool
}

func (st *parseState) run() {
	for i := 0; i < len(st.toks); {
		i += st.step(i)
	}
}

// step consumes the construct starting at toks[i] and returns how many tokens it used.
func (st *parseState) step(i int) int {
	t := st.toks[i]
	switch {
	case t.Kind == LParen:
		if n, ok := st.target(i); ok {
			return n
		}
	case t.Is("acl"):
		if st.kind(i+1) == Quoted {
			if !st.haveName {
				st.policy.Name = st.toks[i+1].Text
				st.haveName = true
			}
			return 2
		}
	case t.Is("allow"), t.Is("deny"):
		return st.effect(i)
	case t.Is("and"), t.Is("or"):
		st.combinator(i)
	case t.Is("not") && st.kind(i+1) == LParen:
		return st.negatedGroup(i)
	case t.Kind == Word:
		if n, ok := st.condition(i, false); ok {
			return n
		}
	}
	return 1
}

func (st *parseState) kind(i int) TokenKind {
	if i < 0 || i >= len(st.toks) {
		return -1
	}
	return st.toks[i].Kind
}

// skip records toks[from..to] as left out of the policy.
func (st *parseState) skip(reason SkipReason, from, to int) {
	start := st.toks[from].Pos
	end := len(st.src)
	if to+1 < len(st.toks) {
		end = st.toks[to+1].Pos
	}
	st.report.Skipped = append(st.report.Skipped, Skip{
		Reason: reason,
		Text:   strings.TrimSpace(st.src[start:end]),
		Pos:    start,
	})
}

// target matches `( keyword = "value" )` at i.
func (st *parseState) target(i int) (int, bool) {
	if st.kind(i+1) != Word || st.kind(i+3) != Quoted || st.kind(i+4) != RParen {
		return 0, false
	}
	op := st.kind(i + 2)
	if op != Equals && op != NotEquals {
		return 0, false
	}
	kw := st.toks[i+1].Text
	kind, ok := ParseTargetKind(kw)
	if !ok {
		return 0, false
	}
	if op == NotEquals {
		st.skip(SkipNegatedTarget, i, i+4)
		return 5, true
	}

	value := st.toks[i+3].Text
	if kind == Target {
		value = StripLDAPPrefix(value)
	}
	clause := NewTarget(kind, value)
	if clause.IsEmpty() {
		return 5, true
	}
	legacy := kind == TargetScope && !strings.EqualFold(kw, "targetscope")

	for idx, existing := range st.policy.Targets {
		if existing.Kind != kind {
			continue
		}
		switch {
		case kind == TargetScope && st.legacyScopeSeen && !legacy:
			st.policy.Targets[idx] = clause
			st.legacyScopeSeen = false
		case kind == TargetScope && legacy && !st.legacyScopeSeen:
			// targetscope already set; the legacy keyword yields to it
		default:
			st.skip(SkipDuplicateTarget, i, i+4)
		}
		return 5, true
	}
	st.policy.Targets = append(st.policy.Targets, clause)
	if legacy {
		st.legacyScopeSeen = true
	}
	return 5, true
}

// effect handles `allow|deny ( perm, ... )` at i. Only the first effect counts.
func (st *parseState) effect(i int) int {
	first := !st.haveEffect
	if first {
		st.policy.Effect, _ = ParseEffect(st.toks[i].Text)
		st.haveEffect = true
	}
	if st.kind(i+1) != LParen {
		if !first {
			st.skip(SkipExtraRule, i, i)
		}
		return 1
	}

	j := i + 2
	var names []int
	for ; j < len(st.toks); j++ {
		k := st.kind(j)
		if k == RParen {
			j++
			break
		}
		if k == Semicolon {
			break
		}
		if k == Word {
			names = append(names, j)
		}
	}

	if !first {
		st.skip(SkipExtraRule, i, j-1)
		return j - i
	}
	for _, idx := range names {
		p, ok := ParsePermission(st.toks[idx].Text)
		if !ok {
			st.skip(SkipUnknownPermission, idx, idx)
			continue
		}
		st.policy.Permissions = st.policy.Permissions.Add(p)
	}
	return j - i
}

// combinator handles an and/or word at i. The first one after a condition
// sets the combinator; a later different one cannot be represented.
func (st *parseState) combinator(i int) {
	if len(st.policy.Bind.Conditions) == 0 {
		return
	}
	c, _ := ParseCombinator(st.toks[i].Text)
	switch {
	case !st.haveCombinator:
		st.policy.Bind.Combinator = c
		st.haveCombinator = true
	case c != st.policy.Bind.Combinator && !st.mixedCombinator:
		st.mixedCombinator = true
		st.skip(SkipMixedCombinators, i, i)
	}
}

// negatedGroup handles `not ( ... )` at i. A group holding one condition
// negates that condition; a larger group is left out.
func (st *parseState) negatedGroup(i int) int {
	open := i + 1
	if st.kind(open+1) == Word && st.kind(open+4) == RParen {
		if n, ok := st.condition(open+1, true); ok && n == 3 {
			return 5
		}
	}
	end := st.closingParen(open)
	st.skip(SkipNegatedGroup, i, end)
	return end - i + 1
}

// closingParen returns the index of the paren closing toks[open], or the last
// token of the rule when it is never closed.
func (st *parseState) closingParen(open int) int {
	depth := 0
	for j := open; j < len(st.toks); j++ {
		switch st.toks[j].Kind {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return j
			}
		case Semicolon:
			return j - 1
		}
	}
	return len(st.toks) - 1
}

// condition matches `[not] keyword =|!= "value"` at i. negate flips the result
// once more for a condition wrapped in `not ( )`.
func (st *parseState) condition(i int, negate bool) (int, bool) {
	op := st.kind(i + 1)
	if (op != Equals && op != NotEquals && op != Operator) || st.kind(i+2) != Quoted {
		return 0, false
	}
	kind, ok := ParseBindKind(st.toks[i].Text)
	switch {
	case !ok:
		st.skip(SkipUnrecognized, i, i+2)
		return 3, true
	case op == Operator:
		st.skip(SkipComparison, i, i+2)
		return 3, true
	}

	value := st.toks[i+2].Text
	if kind.IsDN() {
		value = StripLDAPPrefix(value)
	}
	negated := op == NotEquals
	if negate {
		negated = !negated
	}
	if i > 0 && st.toks[i-1].Is("not") {
		negated = !negated
	}
	st.policy.Bind.Conditions = append(st.policy.Bind.Conditions, BindCondition{
		Kind:    kind,
		Value:   value,
		Negated: negated,
	})
	return 3, true
}
