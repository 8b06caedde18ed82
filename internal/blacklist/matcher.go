package blacklist

import (
	"github.com/go-logr/logr"

	"nbl/internal/domain"
)

// Strategy names the way a rule lined up against a test name.
type Strategy int

const (
	// StrategyNone means the rule did not match
	StrategyNone Strategy = iota
	// StrategyFullName: the rule is a suffix of the whole name
	StrategyFullName
	// StrategyOwner: the rule is a suffix of the class or module holding the callable
	StrategyOwner
	// StrategyAncestor: the rule is a suffix of an enclosing package or module
	StrategyAncestor
)

func (s Strategy) String() string {
	switch s {
	case StrategyFullName:
		return "full-name"
	case StrategyOwner:
		return "owner"
	case StrategyAncestor:
		return "ancestor"
	default:
		return "none"
	}
}

// Match reports whether rule excludes name and which strategy aligned it.
//
// Every strategy is the same segment-aligned suffix check applied to a
// shorter prefix of the name: the full name, the name without its callable,
// then each enclosing package in turn. A rule naming the top-level package
// therefore excludes the whole tree.
func Match(rule domain.Rule, name domain.QualifiedName) (Strategy, bool) {
	ruleSegs := rule.Segments()
	nameSegs := name.Segments()
	if len(ruleSegs) == 0 || len(nameSegs) == 0 {
		return StrategyNone, false
	}

	if hasSuffix(nameSegs, ruleSegs) {
		return StrategyFullName, true
	}
	owner := nameSegs[:len(nameSegs)-1]
	if hasSuffix(owner, ruleSegs) {
		return StrategyOwner, true
	}
	for end := len(owner) - 1; end >= len(ruleSegs); end-- {
		if hasSuffix(owner[:end], ruleSegs) {
			return StrategyAncestor, true
		}
	}
	return StrategyNone, false
}

// Matches reports whether rule excludes name.
func Matches(rule domain.Rule, name domain.QualifiedName) bool {
	_, ok := Match(rule, name)
	return ok
}

// IsBlacklisted reports whether any rule in rules excludes name.
func IsBlacklisted(rules domain.RuleSet, name domain.QualifiedName) bool {
	for _, rule := range rules {
		if Matches(rule, name) {
			return true
		}
	}
	return false
}

// hasSuffix compares whole segments, never partial strings.
func hasSuffix(segs, suffix []string) bool {
	if len(suffix) > len(segs) {
		return false
	}
	offset := len(segs) - len(suffix)
	for i, s := range suffix {
		if segs[offset+i] != s {
			return false
		}
	}
	return true
}

// Matcher holds an immutable rule set and reports exclusions to a logger.
type Matcher struct {
	rules domain.RuleSet
	log   logr.Logger
}

// NewMatcher creates a Matcher over rules.
func NewMatcher(rules domain.RuleSet, log logr.Logger) *Matcher {
	kept := make(domain.RuleSet, len(rules))
	copy(kept, rules)
	return &Matcher{rules: kept, log: log}
}

// Rules returns the active rules.
func (m *Matcher) Rules() domain.RuleSet {
	out := make(domain.RuleSet, len(m.rules))
	copy(out, m.rules)
	return out
}

// Explain returns the first rule that excludes name, with its strategy.
func (m *Matcher) Explain(name domain.QualifiedName) (domain.Rule, Strategy, bool) {
	for _, rule := range m.rules {
		if strategy, ok := Match(rule, name); ok {
			return rule, strategy, true
		}
	}
	return domain.Rule{}, StrategyNone, false
}

// IsBlacklisted reports whether any rule excludes name.
func (m *Matcher) IsBlacklisted(name domain.QualifiedName) bool {
	rule, strategy, ok := m.Explain(name)
	if ok {
		m.log.V(1).Info("blacklisted test", "test", name.String(), "rule", rule.String(), "strategy", strategy.String())
	}
	return ok
}
