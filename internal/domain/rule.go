package domain

import "strings"

// Rule is one blacklist pattern split into dot-separated segments.
type Rule struct {
	segments []string
}

// ParseRule builds a Rule from one line or argument. Blank lines and lines
// whose first non-whitespace character is '#' yield ok == false.
func ParseRule(line string) (rule Rule, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}
	segments := splitSegments(line)
	if len(segments) == 0 {
		return Rule{}, false
	}
	return Rule{segments: segments}, true
}

// Segments returns a copy of the rule segments.
func (r Rule) Segments() []string {
	out := make([]string, len(r.segments))
	copy(out, r.segments)
	return out
}

// Len returns the number of segments.
func (r Rule) Len() int { return len(r.segments) }

func (r Rule) String() string {
	return strings.Join(r.segments, ".")
}

// RuleSet is the union of all active rules. Duplicates are harmless.
type RuleSet []Rule

// Merge returns the union of both sets, keeping order.
func (rs RuleSet) Merge(other RuleSet) RuleSet {
	merged := make(RuleSet, 0, len(rs)+len(other))
	merged = append(merged, rs...)
	return append(merged, other...)
}

// Strings returns the dotted form of every rule.
func (rs RuleSet) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}
