package csrf

import (
	"fmt"
	"regexp"
)

// Rule is one compiled GET-validation pattern. Raw keeps the configured text
// for the injected client-side rule list.
type Rule struct {
	Pattern *regexp.Regexp
	Raw     string
}

// RuleSet is the ordered, immutable list of GET-validation rules. Rules are
// evaluated in configuration order; the first match decides that the request
// needs validation.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles the given patterns in order. Empty patterns are
// skipped, matching the original directive handler.
func NewRuleSet(patterns ...string) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]Rule, 0, len(patterns))}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRulePattern, p, err)
		}
		rs.rules = append(rs.rules, Rule{Pattern: re, Raw: p})
	}
	return rs, nil
}

// MatchURL reports whether any rule matches the request URL, assembled from
// host and path. The scheme is not reliably known behind proxies, so both
// http:// and https:// forms are tried against each rule.
func (rs *RuleSet) MatchURL(host, path string) bool {
	if rs == nil || len(rs.rules) == 0 {
		return false
	}
	plain := "http://" + host + path
	secure := "https://" + host + path
	for _, rule := range rs.rules {
		if rule.Pattern.MatchString(plain) || rule.Pattern.MatchString(secure) {
			return true
		}
	}
	return false
}

// Patterns returns the raw pattern texts in configuration order.
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, len(rs.rules))
	for i, rule := range rs.rules {
		out[i] = rule.Raw
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}
