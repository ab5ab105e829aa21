package breadcrumb

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchPolicy controls how ExceptRoutes patterns are compared with the
// requested route.
type MatchPolicy string

const (
	// MatchSubstring rejects when the route contains the pattern.
	MatchSubstring MatchPolicy = "substring"
	// MatchRegex rejects when the pattern, as a regular expression, matches
	// anywhere in the route.
	MatchRegex MatchPolicy = "regex"
)

func (p MatchPolicy) normalize() MatchPolicy {
	if p == "" {
		return MatchSubstring
	}

	return p
}

func (p MatchPolicy) valid() bool {
	switch p.normalize() {
	case MatchSubstring, MatchRegex:
		return true
	default:
		return false
	}
}

func (p MatchPolicy) String() string {
	return string(p.normalize())
}

// exceptRule is one compiled ExceptRoutes entry.
type exceptRule struct {
	pattern string
	all     bool
	re      *regexp.Regexp
}

func (r exceptRule) matches(route string) bool {
	switch {
	case r.all:
		return true
	case r.re != nil:
		return r.re.MatchString(route)
	default:
		return strings.Contains(route, r.pattern)
	}
}

// compileExcept prepares patterns for repeated evaluation.
func compileExcept(patterns []string, policy MatchPolicy) ([]exceptRule, error) {
	rules := make([]exceptRule, 0, len(patterns))

	for i, p := range patterns {
		rule := exceptRule{pattern: p}

		switch {
		case p == ExceptAll:
			rule.all = true
		case policy.normalize() == MatchRegex:
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, &ConfigError{
					Field:  fmt.Sprintf("%s[%d]", fieldExceptRoutes, i),
					Reason: fmt.Sprintf("invalid pattern %q: %v", p, err),
				}
			}

			rule.re = re
		}

		rules = append(rules, rule)
	}

	return rules, nil
}
