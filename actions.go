package custodykit

import (
	"strings"
)

// ActionMatcher handles action matching with wildcard support.
//
// Supported patterns:
//   - "*" matches all actions
//   - "records.*" matches all operations on records ("records.create", ...)
//   - "*.read" matches the read operation on all resources
//   - "records.create" matches exactly
type ActionMatcher struct{}

// NewActionMatcher creates a new ActionMatcher.
func NewActionMatcher() *ActionMatcher {
	return &ActionMatcher{}
}

// Match checks if an action pattern matches a required action.
//
// Examples:
//
//	Match("*", "records.read")              // true - wildcard matches all
//	Match("records.*", "records.create")    // true - resource wildcard
//	Match("*.read", "roster.read")          // true - operation wildcard
//	Match("records.read", "records.read")   // true - exact match
//	Match("records.*", "access.grant")      // false - different resource
func (am *ActionMatcher) Match(pattern, action string) bool {
	// Exact match
	if pattern == action {
		return true
	}

	// Universal wildcard
	if pattern == "*" {
		return true
	}

	patternParts := strings.Split(pattern, ".")
	actionParts := strings.Split(action, ".")

	// Must have same number of parts (or pattern is just "*")
	if len(patternParts) != len(actionParts) {
		return false
	}

	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}
		if pp != actionParts[i] {
			return false
		}
	}

	return true
}

// MatchAny checks if any of the patterns match the required action.
func (am *ActionMatcher) MatchAny(patterns []string, action string) bool {
	for _, pattern := range patterns {
		if am.Match(pattern, action) {
			return true
		}
	}
	return false
}

// defaultMatcher is the shared matcher used by package-level helpers.
var defaultMatcher = NewActionMatcher()

// MatchAction checks if a single pattern matches an action.
func MatchAction(pattern, action string) bool {
	return defaultMatcher.Match(pattern, action)
}

// MatchAnyAction checks if any of the patterns match an action.
func MatchAnyAction(patterns []string, action string) bool {
	return defaultMatcher.MatchAny(patterns, action)
}
