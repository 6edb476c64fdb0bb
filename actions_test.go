package custodykit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestActionMatcherMatch tests the wildcard matching rules
func TestActionMatcherMatch(t *testing.T) {
	matcher := NewActionMatcher()

	tests := []struct {
		name     string
		pattern  string
		action   string
		expected bool
	}{
		{"Exact match", "records.read", "records.read", true},
		{"Exact mismatch", "records.read", "records.create", false},
		{"Universal wildcard", "*", "records.read", true},
		{"Universal wildcard deep action", "*", "records.sub.read", true},
		{"Resource wildcard match", "records.*", "records.create", true},
		{"Resource wildcard mismatch", "records.*", "access.grant", false},
		{"Operation wildcard match", "*.read", "roster.read", true},
		{"Operation wildcard mismatch", "*.read", "roster.list", false},
		{"Part count mismatch", "records.*", "records.sub.read", false},
		{"Empty pattern", "", "records.read", false},
		{"Empty action", "records.read", "", false},
		{"Both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matcher.Match(tt.pattern, tt.action))
		})
	}
}

// TestActionMatcherMatchAny tests matching against a pattern list
func TestActionMatcherMatchAny(t *testing.T) {
	matcher := NewActionMatcher()

	patterns := []string{"records.read", "access.*"}
	assert.True(t, matcher.MatchAny(patterns, "records.read"))
	assert.True(t, matcher.MatchAny(patterns, "access.grant"))
	assert.False(t, matcher.MatchAny(patterns, "records.create"))
	assert.False(t, matcher.MatchAny(nil, "records.read"))
	assert.False(t, matcher.MatchAny([]string{}, "records.read"))
}

// TestPackageLevelMatchers tests the package-level convenience functions
func TestPackageLevelMatchers(t *testing.T) {
	assert.True(t, MatchAction("records.*", "records.update"))
	assert.False(t, MatchAction("records.*", "roster.read"))
	assert.True(t, MatchAnyAction([]string{"*"}, "anything.goes"))
	assert.False(t, MatchAnyAction([]string{"doctors.vet"}, "doctors.suspend"))
}
