// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// entryMatcher holds compiled entry-selection rules used by List and
// ParallelExtract to narrow which archive paths are visited.
type entryMatcher struct {
	matcher *pathrules.Matcher
}

// newEntryMatcher compiles rules, or returns a nil matcher (matching
// everything) when rules is empty.
func newEntryMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryMatcher, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("compile entry selection rules: %w", err)
	}

	return &entryMatcher{matcher: matcher}, nil
}

// Included reports whether path should be selected. A nil matcher selects
// everything.
func (m *entryMatcher) Included(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}
	return m.matcher.Included(path, false)
}
