// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestEntryMatcherNilMatchesEverything(t *testing.T) {
	t.Parallel()

	m, err := newEntryMatcher(nil, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("newEntryMatcher: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil matcher for empty rules, got %+v", m)
	}
	if !m.Included("Engine/Content/Foo.uasset") {
		t.Fatalf("nil matcher should include everything")
	}
}

func TestEntryMatcherIncludeExclude(t *testing.T) {
	t.Parallel()

	rules := []pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "Engine/**"},
		{Action: pathrules.ActionExclude, Pattern: "Engine/Intermediate/**"},
	}
	opts := pathrules.MatcherOptions{CaseInsensitive: true, DefaultAction: pathrules.ActionExclude}

	m, err := newEntryMatcher(rules, opts)
	if err != nil {
		t.Fatalf("newEntryMatcher: %v", err)
	}

	testCases := []struct {
		path string
		want bool
	}{
		{path: "Engine/Content/Foo.uasset", want: true},
		{path: "Engine/Intermediate/Build/Foo.obj", want: false},
		{path: "Game/Content/Bar.uasset", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			if got := m.Included(tc.path); got != tc.want {
				t.Fatalf("Included(%q)=%v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
