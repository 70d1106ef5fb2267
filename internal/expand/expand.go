// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Package expand turns the collected path arguments into the flat,
// sorted list of entries vidir writes to the listing. Directories are
// expanded one level (non-recursive); files pass through unchanged.
package expand

import (
	"fmt"
	"os"
	"sort"

	"github.com/woozymasta/pathrules"

	"github.com/Peter0x44/vidir-c-portable/internal/vidirpath"
)

// Options configures expansion.
type Options struct {
	// Ignore is an ordered list of include/exclude rules applied to
	// directory children before sorting. A path collected directly as
	// a positional argument (not produced by directory expansion) is
	// never filtered by Ignore, matching the rest of the pipeline's
	// "collected paths are the user's explicit request" treatment.
	Ignore []pathrules.Rule
	// IgnoreMatcherOptions controls how Ignore is matched.
	IgnoreMatcherOptions pathrules.MatcherOptions
}

// Expand resolves each path in paths: a directory is replaced by its
// direct children (excluding "." and ".."), sorted byte-wise ascending;
// any other existing path (such as a file) is kept as-is; a path that
// cannot be stat'ed (such as a missing one) or a directory that cannot
// be read silently contributes nothing.
//
// A malformed Ignore rule set is reported once, up front, rather than
// per directory.
func Expand(paths []string, opts Options) ([]string, error) {
	var matcher *pathrules.Matcher
	if len(opts.Ignore) > 0 {
		m, err := pathrules.NewMatcher(opts.Ignore, opts.IgnoreMatcherOptions)
		if err != nil {
			return nil, fmt.Errorf("compile --exclude patterns: %w", err)
		}

		matcher = m
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		out = append(out, expandDir(p, matcher)...)
	}

	return out, nil
}

// expandDir lists the direct children of dir, applying matcher (if
// non-nil) and returning them sorted byte-wise ascending. A missing or
// unreadable directory yields nil, per spec: the listing is silently
// empty for that argument.
func expandDir(dir string, matcher *pathrules.Matcher) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if vidirpath.IsDotOrDotDot(name) {
			continue
		}

		full := vidirpath.Join(dir, name)
		if matcher != nil && !matcher.Included(full, entry.IsDir()) {
			continue
		}

		children = append(children, full)
	}

	sort.Sort(byBytes(children))

	return children
}

// byBytes sorts strings byte-wise ascending; when one string is a
// prefix of another the shorter one sorts first, matching Go's default
// string less-than (which already compares byte-wise), stated
// explicitly here because it is an invariant the planner and executor
// rely on.
type byBytes []string

func (b byBytes) Len() int           { return len(b) }
func (b byBytes) Less(i, j int) bool { return b[i] < b[j] }
func (b byBytes) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
