// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Package listing reads and writes the numbered "<n>\t<path>\n" listing
// file vidir hands to the editor.
package listing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Peter0x44/vidir-c-portable/internal/vidirpath"
)

// writerBufferSize bounds the buffered writer used to write the
// listing file.
const writerBufferSize = 64 * 1024

// Write assigns 1-based line numbers to the surviving order of paths
// (after filtering out entries whose basename is "." or ".."), writes
// "<n>\t<display_path>\n" for each to w, and returns the resulting
// original[] listing indexed by line number minus one.
func Write(w io.Writer, paths []string) ([]string, error) {
	original := make([]string, 0, len(paths))
	for _, p := range paths {
		if vidirpath.IsDotOrDotDot(p) {
			continue
		}

		original = append(original, vidirpath.Normalize(p))
	}

	bw := bufio.NewWriterSize(w, writerBufferSize)
	for i, p := range original {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", i+1, p); err != nil {
			return nil, fmt.Errorf("write listing line %d: %w", i+1, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush listing: %w", err)
	}

	return original, nil
}
