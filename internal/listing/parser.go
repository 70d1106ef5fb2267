// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

package listing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Peter0x44/vidir-c-portable/internal/vidirpath"
)

// Sentinel errors for listing-parse failures. Use errors.Is in callers;
// every malformed-line error wraps one of these with the offending line
// or value via fmt.Errorf("%w: ...", ...). A failure to read the
// listing itself is returned wrapped as "read listing: ..." instead.
var (
	// ErrNoTab means a non-empty line has no TAB separator.
	ErrNoTab = errors.New("line has no tab separator")
	// ErrBadLineNumber means the number field is not a non-empty
	// sequence of ASCII digits, or overflows an int.
	ErrBadLineNumber = errors.New("line number is not a valid integer")
	// ErrLineNumberRange means a parsed line number falls outside
	// [1, N].
	ErrLineNumberRange = errors.New("line number is out of range")
	// ErrDuplicateLine means the same line number appeared twice.
	ErrDuplicateLine = errors.New("duplicate line number")
)

// parserScanBufferSize is the initial capacity of the line scanner's
// buffer; it grows (up to maxScanTokenSize) for lines longer than this.
const parserScanBufferSize = 4096

// maxScanTokenSize bounds how large a single listing line may grow to
// (16 MiB, well above bufio.Scanner's 64 KiB default); a longer line
// makes Parse fail with a read error.
const maxScanTokenSize = 16 * 1024 * 1024

// Parse reads the edited listing from r and returns a map keyed by
// original line number 1..n, where edited[i] is the display-normalized
// target path for original line i, or absent (no entry) when that line
// was deleted.
//
// Parse aborts the whole read on the first malformed line: a line with
// no TAB, a non-digit or overflowing number field, a duplicate index,
// or an index outside [1, n].
func Parse(r io.Reader, n int) (map[int]string, error) {
	edited := make(map[int]string, n)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, parserScanBufferSize), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		idx, path, err := parseLine(line)
		if err != nil {
			return nil, err
		}

		if idx < 1 || idx > n {
			return nil, fmt.Errorf("%w: line number %d (valid range is [1, %d])", ErrLineNumberRange, idx, n)
		}

		if _, exists := edited[idx]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLine, idx)
		}

		edited[idx] = vidirpath.Normalize(path)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	return edited, nil
}

// parseLine splits one non-empty listing line into its line number and
// path fields.
func parseLine(line string) (int, string, error) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrNoTab, line)
	}

	numberField := line[:tab]
	if numberField == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrBadLineNumber, line)
	}

	for _, c := range numberField {
		if c < '0' || c > '9' {
			return 0, "", fmt.Errorf("%w: %q", ErrBadLineNumber, numberField)
		}
	}

	idx, err := strconv.Atoi(numberField)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q: %v", ErrBadLineNumber, numberField, err)
	}

	path := strings.TrimRight(line[tab+1:], " \t\r")

	return idx, path, nil
}
