// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Package vidirpath normalizes filesystem paths to the stable display
// form vidir writes to and reads back from the listing file.
package vidirpath

import "strings"

// Normalize converts raw to vidir's display form: relative paths (no
// leading "/" and no "<letter>:" drive prefix) gain a leading "./";
// absolute paths and drive-letter paths are returned unchanged besides
// trimming trailing whitespace. Normalize is idempotent: Normalize(
// Normalize(p)) == Normalize(p) for any p.
func Normalize(raw string) string {
	raw = strings.TrimRight(raw, " \t\r")
	if raw == "" {
		return raw
	}

	if strings.HasPrefix(raw, "./") {
		return raw
	}

	if isAbsolute(raw) {
		return raw
	}

	return "./" + raw
}

// isAbsolute reports whether path is a POSIX absolute path ("/...") or a
// Windows drive-letter path ("C:..."), neither of which receives a "./"
// prefix per the display-normalization rule.
func isAbsolute(path string) bool {
	if strings.HasPrefix(path, "/") {
		return true
	}

	return hasDriveLetterPrefix(path)
}

// hasDriveLetterPrefix reports whether path starts with "<letter>:".
func hasDriveLetterPrefix(path string) bool {
	if len(path) < 2 {
		return false
	}

	c := path[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && path[1] == ':'
}

// Basename returns the final slash-separated segment of path, mirroring
// the basename vidir uses to decide whether an expanded entry is "."
// or "..".
func Basename(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return path
	}

	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}

	return trimmed
}

// IsDotOrDotDot reports whether basename(path) is "." or "..".
func IsDotOrDotDot(path string) bool {
	base := Basename(path)
	return base == "." || base == ".."
}

// Join joins a directory and a child name with "/", matching the
// separator the expander and listing use throughout (paths are compared
// and sorted byte-wise, independent of the host's os.PathSeparator).
func Join(dir, name string) string {
	if dir == "" {
		return name
	}

	if strings.HasSuffix(dir, "/") {
		return dir + name
	}

	return dir + "/" + name
}
