// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

package listing

import (
	"errors"
	"strings"
	"testing"
)

func TestWriteThenParseRoundTrip(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	original, err := Write(&buf, []string{"a", "b", "."})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := []string{"./a", "./b"}
	if len(original) != len(want) {
		t.Fatalf("original = %v, want %v", original, want)
	}
	for i := range want {
		if original[i] != want[i] {
			t.Fatalf("original[%d] = %q, want %q", i, original[i], want[i])
		}
	}

	if buf.String() != "1\t./a\n2\t./b\n" {
		t.Fatalf("written listing = %q", buf.String())
	}

	edited, err := Parse(strings.NewReader(buf.String()), len(original))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i, p := range original {
		if edited[i+1] != p {
			t.Fatalf("edited[%d] = %q, want %q (identity round-trip)", i+1, edited[i+1], p)
		}
	}
}

func TestParseReorderInvariance(t *testing.T) {
	t.Parallel()

	// Lines reordered in the file must not change the parsed mapping:
	// identity is by line number, never by file position.
	edited, err := Parse(strings.NewReader("2\t./b\n1\t./a\n"), 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if edited[1] != "./a" || edited[2] != "./b" {
		t.Fatalf("edited = %v, want {1:./a 2:./b}", edited)
	}
}

func TestParseDeleteIsAbsent(t *testing.T) {
	t.Parallel()

	edited, err := Parse(strings.NewReader("1\t./a\n"), 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, present := edited[2]; present {
		t.Fatalf("edited[2] should be absent (deleted), got %q", edited[2])
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      string
		n       int
		wantErr error
	}{
		{name: "no tab", in: "1 a\n", n: 1, wantErr: ErrNoTab},
		{name: "non digit", in: "1a\tx\n", n: 1, wantErr: ErrBadLineNumber},
		{name: "overflow", in: "99999999999999999999\tx\n", n: 1, wantErr: ErrBadLineNumber},
		{name: "out of range", in: "2\tx\n", n: 1, wantErr: ErrLineNumberRange},
		{name: "duplicate", in: "1\ta\n1\tb\n", n: 1, wantErr: ErrDuplicateLine},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tc.in), tc.n)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want %v", tc.in, tc.wantErr)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want wrapping %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestParseTrimsTrailingWhitespace(t *testing.T) {
	t.Parallel()

	edited, err := Parse(strings.NewReader("1\t./a  \t\r\n"), 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if edited[1] != "./a" {
		t.Fatalf("edited[1] = %q, want %q", edited[1], "./a")
	}
}
