// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

package diag

import (
	"strings"
	"testing"
)

func TestPrintfAppendsNewlineAndFlushes(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	d := New(&buf)

	if err := d.Printf("vidir: %s", "something went wrong"); err != nil {
		t.Fatalf("Printf: %v", err)
	}

	want := "vidir: something went wrong\n"
	if buf.String() != want {
		t.Fatalf("buf = %q, want %q", buf.String(), want)
	}
}

func TestPrintfDoesNotDoubleNewline(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	d := New(&buf)

	if err := d.Printf("line\n"); err != nil {
		t.Fatalf("Printf: %v", err)
	}

	if buf.String() != "line\n" {
		t.Fatalf("buf = %q, want %q", buf.String(), "line\n")
	}
}

func TestWriteFlushesImmediately(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	d := New(&buf)

	n, err := d.Write([]byte("vidir: delete /tmp/gone: no such file\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len("vidir: delete /tmp/gone: no such file\n") {
		t.Fatalf("Write returned n = %d, want %d", n, len("vidir: delete /tmp/gone: no such file\n"))
	}

	want := "vidir: delete /tmp/gone: no such file\n"
	if buf.String() != want {
		t.Fatalf("buf = %q, want %q", buf.String(), want)
	}
}
