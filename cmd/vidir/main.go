// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Command vidir lets you rename, move, and delete files by editing a
// numbered listing of them in your editor.
package main

import (
	"io"
	"os"

	"github.com/woozymasta/pathrules"

	"github.com/Peter0x44/vidir-c-portable/internal/collect"
	"github.com/Peter0x44/vidir-c-portable/internal/diag"
	"github.com/Peter0x44/vidir-c-portable/internal/editor"
	"github.com/Peter0x44/vidir-c-portable/internal/expand"
	"github.com/Peter0x44/vidir-c-portable/internal/fsexec"
	"github.com/Peter0x44/vidir-c-portable/internal/listing"
	"github.com/Peter0x44/vidir-c-portable/internal/plan"
)

func main() {
	d := diag.New(os.Stderr)

	if err := run(os.Args[1:], os.Stdin, d); err != nil {
		_ = d.Printf("vidir: %v", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, d *diag.Writer) error {
	collected, err := collect.Collect(args, stdin)
	if err != nil {
		return err
	}

	expandOpts := expand.Options{}
	if len(collected.ExcludePatterns) > 0 {
		rules := make([]pathrules.Rule, 0, len(collected.ExcludePatterns))
		for _, p := range collected.ExcludePatterns {
			rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
		}
		expandOpts.Ignore = rules
		expandOpts.IgnoreMatcherOptions = pathrules.MatcherOptions{DefaultAction: pathrules.ActionInclude}
	}

	paths, err := expand.Expand(collected.Paths, expandOpts)
	if err != nil {
		return err
	}

	sess, err := editor.Create("")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			_ = d.Printf("vidir: %v", cerr)
		}
	}()

	var original []string
	if err := sess.Write(func(w io.Writer) error {
		wrote, werr := listing.Write(w, paths)
		original = wrote
		return werr
	}); err != nil {
		return err
	}

	editorCmd := editor.Resolve(os.Getenv)
	edited, err := sess.Invoke(editorCmd)
	if err != nil {
		return err
	}

	parsed, err := listing.Parse(edited, len(original))
	if err != nil {
		return err
	}

	actions, err := plan.Compute(original, parsed, fsexec.OSFileSystem{}.Exists)
	if err != nil {
		return err
	}

	ex := fsexec.New(fsexec.OSFileSystem{}, collected.Verbose, os.Stdout, d)
	if err := ex.Run(actions); err != nil {
		return err
	}

	return nil
}
