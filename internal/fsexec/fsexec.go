// SPDX-License-Identifier: MIT
// Copyright (c) 2026 vidir-c-portable contributors

// Package fsexec executes a plan.Action sequence against the real
// filesystem, tracking a projected overlay so later actions in the
// same run never re-stat paths earlier actions already touched. The
// overlay is seeded before the first action runs by marking every
// Rename and Unstash destination as "will exist", then kept current as
// each action applies.
package fsexec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Peter0x44/vidir-c-portable/internal/plan"
)

// FS is the capability set fsexec needs from the filesystem. It is
// satisfied by OSFileSystem for real runs and can be faked in tests.
type FS interface {
	Exists(path string) bool
	IsDir(path string) bool
	Rename(oldpath, newpath string) error
	Delete(path string) error
	MkdirAll(dir string) error
}

// OSFileSystem implements FS against the real operating system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

func (OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFileSystem) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return err
	}
	return nil
}

func (OSFileSystem) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o750)
}

// overlayState is the projected state of a path after actions already
// applied this run have been accounted for.
type overlayState int

const (
	overlayUnknown overlayState = iota
	overlayExists
	overlayDeleted
)

// ErrDeleteFailed is returned by Run when every other action in the
// plan succeeded but at least one Delete failed; deletes are
// non-blocking (the plan keeps running), but the run as a whole still
// ends in failure.
var ErrDeleteFailed = errors.New("one or more deletes failed")

// Executor applies a plan against fs, narrating each action to log
// when verbose is set and reporting delete failures to diag as they
// happen (deletes are the plan's only non-blocking action).
type Executor struct {
	fs      FS
	verbose bool
	log     io.Writer
	diag    io.Writer

	overlay    map[string]overlayState
	stashNames []string
}

// New builds an Executor. log receives verbose narration lines (one
// per executed action) when verbose is true; it is never written to
// otherwise. diag receives one line per failed Delete, regardless of
// verbose, matching the plan's continue-on-delete-error policy.
func New(fs FS, verbose bool, log io.Writer, diag io.Writer) *Executor {
	return &Executor{
		fs:      fs,
		verbose: verbose,
		log:     log,
		diag:    diag,
		overlay: make(map[string]overlayState),
	}
}

// Run executes actions in order. A failing Rename, Stash, or Unstash
// aborts the remaining plan immediately. A failing Delete is reported
// to diag and the plan continues; if any Delete failed, Run still
// returns a non-nil error once the whole plan has run, so the process
// exits non-zero.
func (e *Executor) Run(actions []plan.Action) error {
	e.seedOverlay(actions)

	var deleteFailed bool

	for _, a := range actions {
		del, isDelete := a.(plan.Delete)
		if !isDelete {
			if err := e.apply(a); err != nil {
				return err
			}
			continue
		}

		if err := e.applyDelete(del); err != nil {
			deleteFailed = true
			if e.diag != nil {
				fmt.Fprintf(e.diag, "vidir: %v\n", err)
			}
		}
	}

	if deleteFailed {
		return ErrDeleteFailed
	}
	return nil
}

// seedOverlay marks every Rename and Unstash destination in the whole
// plan as "will exist" before any action runs, so freeStashName's
// collision probing never needs a live stat for a path this same plan
// is about to create.
func (e *Executor) seedOverlay(actions []plan.Action) {
	for _, a := range actions {
		switch act := a.(type) {
		case plan.Rename:
			e.overlay[act.Dst] = overlayExists
		case plan.Unstash:
			e.overlay[act.Dst] = overlayExists
		}
	}
}

func (e *Executor) apply(a plan.Action) error {
	switch act := a.(type) {
	case plan.Rename:
		return e.applyRename(act)
	case plan.Stash:
		return e.applyStash(act)
	case plan.Unstash:
		return e.applyUnstash(act)
	default:
		return fmt.Errorf("fsexec: unknown action type %T", a)
	}
}

func (e *Executor) applyDelete(a plan.Delete) error {
	err := e.fs.Delete(a.Src)
	if err != nil && !(os.IsNotExist(err) && e.overlay[a.Src] == overlayDeleted) {
		return fmt.Errorf("delete %s: %w", a.Src, err)
	}

	e.overlay[a.Src] = overlayDeleted
	e.narrate("delete", a.Src, "")
	return nil
}

func (e *Executor) applyRename(a plan.Rename) error {
	if err := e.renameWithParents(a.Src, a.Dst); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", a.Src, a.Dst, err)
	}

	e.overlay[a.Src] = overlayDeleted
	e.overlay[a.Dst] = overlayExists
	e.narrate("rename", a.Src, a.Dst)
	return nil
}

func (e *Executor) applyStash(a plan.Stash) error {
	name := e.freeStashName(a.Src)

	if err := e.renameWithParents(a.Src, name); err != nil {
		return fmt.Errorf("stash %s: %w", a.Src, err)
	}

	e.overlay[a.Src] = overlayDeleted
	e.overlay[name] = overlayExists
	e.stashNames = append(e.stashNames, name)
	e.narrate("stash", a.Src, name)
	return nil
}

func (e *Executor) applyUnstash(a plan.Unstash) error {
	if len(e.stashNames) == 0 {
		return errors.New("fsexec: unstash with empty stash stack")
	}

	name := e.stashNames[len(e.stashNames)-1]
	e.stashNames = e.stashNames[:len(e.stashNames)-1]

	if err := e.renameWithParents(name, a.Dst); err != nil {
		return fmt.Errorf("unstash -> %s: %w", a.Dst, err)
	}

	e.overlay[name] = overlayDeleted
	e.overlay[a.Dst] = overlayExists
	e.narrate("unstash", name, a.Dst)
	return nil
}

// renameWithParents creates dst's parent directory if needed before
// renaming, mirroring the teacher's create-parent-then-write ordering
// for extracted entries.
func (e *Executor) renameWithParents(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." && dir != "/" {
		if err := e.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create parent dir %s: %w", dir, err)
		}
	}
	return e.fs.Rename(src, dst)
}

// freeStashName generates a name for src that is free both in the
// projected overlay and on disk, incrementing a numeric suffix off of
// src's own name: src.vidir-stash~, src.vidir-stash~1,
// src.vidir-stash~2, ….
func (e *Executor) freeStashName(src string) string {
	counter := 0
	for {
		var candidate string
		if counter == 0 {
			candidate = src + ".vidir-stash~"
		} else {
			candidate = fmt.Sprintf("%s.vidir-stash~%d", src, counter)
		}
		counter++

		if e.pathExists(candidate) {
			continue
		}
		return candidate
	}
}

// pathExists consults the overlay first; by the time any action runs,
// seedOverlay has already entered every Rename/Unstash destination, so
// the live fs.Exists fallback below is only ever reached for a path
// that is neither a pending destination nor already touched this run.
func (e *Executor) pathExists(path string) bool {
	switch e.overlay[path] {
	case overlayExists:
		return true
	case overlayDeleted:
		return false
	default:
		return e.fs.Exists(path)
	}
}

func (e *Executor) narrate(op, src, dst string) {
	if !e.verbose || e.log == nil {
		return
	}
	if dst == "" {
		fmt.Fprintf(e.log, "%s %s\n", op, src)
		return
	}
	fmt.Fprintf(e.log, "%s %s -> %s\n", op, src, dst)
}
