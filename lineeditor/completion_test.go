// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFileCompletionCandidates(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.WriteFile(filepath.Join(dir, "foo.txt"), nil, 0o644), qt.IsNil)
	qt.Assert(t, os.WriteFile(filepath.Join(dir, "foobar.go"), nil, 0o644), qt.IsNil)
	qt.Assert(t, os.Mkdir(filepath.Join(dir, "foodir"), 0o755), qt.IsNil)

	fc := &FileCompletion{baseDir: dir}
	got := fc.Candidates([]string{"fo"})
	sort.Strings(got)
	qt.Assert(t, got, qt.DeepEquals, []string{"o.txt", "obar.go", "odir"})
}

func TestFileCompletionAddsSlashOnlyForSoleDirCandidate(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.Mkdir(filepath.Join(dir, "uniq"), 0o755), qt.IsNil)

	fc := &FileCompletion{baseDir: dir}
	got := fc.Candidates([]string{"uni"})
	qt.Assert(t, got, qt.DeepEquals, []string{"q/"})
}

func TestFileCompletionNoSlashWhenMultipleDirCandidates(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.Mkdir(filepath.Join(dir, "dup1"), 0o755), qt.IsNil)
	qt.Assert(t, os.Mkdir(filepath.Join(dir, "dup2"), 0o755), qt.IsNil)

	fc := &FileCompletion{baseDir: dir}
	got := fc.Candidates([]string{"dup"})
	sort.Strings(got)
	qt.Assert(t, got, qt.DeepEquals, []string{"1", "2"})
}

func TestFileCompletionTrailingSlashListsWholeDir(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755), qt.IsNil)
	qt.Assert(t, os.WriteFile(filepath.Join(dir, "sub", "a"), nil, 0o644), qt.IsNil)

	fc := &FileCompletion{baseDir: dir}
	got := fc.Candidates([]string{"sub/"})
	qt.Assert(t, got, qt.DeepEquals, []string{"a"})
}

func TestFileCompletionEscapesMetaChars(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.WriteFile(filepath.Join(dir, "a b"), nil, 0o644), qt.IsNil)

	fc := &FileCompletion{baseDir: dir}
	got := fc.Candidates([]string{"a"})
	qt.Assert(t, got, qt.DeepEquals, []string{`\ b`})
}

func TestCommandCompletionFirstWord(t *testing.T) {
	cc := NewCommandCompletion([]string{"echo", "export", "exit"}, &FileCompletion{})
	got := cc.Candidates([]string{"ex"})
	sort.Strings(got)
	qt.Assert(t, got, qt.DeepEquals, []string{"it", "port"})
}

func TestCommandCompletionFallsBackToFiles(t *testing.T) {
	dir := t.TempDir()
	qt.Assert(t, os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644), qt.IsNil)

	cc := NewCommandCompletion([]string{"cat"}, &FileCompletion{baseDir: dir})
	got := cc.Candidates([]string{"cat", "read"})
	qt.Assert(t, got, qt.DeepEquals, []string{"me.md"})
}

func TestCommandCompletionSudoDelegatesToCommandList(t *testing.T) {
	cc := NewCommandCompletion([]string{"echo"}, &FileCompletion{})
	got := cc.Candidates([]string{"sudo", "ec"})
	qt.Assert(t, got, qt.DeepEquals, []string{"ho"})
}

func TestCompletionEngineCycling(t *testing.T) {
	stub := stubCompleter{out: []string{"a", "b", "c"}}
	eng := newCompletionEngine(stub)
	qt.Assert(t, eng.cleared(), qt.IsTrue)

	eng.update("cmd ")
	qt.Assert(t, eng.cleared(), qt.IsFalse)

	first, ok := eng.next()
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, first, qt.Equals, "a")

	second, ok := eng.next()
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, second, qt.Equals, "b")

	prev, ok := eng.prev()
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, prev, qt.Equals, "b")

	eng.clear()
	qt.Assert(t, eng.cleared(), qt.IsTrue)
	_, ok = eng.prev()
	qt.Assert(t, ok, qt.IsFalse)
}

func TestCompletionEngineUpdateIsNoopForSameLine(t *testing.T) {
	stub := stubCompleter{out: []string{"a"}}
	eng := newCompletionEngine(stub)
	eng.update("cmd ")
	eng.next()
	eng.update("cmd ")
	_, ok := eng.prev()
	qt.Assert(t, ok, qt.IsTrue)
}

type stubCompleter struct {
	out []string
}

func (s stubCompleter) Candidates(words []string) []string { return s.out }
