// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func process(m EditorMode, line *Line, evs ...Event) []Command {
	var cmds []Command
	for _, ev := range evs {
		m.ProcessEvent(ev, line, &cmds)
	}
	return cmds
}

func TestNormalModeBareMotions(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("abc")
	cmds := process(m, l, charEvent('l'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdCursorNextChar}})
}

func TestNormalModeXStoresAndDeletes(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("abc")
	cmds := process(m, l, charEvent('x'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "a"},
		{Kind: CmdDeleteNextChar},
		{Kind: CmdMakeCheckPoint},
	})
}

func TestNormalModeDoubledOperatorActsOnWholeLine(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("hello")
	cmds := process(m, l, charEvent('d'), charEvent('d'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "hello"},
		{Kind: CmdDeleteLine},
		{Kind: CmdMakeCheckPoint},
	})
}

func TestNormalModeFindCharAndRepeat(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("abcabc")
	cmds := process(m, l, charEvent('f'), charEvent('c'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdCursorNextCharMatch, Ch: 'c'}})

	cmds = process(m, l, charEvent(';'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdCursorNextCharMatch, Ch: 'c'}})
}

func TestNormalModeTextObjectCombo(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("(abc)")
	l.CursorExact(2)
	cmds := process(m, l, charEvent('c'), charEvent('i'), charEvent('('))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "abc"},
		{Kind: CmdDeleteRange, From: 1, To: 4},
		{Kind: CmdChangeModeToInsert},
		{Kind: CmdMakeCheckPoint},
	})
}

func TestNormalModeYankTextObjectDoesNotCheckpoint(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("foo bar")
	l.CursorExact(1)
	cmds := process(m, l, charEvent('y'), charEvent('a'), charEvent('w'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "foo "},
	})
}

func TestNormalModeUnknownComboKeyIsDropped(t *testing.T) {
	m := &NormalMode{}
	l := NewLineFromString("abc")
	cmds := process(m, l, charEvent('d'), charEvent('i'), charEvent('z'))
	qt.Assert(t, cmds, qt.HasLen, 0)
	qt.Assert(t, m.combo, qt.IsNil)
}

func TestInsertModeCharAndEscape(t *testing.T) {
	m := InsertMode{}
	l := NewLineFromString("a")
	cmds := process(m, l, charEvent('b'), Event{Kind: EventKeyEscape})
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdInsert, Ch: 'b'},
		{Kind: CmdCursorPrevChar},
		{Kind: CmdChangeModeToNormal},
		{Kind: CmdMakeCheckPoint},
	})
}

func TestInsertModeCtrlMappings(t *testing.T) {
	m := InsertMode{}
	l := NewLineFromString("")
	qt.Assert(t, process(m, l, ctrlEvent('w')), qt.DeepEquals, []Command{{Kind: CmdDeletePrevWord}})
	qt.Assert(t, process(m, l, ctrlEvent('n')), qt.DeepEquals, []Command{{Kind: CmdDuplicateLastWord}})
	qt.Assert(t, process(m, l, ctrlEvent('r')), qt.DeepEquals, []Command{{Kind: CmdChangeModeToSearch}})
	qt.Assert(t, process(m, l, ctrlEvent('p')), qt.DeepEquals, []Command{{Kind: CmdCdToParent}})
	qt.Assert(t, process(m, l, ctrlEvent('o')), qt.DeepEquals, []Command{{Kind: CmdCdUndo}})
	qt.Assert(t, process(m, l, ctrlEvent('d')), qt.DeepEquals, []Command{{Kind: CmdDisplayCompletionCandidate}})
}

func TestVisualModeCharDeleteUsesHalfOpenRangePastCursor(t *testing.T) {
	v := NewVisualModeChar(1)
	l := NewLineFromString("abcdef")
	l.CursorExact(3)
	cmds := process(v, l, charEvent('d'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "bcd"},
		{Kind: CmdDeleteRange, From: 1, To: 4},
		{Kind: CmdChangeModeToNormal},
		{Kind: CmdMakeCheckPoint},
	})
}

func TestVisualModeLineYankStoresWholeLine(t *testing.T) {
	v := NewVisualModeLine()
	l := NewLineFromString("whole line")
	cmds := process(v, l, charEvent('y'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{
		{Kind: CmdRegisterStore, Reg: '"', Text: "whole line"},
		{Kind: CmdChangeModeToNormal},
	})
}

func TestVisualModeEscapeReturnsToNormal(t *testing.T) {
	v := NewVisualModeChar(0)
	l := NewLineFromString("abc")
	cmds := process(v, l, Event{Kind: EventKeyEscape})
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdChangeModeToNormal}})
}

func TestVisualModeOSwapsOriginAndCursor(t *testing.T) {
	v := NewVisualModeChar(1)
	l := NewLineFromString("abcdef")
	l.CursorExact(3)
	process(v, l, charEvent('o'))
	origin, isChar := v.Origin()
	qt.Assert(t, isChar, qt.IsTrue)
	qt.Assert(t, origin, qt.Equals, 3)
}

func TestSearchModeTypingEmitsHistorySearchReset(t *testing.T) {
	s := NewSearchMode()
	l := NewLine()
	cmds := process(s, l, charEvent('f'), charEvent('o'), charEvent('o'))
	qt.Assert(t, s.Query(), qt.Equals, "foo")
	qt.Assert(t, cmds[len(cmds)-1], qt.DeepEquals, Command{Kind: CmdHistorySearch, Query: "foo", Reset: true})
}

func TestSearchModeCtrlRReusesPosition(t *testing.T) {
	s := NewSearchMode()
	l := NewLine()
	process(s, l, charEvent('x'))
	cmds := process(s, l, ctrlEvent('r'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdHistorySearch, Query: "x", Reset: false}})
}

func TestSearchModeEnterCommitsAndReturnsToNormal(t *testing.T) {
	s := NewSearchMode()
	l := NewLine()
	cmds := process(s, l, Event{Kind: EventKeyReturn})
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdChangeModeToNormal}, {Kind: CmdCommit}})
}

func TestSearchModeCtrlUCancels(t *testing.T) {
	s := NewSearchMode()
	l := NewLine()
	process(s, l, charEvent('x'))
	cmds := process(s, l, ctrlEvent('u'))
	qt.Assert(t, cmds, qt.DeepEquals, []Command{{Kind: CmdChangeModeToNormal}})
}
