// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestObjectForKey(t *testing.T) {
	w, ok := ObjectForKey('w')
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, w, qt.Equals, WordObject(false))

	p, ok := ObjectForKey('(')
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, p, qt.Equals, PairObject('(', ')'))

	_, ok = ObjectForKey('z')
	qt.Assert(t, ok, qt.IsFalse)
}

func TestFindRangeWordInside(t *testing.T) {
	l := NewLineFromString("foo bar")
	l.CursorExact(1)
	from, to := FindRange(l, SelectorInside, WordObject(false))
	qt.Assert(t, l.Slice(from, to), qt.Equals, "foo")
}

func TestFindRangeWordAnIncludesTrailingSpace(t *testing.T) {
	l := NewLineFromString("foo bar")
	l.CursorExact(1)
	from, to := FindRange(l, SelectorAn, WordObject(false))
	qt.Assert(t, l.Slice(from, to), qt.Equals, "foo ")
}

func TestFindRangePairInside(t *testing.T) {
	l := NewLineFromString("(abc)")
	l.CursorExact(2)
	from, to := FindRange(l, SelectorInside, PairObject('(', ')'))
	qt.Assert(t, l.Slice(from, to), qt.Equals, "abc")
}

func TestFindRangePairAnIncludesDelimiters(t *testing.T) {
	l := NewLineFromString("(abc)")
	l.CursorExact(2)
	from, to := FindRange(l, SelectorAn, PairObject('(', ')'))
	qt.Assert(t, l.Slice(from, to), qt.Equals, "(abc)")
}

func TestFindRangeQuotePair(t *testing.T) {
	l := NewLineFromString(`say "hi there" now`)
	l.CursorExact(6)
	from, to := FindRange(l, SelectorInside, PairObject('"', '"'))
	qt.Assert(t, l.Slice(from, to), qt.Equals, "hi there")
}
