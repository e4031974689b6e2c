// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package lineeditor implements a modal, Vim-like line editor: a Line
// buffer of display cells, a set of mode state machines that turn input
// Events into Commands, and a driver that runs the read-render-dispatch
// loop against a raw terminal.
package lineeditor

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// charClass partitions runes into three classes used by every word-motion
// and word-deletion operation: whitespace, keyword (alphanumeric or '_'),
// and everything else ("other" punctuation).
type charClass int

const (
	classWhitespace charClass = iota
	classKeyword
	classOther
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classKeyword
	default:
		return classOther
	}
}

// cell is one character of a Line together with its display width, so the
// driver can position the cursor without recomputing widths on every
// redraw.
type cell struct {
	ch    rune
	width int
}

// Line is the editable buffer backing one prompt: a sequence of cells and
// a cursor index into them. Every mutation keeps the cursor within
// [0, len(buf)], except transiently during edits that recompute it.
type Line struct {
	buf    []cell
	cursor int
}

// NewLine returns an empty buffer.
func NewLine() *Line { return &Line{} }

// NewLineFromString seeds a buffer with s, cursor at the end.
func NewLineFromString(s string) *Line {
	l := &Line{}
	for _, r := range s {
		l.buf = append(l.buf, cell{ch: r, width: runewidth.RuneWidth(r)})
	}
	l.cursor = len(l.buf)
	return l
}

// String renders the buffer's text, ignoring widths.
func (l *Line) String() string {
	var sb strings.Builder
	for _, c := range l.buf {
		sb.WriteRune(c.ch)
	}
	return sb.String()
}

// Len returns the number of cells (runes), not their display width.
func (l *Line) Len() int { return len(l.buf) }

// Cursor returns the current cursor index.
func (l *Line) Cursor() int { return l.cursor }

// CharAt returns the rune at i and whether i was in range.
func (l *Line) CharAt(i int) (rune, bool) {
	if i < 0 || i >= len(l.buf) {
		return 0, false
	}
	return l.buf[i].ch, true
}

// Width reports the display width of the cell at i, or 0 if out of range.
func (l *Line) Width(i int) int {
	if i < 0 || i >= len(l.buf) {
		return 0
	}
	return l.buf[i].width
}

// Widths returns the display width of every cell, for the driver's cursor
// repositioning math.
func (l *Line) Widths() []int {
	out := make([]int, len(l.buf))
	for i, c := range l.buf {
		out[i] = c.width
	}
	return out
}

// LastWord returns the word immediately before the cursor end of the
// buffer (used by Ctrl-N's word-duplication), or "", false if the buffer
// ends in whitespace or is empty. wide selects wide-word boundaries
// (any non-whitespace run) over narrow ones (single-class runs).
func (l *Line) LastWord(wide bool) (string, bool) {
	if len(l.buf) == 0 {
		return "", false
	}
	wordClass := classify(l.buf[len(l.buf)-1].ch)
	if wordClass == classWhitespace {
		return "", false
	}

	i := len(l.buf) - 1
	for i > 0 {
		class := classify(l.buf[i-1].ch)
		if (wide && class == classWhitespace) || (!wide && class != wordClass) {
			break
		}
		i--
	}

	var sb strings.Builder
	for _, c := range l.buf[i:] {
		sb.WriteRune(c.ch)
	}
	return sb.String(), true
}

// Insert places ch at the cursor and advances it.
func (l *Line) Insert(ch rune) {
	c := cell{ch: ch, width: runewidth.RuneWidth(ch)}
	l.buf = append(l.buf, cell{})
	copy(l.buf[l.cursor+1:], l.buf[l.cursor:])
	l.buf[l.cursor] = c
	l.cursor++
}

// InsertString inserts each rune of s at the cursor, in order.
func (l *Line) InsertString(s string) {
	for _, r := range s {
		l.Insert(r)
	}
}

// DeletePrev removes the cell before the cursor, if any.
func (l *Line) DeletePrev() {
	if l.cursor > 0 {
		l.buf = append(l.buf[:l.cursor-1], l.buf[l.cursor:]...)
		l.cursor--
	}
}

// DeleteNext removes the cell at the cursor, if any.
func (l *Line) DeleteNext() {
	if l.cursor < len(l.buf) {
		l.buf = append(l.buf[:l.cursor], l.buf[l.cursor+1:]...)
	}
}

// DeleteWord strips trailing whitespace before the cursor, then deletes
// one class-run of word characters before it (Ctrl-W's behavior).
func (l *Line) DeleteWord() {
	for l.cursor > 0 && classify(l.buf[l.cursor-1].ch) == classWhitespace {
		l.DeletePrev()
	}
	if l.cursor == 0 {
		return
	}
	wordClass := classify(l.buf[l.cursor-1].ch)
	for l.cursor > 0 && classify(l.buf[l.cursor-1].ch) == wordClass {
		l.DeletePrev()
	}
}

// DeleteLine empties the buffer and resets the cursor.
func (l *Line) DeleteLine() {
	l.buf = nil
	l.cursor = 0
}

// DeleteRange removes cells in the half-open range [from, to) and leaves
// the cursor at from.
func (l *Line) DeleteRange(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(l.buf) {
		to = len(l.buf)
	}
	if from >= to {
		return
	}
	l.buf = append(l.buf[:from], l.buf[to:]...)
	l.cursor = from
}

// Slice returns the text of [from, to), clamped to the buffer's bounds.
func (l *Line) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(l.buf) {
		to = len(l.buf)
	}
	if from >= to {
		return ""
	}
	var sb strings.Builder
	for _, c := range l.buf[from:to] {
		sb.WriteRune(c.ch)
	}
	return sb.String()
}

// CursorPrevChar moves the cursor back one cell, saturating at 0.
func (l *Line) CursorPrevChar() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// CursorNextChar moves the cursor forward one cell, saturating at Len().
func (l *Line) CursorNextChar() {
	if l.cursor < len(l.buf) {
		l.cursor++
	}
}

// CursorPrevCharMatch moves the cursor to the nearest occurrence of
// target strictly before it, if any (the f/F find-char motion).
func (l *Line) CursorPrevCharMatch(target rune) {
	for i := l.cursor - 1; i >= 0; i-- {
		if l.buf[i].ch == target {
			l.cursor = i
			return
		}
	}
}

// CursorNextCharMatch moves the cursor to the nearest occurrence of
// target strictly after it, if any.
func (l *Line) CursorNextCharMatch(target rune) {
	for i := l.cursor + 1; i < len(l.buf); i++ {
		if l.buf[i].ch == target {
			l.cursor = i
			return
		}
	}
}

// CursorPrevWordHead moves to the start of the previous word (w/W in
// reverse), skipping any whitespace run immediately before the cursor
// first.
func (l *Line) CursorPrevWordHead(wide bool) {
	for l.cursor > 0 && classify(l.buf[l.cursor-1].ch) == classWhitespace {
		l.cursor--
	}
	if l.cursor == 0 {
		return
	}
	wordClass := classify(l.buf[l.cursor-1].ch)
	for l.cursor > 0 {
		class := classify(l.buf[l.cursor-1].ch)
		if (wide && class == classWhitespace) || (!wide && class != wordClass) {
			break
		}
		l.cursor--
	}
}

// CursorNextWordHead moves to the start of the next word (w/W).
func (l *Line) CursorNextWordHead(wide bool) {
	n := len(l.buf)
	if l.cursor == n {
		return
	}
	wordClass := classify(l.buf[l.cursor].ch)
	for l.cursor+1 < n {
		class := classify(l.buf[l.cursor].ch)
		if (wide && class == classWhitespace) || (!wide && class != wordClass) {
			break
		}
		l.cursor++
	}
	for l.cursor+1 < n && classify(l.buf[l.cursor].ch) == classWhitespace {
		l.cursor++
	}
}

// CursorNextWordEnd moves to the end of the current or next word (e/E).
func (l *Line) CursorNextWordEnd(wide bool) {
	l.CursorNextChar()
	n := len(l.buf)
	for l.cursor+1 < n && classify(l.buf[l.cursor].ch) == classWhitespace {
		l.cursor++
	}
	if l.cursor == n {
		return
	}
	wordClass := classify(l.buf[l.cursor].ch)
	for l.cursor+1 < n {
		class := classify(l.buf[l.cursor+1].ch)
		if (wide && class == classWhitespace) || (!wide && class != wordClass) {
			break
		}
		l.cursor++
	}
}

// CursorEndOfLine moves the cursor past the last cell.
func (l *Line) CursorEndOfLine() { l.cursor = len(l.buf) }

// CursorBeginOfLine moves the cursor to the first non-whitespace cell.
func (l *Line) CursorBeginOfLine() {
	n := len(l.buf)
	l.cursor = 0
	for l.cursor < n && unicode.IsSpace(l.buf[l.cursor].ch) {
		l.cursor++
	}
}

// CursorExact sets the cursor to an absolute index, unclamped.
func (l *Line) CursorExact(pos int) { l.cursor = pos }

// NormalModeFixCursor clamps the cursor to max(len-1, 0), the position a
// cursor must sit at outside Insert mode (no block cursor past the last
// character).
func (l *Line) NormalModeFixCursor() {
	if l.cursor >= len(l.buf) {
		l.cursor = len(l.buf) - 1
		if l.cursor < 0 {
			l.cursor = 0
		}
	}
}

// Clone returns an independent copy of l, used when history navigation
// edits a back-copy of a line without mutating the history entry itself.
func (l *Line) Clone() *Line {
	cp := &Line{buf: append([]cell(nil), l.buf...), cursor: l.cursor}
	return cp
}
