// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrAborted is returned by ReadLine when the user pressed Ctrl-C.
var ErrAborted = errors.New("lineeditor: aborted")

// ErrExited is returned by ReadLine when the user pressed Ctrl-D on an
// empty line, the shell's usual way of ending the session.
var ErrExited = errors.New("lineeditor: exited")

const hlUnbounded = 1 << 30

// LineEditor runs the read-render-dispatch loop against a raw terminal: it
// owns the current mode, the named registers ("paste buffers"), and the
// committed-line history that HistoryPrev/HistoryNext/HistorySearch walk.
type LineEditor struct {
	fd        int
	in        io.Reader
	out       io.Writer
	completer Completer

	cols func() int

	mode      EditorMode
	registers map[rune]string
	history   []string
}

// NewLineEditor builds an editor reading raw bytes from in (normally the
// terminal fd wrapped as a file), writing redraws to out, and completing
// filenames/commands through completer. cols reports the terminal's current
// width; pass termsize.Tracker.Size's second return value.
func NewLineEditor(fd int, in io.Reader, out io.Writer, completer Completer, cols func() int) *LineEditor {
	return &LineEditor{
		fd:        fd,
		in:        in,
		out:       out,
		completer: completer,
		cols:      cols,
		mode:      &InsertMode{},
		registers: map[rune]string{},
	}
}

// History returns every line committed so far, oldest first.
func (le *LineEditor) History() []string { return le.history }

// SetHistory seeds the history from a previous session's saved lines.
func (le *LineEditor) SetHistory(lines []string) { le.history = append([]string(nil), lines...) }

// editSession holds the per-call mutable state read_line threads through
// its loop: the alternate buffers history navigation edits without
// mutating history itself, the undo/redo stacks, and the search resume
// index.
type editSession struct {
	temporal              []*Line
	row                   int
	historySearchStartIdx int
	undoStack, redoStack  []*Line
}

func (s *editSession) idx() int       { return len(s.temporal) - 1 + s.row }
func (s *editSession) current() *Line { return s.temporal[s.idx()] }
func (s *editSession) setCurrent(l *Line) {
	s.temporal[s.idx()] = l
}

// ReadLine runs one full edit session: enable raw mode, loop rendering and
// dispatching decoded input until a mode emits Commit, restore cooked mode,
// and return the committed text. promptPrefix may contain escape sequences
// wrapped in parens, which are kept in the output but elided from the
// prompt's printable length.
func (le *LineEditor) ReadLine(promptPrefix string) (string, error) {
	saved, err := term.MakeRaw(le.fd)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = term.Restore(le.fd, saved)
		fmt.Fprint(le.out, "\x1b[2 q")
	}()

	le.mode = le.nextLineMode()

	sess := &editSession{temporal: []*Line{NewLine()}}
	if len(le.history) > 0 {
		sess.historySearchStartIdx = len(le.history) - 1
	}
	if IsInsert(le.mode) {
		sess.undoStack = append(sess.undoStack, sess.current().Clone())
	}

	lastCommand := CommandKind(-1)
	engine := newCompletionEngine(le.completer)

	fmt.Fprint(le.out, "\x1b7")

	buf := make([]byte, 32)
editLoop:
	for {
		le.redraw(promptPrefix, sess.current())

		n, err := le.in.Read(buf)
		if err != nil {
			return "", err
		}

		events := decodeEvents(buf[:n])

		var commands []Command
		for _, ev := range events {
			if ev.Kind == EventCtrl && ev.Ch == 'c' {
				return "", ErrAborted
			}
			if ev.Kind == EventCtrl && ev.Ch == 'd' && sess.current().Len() == 0 {
				return "", ErrExited
			}
			le.mode.ProcessEvent(ev, sess.current(), &commands)
		}

		for _, cmd := range commands {
			commit, cdLine := le.apply(cmd, sess, engine, lastCommand)
			if cdLine != "" {
				fmt.Fprint(le.out, "\r\n\x1b[J\x1b[A")
				return cdLine, nil
			}
			if commit {
				break editLoop
			}
			if !IsInsert(le.mode) {
				sess.current().NormalModeFixCursor()
			}
			lastCommand = cmd.Kind
		}
	}

	le.redraw(promptPrefix, sess.current())
	fmt.Fprint(le.out, "\r\n\x1b[J")

	result := sess.current().String()
	if result != "" {
		le.history = append(le.history, result)
	}
	return result, nil
}

func (le *LineEditor) nextLineMode() EditorMode {
	switch le.mode.(type) {
	case *InsertMode, *SearchMode:
		return &InsertMode{}
	default:
		return &NormalMode{}
	}
}

// apply executes one queued Command against sess and le's mode/registers,
// reporting whether it committed the line and, for the cd-shortcut
// commands, the synthesized command string read_line should return.
func (le *LineEditor) apply(cmd Command, sess *editSession, engine *completionEngine, lastCommand CommandKind) (commit bool, cdLine string) {
	line := sess.current()

	switch cmd.Kind {
	case CmdChangeModeToNormal:
		le.mode = &NormalMode{}
	case CmdChangeModeToInsert:
		le.mode = &InsertMode{}
	case CmdChangeModeToVisualChar:
		le.mode = NewVisualModeChar(line.Cursor())
	case CmdChangeModeToVisualLine:
		le.mode = NewVisualModeLine()
	case CmdChangeModeToSearch:
		le.mode = NewSearchMode()

	case CmdHistoryPrev:
		le.historyPrev(sess)
	case CmdHistoryNext:
		if sess.row < 0 {
			sess.row++
			sess.current().CursorEndOfLine()
		}
	case CmdHistorySearch:
		le.historySearch(sess, cmd.Query, cmd.Reset)

	case CmdCursorPrevChar:
		line.CursorPrevChar()
	case CmdCursorNextChar:
		line.CursorNextChar()
	case CmdCursorPrevCharMatch:
		line.CursorPrevCharMatch(cmd.Ch)
	case CmdCursorNextCharMatch:
		line.CursorNextCharMatch(cmd.Ch)
	case CmdCursorPrevWordHead:
		line.CursorPrevWordHead(false)
	case CmdCursorPrevWordHeadWide:
		line.CursorPrevWordHead(true)
	case CmdCursorNextWordHead:
		line.CursorNextWordHead(false)
	case CmdCursorNextWordHeadWide:
		line.CursorNextWordHead(true)
	case CmdCursorNextWordEnd:
		line.CursorNextWordEnd(false)
	case CmdCursorNextWordEndWide:
		line.CursorNextWordEnd(true)
	case CmdCursorEnd:
		line.CursorEndOfLine()
	case CmdCursorBegin:
		line.CursorBeginOfLine()
	case CmdCursorExact:
		line.CursorExact(cmd.Pos)

	case CmdInsert:
		line.Insert(cmd.Ch)
	case CmdDeletePrevChar:
		line.DeletePrev()
	case CmdDeleteNextChar:
		line.DeleteNext()
	case CmdDeletePrevWord:
		line.DeleteWord()
	case CmdDeleteLine:
		line.DeleteLine()
	case CmdDeleteRange:
		line.DeleteRange(cmd.From, cmd.To)
	case CmdDuplicateLastWord:
		if word, ok := line.LastWord(true); ok {
			line.InsertString(word)
		}

	case CmdCommit:
		return true, ""

	case CmdRegisterStore:
		le.registers[cmd.Reg] = cmd.Text
	case CmdRegisterPastePrev:
		if text, ok := le.registers[cmd.Reg]; ok {
			line.InsertString(text)
		}
	case CmdRegisterPasteNext:
		if text, ok := le.registers[cmd.Reg]; ok {
			line.CursorNextChar()
			line.InsertString(text)
			line.CursorPrevChar()
		}

	case CmdMakeCheckPoint:
		sess.undoStack = append(sess.undoStack, line.Clone())
		sess.redoStack = nil
	case CmdUndo:
		if n := len(sess.undoStack); n > 0 {
			sess.redoStack = append(sess.redoStack, line.Clone())
			prev := sess.undoStack[n-1]
			sess.undoStack = sess.undoStack[:n-1]
			sess.setCurrent(prev)
		}
	case CmdRedo:
		if n := len(sess.redoStack); n > 0 {
			sess.undoStack = append(sess.undoStack, line.Clone())
			next := sess.redoStack[n-1]
			sess.redoStack = sess.redoStack[:n-1]
			sess.setCurrent(next)
		}

	case CmdTryCompleteFilename:
		le.tryCompleteFilename(sess, engine, lastCommand)
	case CmdDisplayCompletionCandidate:
		le.displayCompletionCandidates(sess, engine)

	case CmdCdToParent:
		return false, "cd .."
	case CmdCdUndo:
		return false, "cd -"
	case CmdCdRedo:
		return false, "cd +"
	}

	return false, ""
}

func (le *LineEditor) historyPrev(sess *editSession) {
	newRow := sess.row - 1
	if len(sess.temporal)-1+newRow >= 0 {
		sess.row = newRow
		sess.current().CursorEndOfLine()
		return
	}
	i := len(le.history) + newRow
	if i < 0 {
		return
	}
	picked := NewLineFromString(le.history[i])
	sess.temporal = append([]*Line{picked}, sess.temporal...)
	sess.row = newRow
	sess.current().CursorEndOfLine()
}

func (le *LineEditor) historySearch(sess *editSession, query string, reset bool) {
	if reset {
		sess.historySearchStartIdx = len(le.history) - 1
	}

	idx := sess.historySearchStartIdx
	if idx < 0 {
		idx = 0
	}
	if idx > len(le.history) {
		idx = len(le.history)
	}

	matched := false
	for i := idx - 1; i >= 0 && !matched; i-- {
		if pos := strings.Index(le.history[i], query); pos >= 0 {
			sess.row = 0
			sess.setCurrent(NewLineFromString(le.history[i]))
			sess.historySearchStartIdx = i
			pre := utf8.RuneCountInString(le.history[i][:pos])
			sess.current().CursorExact(pre + utf8.RuneCountInString(query))
			matched = true
		}
	}

	if !matched {
		tail := le.history[idx:]
		for j := len(tail) - 1; j >= 0; j-- {
			if pos := strings.Index(tail[j], query); pos >= 0 {
				sess.row = 0
				sess.setCurrent(NewLineFromString(tail[j]))
				sess.historySearchStartIdx = idx + j
				pre := utf8.RuneCountInString(tail[j][:pos])
				sess.current().CursorExact(pre + utf8.RuneCountInString(query))
				matched = true
				break
			}
		}
	}

	if !matched {
		nl := NewLineFromString(query)
		nl.CursorEndOfLine()
		sess.row = 0
		sess.setCurrent(nl)
	}
}

func (le *LineEditor) tryCompleteFilename(sess *editSession, engine *completionEngine, lastCommand CommandKind) {
	line := sess.current()

	lastWasCompletion := lastCommand == CmdTryCompleteFilename || lastCommand == CmdDisplayCompletionCandidate
	if !lastWasCompletion || engine.cleared() {
		engine.update(line.String())
	}

	if prev, ok := engine.prev(); ok {
		for range []rune(prev) {
			line.DeletePrev()
		}
	}

	if cand, ok := engine.next(); ok {
		line.InsertString(cand)
		if engine.len() == 1 {
			engine.clear()
		}
	}
}

func (le *LineEditor) displayCompletionCandidates(sess *editSession, engine *completionEngine) {
	line := sess.current()
	engine.update(line.String())

	prefix, ok := line.LastWord(true)
	if !ok {
		return
	}
	fmt.Fprint(le.out, "\r\n\x1b[J")
	for _, cand := range engine.iter() {
		fmt.Fprintf(le.out, "%s%s\t", prefix, cand)
	}
	fmt.Fprint(le.out, "\r\n")
}

// redraw repaints the prompt and line at the cursor-saved position,
// highlighting the Visual or Search range if the current mode has one, and
// truncating at the terminal's current width.
func (le *LineEditor) redraw(promptPrefix string, line *Line) {
	color := "\x1b[34;1m"
	switch le.mode.(type) {
	case *InsertMode:
		color = "\x1b[36;1m"
	case *VisualMode:
		color = "\x1b[32;1m"
	case *SearchMode:
		color = "\x1b[38;5;209;1m"
	}

	sign := "%"
	if unix.Geteuid() == 0 {
		sign = "#"
	}

	prompt, promptLen := unescapePrompt(promptPrefix + "(" + color + ")" + sign + "(\x1b[m) ")

	fmt.Fprint(le.out, "\x1b8\x1b[K")
	fmt.Fprint(le.out, prompt)

	from, to, hasRange := le.highlightRange(line)

	width := le.cols()
	if width <= 0 {
		width = 80
	}
	lineLen := promptLen
	widths := line.Widths()
	var sb strings.Builder
	for i := 0; i < line.Len(); i++ {
		ch, _ := line.CharAt(i)
		lineLen += widths[i]
		if lineLen > width {
			break
		}
		if hasRange && from <= i && i < to {
			fmt.Fprintf(&sb, "\x1b[100;97m%c\x1b[m", ch)
		} else {
			sb.WriteRune(ch)
		}
	}
	fmt.Fprint(le.out, sb.String())

	fmt.Fprint(le.out, "\x1b8")
	step := promptLen
	for _, w := range widths[:line.Cursor()] {
		step += w
	}
	if step > 0 {
		fmt.Fprintf(le.out, "\x1b[%dC", step)
	}

	_, isSearch := le.mode.(*SearchMode)
	if IsInsert(le.mode) || isSearch {
		fmt.Fprint(le.out, "\x1b[6 q") // bar cursor
	} else {
		fmt.Fprint(le.out, "\x1b[2 q") // block cursor
	}
}

func (le *LineEditor) highlightRange(line *Line) (from, to int, ok bool) {
	switch m := le.mode.(type) {
	case *VisualMode:
		if origin, isChar := m.Origin(); isChar {
			i, j := origin, line.Cursor()
			if i > j {
				i, j = j, i
			}
			return i, j + 1, true
		}
		return 0, hlUnbounded, true
	case *SearchMode:
		query := m.Query()
		s := line.String()
		if pos := strings.Index(s, query); pos >= 0 {
			from := utf8.RuneCountInString(s[:pos])
			return from, from + utf8.RuneCountInString(query), true
		}
	}
	return 0, 0, false
}

// unescapePrompt returns the prompt with escaping undone, plus its printed
// width: a leading backslash passes the next rune through literally, and
// unescaped parens mark a span whose runes are kept in the output but
// excluded from the width count (used to wrap color escape sequences).
func unescapePrompt(prompt string) (string, int) {
	var buf strings.Builder
	length := 0
	ignore := 0
	escaped := false

	for _, ch := range prompt {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		if !escaped && ch == '(' {
			ignore++
		}
		if escaped || (ch != '(' && ch != ')') {
			buf.WriteRune(ch)
		}
		if ignore == 0 {
			length += runewidth.RuneWidth(ch)
		}
		if !escaped && ch == ')' {
			ignore--
		}
		escaped = false
	}
	return buf.String(), length
}

// decodeEvents turns one raw read of terminal input into zero or more
// Events: a handful of CSI sequences for arrow/delete keys, then a
// control-byte table, falling back to UTF-8 characters.
func decodeEvents(b []byte) []Event {
	if !utf8.Valid(b) {
		return nil
	}
	s := string(b)

	switch s {
	case "\x1b[D":
		return []Event{{Kind: EventKeyLeft}}
	case "\x1b[C":
		return []Event{{Kind: EventKeyRight}}
	case "\x1b[A":
		return []Event{{Kind: EventKeyUp}}
	case "\x1b[B":
		return []Event{{Kind: EventKeyDown}}
	case "\x1b[3~":
		return []Event{{Kind: EventKeyDelete}}
	}

	var events []Event
	for _, ch := range s {
		switch {
		case ch == 0x09:
			events = append(events, Event{Kind: EventKeyTab})
		case ch == 0x0d:
			events = append(events, Event{Kind: EventKeyReturn})
		case ch == 0x1b:
			events = append(events, Event{Kind: EventKeyEscape})
		case ch == 0x7f:
			events = append(events, Event{Kind: EventKeyBackspace})
		case ch <= 0x1f:
			events = append(events, ctrlEvent(ctrlLetter(ch)))
		case unicode.IsControl(ch):
			// other control runes carry no shell binding
		default:
			events = append(events, charEvent(ch))
		}
	}
	return events
}

// ctrlLetter maps a C0 control byte to the letter that, held with Ctrl,
// produces it (Ctrl-A is 0x01, and so on through the punctuation at the
// high end of the range).
func ctrlLetter(b rune) rune {
	switch b {
	case 0x00:
		return '@'
	case 0x1c:
		return '\\'
	case 0x1d:
		return ']'
	case 0x1e:
		return '^'
	case 0x1f:
		return '_'
	default:
		return 'a' + (b - 0x01)
	}
}
