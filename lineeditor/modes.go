// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

// EventKind tags the kind of input Event the driver decoded from raw bytes.
type EventKind int

const (
	EventChar EventKind = iota
	EventCtrl
	EventKeyEscape
	EventKeyTab
	EventKeyBackspace
	EventKeyDelete
	EventKeyReturn
	EventKeyUp
	EventKeyDown
	EventKeyLeft
	EventKeyRight
)

// Event is one decoded unit of terminal input: a printable rune, a Ctrl-
// combination carrying the base letter, or a named key.
type Event struct {
	Kind EventKind
	Ch   rune
}

func charEvent(ch rune) Event { return Event{Kind: EventChar, Ch: ch} }
func ctrlEvent(ch rune) Event { return Event{Kind: EventCtrl, Ch: ch} }

// CommandKind names one driver-level effect a mode can request.
type CommandKind int

const (
	CmdCursorPrevChar CommandKind = iota
	CmdCursorPrevCharMatch
	CmdCursorNextChar
	CmdCursorNextCharMatch
	CmdCursorPrevWordHead
	CmdCursorPrevWordHeadWide
	CmdCursorNextWordHead
	CmdCursorNextWordHeadWide
	CmdCursorNextWordEnd
	CmdCursorNextWordEndWide
	CmdCursorEnd
	CmdCursorBegin
	CmdCursorExact
	CmdHistoryPrev
	CmdHistoryNext
	CmdHistorySearch
	CmdDeletePrevChar
	CmdDeleteNextChar
	CmdDeletePrevWord
	CmdDeleteLine
	CmdDeleteRange
	CmdDuplicateLastWord
	CmdCommit
	CmdChangeModeToInsert
	CmdChangeModeToNormal
	CmdChangeModeToVisualChar
	CmdChangeModeToVisualLine
	CmdChangeModeToSearch
	CmdInsert
	CmdRegisterStore
	CmdRegisterPastePrev
	CmdRegisterPasteNext
	CmdMakeCheckPoint
	CmdUndo
	CmdRedo
	CmdTryCompleteFilename
	CmdDisplayCompletionCandidate
	CmdCdToParent
	CmdCdUndo
	CmdCdRedo
)

// Command is one queued effect a mode's ProcessEvent appended; the driver
// drains and applies these after every decoded Event.
type Command struct {
	Kind     CommandKind
	Ch       rune
	Pos      int
	From, To int
	Reg      rune
	Text     string
	Query    string
	Reset    bool
}

// EditorMode turns one Event, given a read-only view of the current line,
// into zero or more queued Commands.
type EditorMode interface {
	ProcessEvent(ev Event, line *Line, cmds *[]Command)
}

// IsInsert reports whether m is an *InsertMode, the only mode that keeps
// the cursor allowed to sit past the last character.
func IsInsert(m EditorMode) bool {
	_, ok := m.(*InsertMode)
	return ok
}

// NormalMode dispatches single keys directly and multi-key sequences
// (operator + text-object, or a doubled operator for the whole line)
// through a small combo buffer.
type NormalMode struct {
	combo       []rune
	hasLastFind bool
	lastFindOp  rune
	lastFindCh  rune
}

func store(cmds *[]Command, text string) {
	*cmds = append(*cmds, Command{Kind: CmdRegisterStore, Reg: '"', Text: text})
}

func (m *NormalMode) ProcessEvent(ev Event, line *Line, cmds *[]Command) {
	switch len(m.combo) {
	case 0:
		m.processBare(ev, line, cmds)
	case 1:
		m.processComboStage1(ev, line, cmds)
	case 2:
		m.processComboStage2(ev, line, cmds)
	default:
		m.combo = nil
	}
}

func (m *NormalMode) processBare(ev Event, line *Line, cmds *[]Command) {
	if ev.Kind == EventChar {
		switch ev.Ch {
		case 'i':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert})
			return
		case 'v':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToVisualChar})
			return
		case 'V':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToVisualLine})
			return
		case 'h':
			*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar})
			return
		case 'l':
			*cmds = append(*cmds, Command{Kind: CmdCursorNextChar})
			return
		case 'k':
			*cmds = append(*cmds, Command{Kind: CmdHistoryPrev})
			return
		case 'j':
			*cmds = append(*cmds, Command{Kind: CmdHistoryNext})
			return
		case 'w':
			*cmds = append(*cmds, Command{Kind: CmdCursorNextWordHead})
			return
		case 'W':
			*cmds = append(*cmds, Command{Kind: CmdCursorNextWordHeadWide})
			return
		case 'e':
			*cmds = append(*cmds, Command{Kind: CmdCursorNextWordEnd})
			return
		case 'E':
			*cmds = append(*cmds, Command{Kind: CmdCursorNextWordEndWide})
			return
		case 'b':
			*cmds = append(*cmds, Command{Kind: CmdCursorPrevWordHead})
			return
		case 'B':
			*cmds = append(*cmds, Command{Kind: CmdCursorPrevWordHeadWide})
			return
		case 'f', 'F', 'd', 'c', 'y':
			m.combo = []rune{ev.Ch}
			return
		case ';':
			if m.hasLastFind {
				if m.lastFindOp == 'f' {
					*cmds = append(*cmds, Command{Kind: CmdCursorNextCharMatch, Ch: m.lastFindCh})
				} else {
					*cmds = append(*cmds, Command{Kind: CmdCursorPrevCharMatch, Ch: m.lastFindCh})
				}
			}
			return
		case '$':
			*cmds = append(*cmds, Command{Kind: CmdCursorEnd})
			return
		case '^':
			*cmds = append(*cmds, Command{Kind: CmdCursorBegin})
			return
		case '0':
			*cmds = append(*cmds, Command{Kind: CmdCursorExact, Pos: 0})
			return
		case 'A':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdCursorEnd})
			return
		case 'I':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdCursorBegin})
			return
		case 'a':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdCursorNextChar})
			return
		case 's':
			if ch, ok := line.CharAt(line.Cursor()); ok {
				store(cmds, string(ch))
			}
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdDeleteNextChar}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'x':
			if ch, ok := line.CharAt(line.Cursor()); ok {
				store(cmds, string(ch))
			}
			*cmds = append(*cmds, Command{Kind: CmdDeleteNextChar}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'D':
			from, to := line.Cursor(), line.Len()
			store(cmds, line.Slice(from, to))
			*cmds = append(*cmds, Command{Kind: CmdDeleteRange, From: from, To: to}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'C':
			from, to := line.Cursor(), line.Len()
			store(cmds, line.Slice(from, to))
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdDeleteRange, From: from, To: to}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'S':
			*cmds = append(*cmds, Command{Kind: CmdDeleteLine}, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'Y':
			store(cmds, line.String())
			return
		case 'P':
			*cmds = append(*cmds, Command{Kind: CmdRegisterPastePrev, Reg: '"'}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'p':
			*cmds = append(*cmds, Command{Kind: CmdRegisterPasteNext, Reg: '"'}, Command{Kind: CmdMakeCheckPoint})
			return
		case 'u':
			*cmds = append(*cmds, Command{Kind: CmdUndo})
			return
		}
		return
	}

	switch ev.Kind {
	case EventKeyReturn:
		*cmds = append(*cmds, Command{Kind: CmdCommit})
	case EventKeyTab:
		*cmds = append(*cmds, Command{Kind: CmdCdRedo})
	case EventKeyLeft:
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar})
	case EventKeyRight:
		*cmds = append(*cmds, Command{Kind: CmdCursorNextChar})
	case EventKeyUp:
		*cmds = append(*cmds, Command{Kind: CmdHistoryPrev})
	case EventKeyDown:
		*cmds = append(*cmds, Command{Kind: CmdHistoryNext})
	case EventCtrl:
		if ev.Ch == 'r' {
			*cmds = append(*cmds, Command{Kind: CmdRedo})
		}
	}
}

func (m *NormalMode) processComboStage1(ev Event, line *Line, cmds *[]Command) {
	op := m.combo[0]
	defer func() { m.combo = nil }()

	switch op {
	case 'f', 'F':
		if ev.Kind == EventChar {
			m.hasLastFind = true
			m.lastFindOp = op
			m.lastFindCh = ev.Ch
			if op == 'f' {
				*cmds = append(*cmds, Command{Kind: CmdCursorNextCharMatch, Ch: ev.Ch})
			} else {
				*cmds = append(*cmds, Command{Kind: CmdCursorPrevCharMatch, Ch: ev.Ch})
			}
		} else {
			m.hasLastFind = false
		}
		return
	}

	// op is d/c/y: a doubled operator acts on the whole line.
	if ev.Kind == EventChar && rune(ev.Ch) == op {
		store(cmds, line.String())
		if op != 'y' {
			*cmds = append(*cmds, Command{Kind: CmdDeleteLine})
		}
		if op == 'c' {
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert})
		}
		if op != 'y' {
			*cmds = append(*cmds, Command{Kind: CmdMakeCheckPoint})
		}
		return
	}

	if ev.Kind == EventChar && (ev.Ch == 'i' || ev.Ch == 'a') {
		m.combo = []rune{op, ev.Ch}
		return
	}
}

func (m *NormalMode) processComboStage2(ev Event, line *Line, cmds *[]Command) {
	defer func() { m.combo = nil }()
	if ev.Kind != EventChar {
		return
	}

	op, selCh := m.combo[0], m.combo[1]
	obj, ok := ObjectForKey(ev.Ch)
	if !ok {
		return
	}
	sel := SelectorInside
	if selCh == 'a' {
		sel = SelectorAn
	}

	from, to := FindRange(line, sel, obj)
	if from >= to {
		return
	}
	store(cmds, line.Slice(from, to))
	if op != 'y' {
		*cmds = append(*cmds, Command{Kind: CmdDeleteRange, From: from, To: to})
	}
	if op == 'c' {
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert})
	}
	if op != 'y' {
		*cmds = append(*cmds, Command{Kind: CmdMakeCheckPoint})
	}
}

// InsertMode feeds printable keys straight into the buffer; nearly
// everything else is a fixed single-key mapping.
type InsertMode struct{}

func (InsertMode) ProcessEvent(ev Event, _ *Line, cmds *[]Command) {
	switch ev.Kind {
	case EventKeyEscape:
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar}, Command{Kind: CmdChangeModeToNormal}, Command{Kind: CmdMakeCheckPoint})
	case EventKeyReturn:
		*cmds = append(*cmds, Command{Kind: CmdCommit})
	case EventKeyLeft:
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar})
	case EventKeyRight:
		*cmds = append(*cmds, Command{Kind: CmdCursorNextChar})
	case EventKeyUp:
		*cmds = append(*cmds, Command{Kind: CmdHistoryPrev})
	case EventKeyDown:
		*cmds = append(*cmds, Command{Kind: CmdHistoryNext})
	case EventKeyBackspace:
		*cmds = append(*cmds, Command{Kind: CmdDeletePrevChar})
	case EventKeyDelete:
		*cmds = append(*cmds, Command{Kind: CmdDeleteNextChar})
	case EventKeyTab:
		*cmds = append(*cmds, Command{Kind: CmdTryCompleteFilename})
	case EventChar:
		*cmds = append(*cmds, Command{Kind: CmdInsert, Ch: ev.Ch})
	case EventCtrl:
		switch ev.Ch {
		case 'w':
			*cmds = append(*cmds, Command{Kind: CmdDeletePrevWord})
		case 'n':
			*cmds = append(*cmds, Command{Kind: CmdDuplicateLastWord})
		case 'r':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToSearch})
		case 'p':
			*cmds = append(*cmds, Command{Kind: CmdCdToParent})
		case 'o':
			*cmds = append(*cmds, Command{Kind: CmdCdUndo})
		case 'd':
			*cmds = append(*cmds, Command{Kind: CmdDisplayCompletionCandidate})
		}
	}
}

// VisualMode selects a range anchored at origin: either a character index
// (char-visual) or a sentinel meaning the whole line (line-visual).
type VisualMode struct {
	origin   int
	lineMode bool
}

// NewVisualModeChar anchors a char-visual selection at origin.
func NewVisualModeChar(origin int) *VisualMode { return &VisualMode{origin: origin} }

// NewVisualModeLine starts a line-visual selection.
func NewVisualModeLine() *VisualMode { return &VisualMode{lineMode: true} }

// Origin returns the anchor index and whether this is a char-visual
// selection (false for line-visual, which has no single anchor cell).
func (v *VisualMode) Origin() (int, bool) {
	if v.lineMode {
		return 0, false
	}
	return v.origin, true
}

func (v *VisualMode) rangeAroundCursor(line *Line) (int, int) {
	from, to := v.origin, line.Cursor()
	if from > to {
		from, to = to, from
	}
	return from, to + 1
}

func (v *VisualMode) ProcessEvent(ev Event, line *Line, cmds *[]Command) {
	if ev.Kind == EventKeyEscape || (ev.Kind == EventChar && ev.Ch == 'v') {
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal})
		return
	}

	switch ev.Kind {
	case EventKeyReturn:
		*cmds = append(*cmds, Command{Kind: CmdCommit})
		return
	case EventKeyLeft:
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar})
		return
	case EventKeyRight:
		*cmds = append(*cmds, Command{Kind: CmdCursorNextChar})
		return
	}

	if ev.Kind != EventChar {
		return
	}

	switch ev.Ch {
	case 'h':
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevChar})
	case 'l':
		*cmds = append(*cmds, Command{Kind: CmdCursorNextChar})
	case 'w':
		*cmds = append(*cmds, Command{Kind: CmdCursorNextWordHead})
	case 'W':
		*cmds = append(*cmds, Command{Kind: CmdCursorNextWordHeadWide})
	case 'e':
		*cmds = append(*cmds, Command{Kind: CmdCursorNextWordEnd})
	case 'E':
		*cmds = append(*cmds, Command{Kind: CmdCursorNextWordEndWide})
	case 'b':
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevWordHead})
	case 'B':
		*cmds = append(*cmds, Command{Kind: CmdCursorPrevWordHeadWide})
	case 'o':
		if !v.lineMode {
			*cmds = append(*cmds, Command{Kind: CmdCursorExact, Pos: v.origin})
			v.origin = line.Cursor()
		}
	case '$':
		*cmds = append(*cmds, Command{Kind: CmdCursorEnd})
	case '^':
		*cmds = append(*cmds, Command{Kind: CmdCursorBegin})
	case '0':
		*cmds = append(*cmds, Command{Kind: CmdCursorExact, Pos: 0})
	case 'D':
		store(cmds, line.String())
		*cmds = append(*cmds, Command{Kind: CmdDeleteLine}, Command{Kind: CmdChangeModeToNormal}, Command{Kind: CmdMakeCheckPoint})
	case 'C', 'S':
		store(cmds, line.String())
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert}, Command{Kind: CmdDeleteLine}, Command{Kind: CmdMakeCheckPoint})
	case 'Y':
		store(cmds, line.String())
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal})
	case 'd', 'x':
		v.deleteSelection(line, cmds)
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal}, Command{Kind: CmdMakeCheckPoint})
	case 'c', 's':
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToInsert})
		v.deleteSelection(line, cmds)
		*cmds = append(*cmds, Command{Kind: CmdMakeCheckPoint})
	case 'y':
		v.yankSelection(line, cmds)
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal})
	}
}

func (v *VisualMode) deleteSelection(line *Line, cmds *[]Command) {
	if v.lineMode {
		store(cmds, line.String())
		*cmds = append(*cmds, Command{Kind: CmdDeleteLine})
		return
	}
	from, to := v.rangeAroundCursor(line)
	store(cmds, line.Slice(from, to))
	*cmds = append(*cmds, Command{Kind: CmdDeleteRange, From: from, To: to})
}

func (v *VisualMode) yankSelection(line *Line, cmds *[]Command) {
	if v.lineMode {
		store(cmds, line.String())
		return
	}
	from, to := v.rangeAroundCursor(line)
	store(cmds, line.Slice(from, to))
}

// SearchMode owns its own query Line, rendered as a highlight range over
// history matches; it never edits the command line directly.
type SearchMode struct {
	query *Line
}

// NewSearchMode starts an empty reverse history search.
func NewSearchMode() *SearchMode { return &SearchMode{query: NewLine()} }

// Query returns the search text typed so far.
func (s *SearchMode) Query() string { return s.query.String() }

func (s *SearchMode) ProcessEvent(ev Event, _ *Line, cmds *[]Command) {
	switch ev.Kind {
	case EventKeyEscape, EventKeyTab:
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal})
		return
	case EventKeyReturn:
		*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal}, Command{Kind: CmdCommit})
		return
	case EventKeyBackspace:
		s.query.DeletePrev()
		*cmds = append(*cmds, Command{Kind: CmdHistorySearch, Query: s.query.String(), Reset: true})
		return
	case EventChar:
		s.query.Insert(ev.Ch)
		*cmds = append(*cmds, Command{Kind: CmdHistorySearch, Query: s.query.String(), Reset: true})
		return
	case EventCtrl:
		switch ev.Ch {
		case 'w':
			s.query.DeleteWord()
			*cmds = append(*cmds, Command{Kind: CmdHistorySearch, Query: s.query.String(), Reset: true})
		case 'u':
			*cmds = append(*cmds, Command{Kind: CmdChangeModeToNormal})
		case 'r':
			*cmds = append(*cmds, Command{Kind: CmdHistorySearch, Query: s.query.String(), Reset: false})
		}
	}
}
