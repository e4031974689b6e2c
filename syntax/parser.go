// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"bytes"
	"io"
)

// Parser turns shell source into a *File. A Parser is not safe for
// concurrent use, but is cheap to construct per line, matching how the
// engine calls it once per read_line result.
type Parser struct {
	name string
	lx   *lexer
}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads all of r and parses it as a single List (spec §4.1: program =
// list). name is used only for error messages.
func (p *Parser) Parse(r io.Reader, name string) (*File, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return p.ParseBytes(buf.Bytes(), name)
}

// ParseBytes is Parse without the io.Reader indirection; the main loop and
// the editor both already hold the committed line as a string.
func (p *Parser) ParseBytes(src []byte, name string) (*File, error) {
	p.name = name
	p.lx = newLexer(src, name)

	list, err := p.parseList()
	if err != nil {
		return nil, err
	}
	p.lx.skipSpace()
	if !p.lx.eof() {
		return nil, p.lx.errorf("unexpected %q", p.lx.peek())
	}
	return &File{Name: name, List: list}, nil
}

func (p *Parser) parseList() (*List, error) {
	first, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	list := &List{First: first}
	for {
		cond, ok := p.tryCondition()
		if !ok {
			break
		}
		pipe, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		list.Following = append(list.Following, ListItem{Cond: cond, Pipe: pipe})
	}
	return list, nil
}

func (p *Parser) tryCondition() (Condition, bool) {
	l := p.lx
	switch {
	case l.peek() == ';':
		l.advance()
		return Always, true
	case l.peek() == '&' && l.peekAt(1) == '&':
		l.advance()
		l.advance()
		return IfSuccess, true
	case l.peek() == '|' && l.peekAt(1) == '|':
		l.advance()
		l.advance()
		return IfError, true
	}
	return Always, false
}

func (p *Parser) parsePipeline() (*Pipeline, error) {
	l := p.lx
	l.skipSpace()
	start := l.pos()

	var lhs *Pipeline
	if l.peek() == '{' {
		l.advance()
		inner, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		l.skipSpace()
		if l.peek() != '}' {
			return nil, l.errorf("expected '}' to close group")
		}
		l.advance()
		lhs = inner
	} else {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		lhs = &Pipeline{Cmd: cmd, StartPos: cmd.Pos(), EndPos: cmd.End()}
	}

	if kind, ok := p.tryPipe(); ok {
		rhs, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		return &Pipeline{Kind: kind, Lhs: lhs, Rhs: rhs, StartPos: start, EndPos: rhs.End()}, nil
	}
	return lhs, nil
}

func (p *Parser) tryPipe() (PipeKind, bool) {
	l := p.lx
	l.skipSpace()
	switch {
	case l.peek() == '|' && l.peekAt(1) == '&':
		l.advance()
		l.advance()
		l.skipSpace()
		return PipeBoth, true
	case l.peek() == '|' && l.peekAt(1) == '!':
		l.advance()
		l.advance()
		l.skipSpace()
		return PipeStderr, true
	case l.peek() == '|' && l.peekAt(1) != '|':
		l.advance()
		l.skipSpace()
		return PipeStdout, true
	}
	return 0, false
}

func (p *Parser) parseCommand() (*Command, error) {
	l := p.lx
	l.skipSpace()
	start := l.pos()

	if l.peek() == '(' {
		l.advance()
		list, err := p.parseList()
		if err != nil {
			return nil, err
		}
		l.skipSpace()
		if l.peek() != ')' {
			return nil, l.errorf("expected ')' to close subshell")
		}
		l.advance()
		return &Command{SubShell: list, StartPos: start, EndPos: l.pos()}, nil
	}

	var args []*Argument
	for !p.atArgumentBoundary() {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return nil, l.errorf("expected a command")
	}
	return &Command{Args: args, StartPos: args[0].Pos(), EndPos: args[len(args)-1].End()}, nil
}

// atArgumentBoundary looks past any run of whitespace (without consuming
// it) to see whether a list/pipe/group terminator follows, in which case
// the current run of arguments is over.
func (p *Parser) atArgumentBoundary() bool {
	l := p.lx
	save := l.off
	l.skipSpace()
	b := l.peek()
	boundary := l.eof() || b == ')' || b == '}' || b == ';' || b == '|' ||
		(b == '&' && l.peekAt(1) == '&')
	l.off = save
	return boundary
}

func (p *Parser) parseArgument() (*Argument, error) {
	l := p.lx
	l.skipSpace()
	start := l.pos()

	at := false
	if l.peek() == '@' {
		l.advance()
		at = true
	}
	str, err := p.parseString()
	if err != nil {
		return nil, err
	}
	return &Argument{At: at, Str: str, StartPos: start, EndPos: l.pos()}, nil
}

func (p *Parser) parseString() (*Str, error) {
	switch p.lx.peek() {
	case '\'':
		return p.parseSingleQuoted()
	case '"':
		return p.parseDoubleQuoted()
	default:
		return p.parseRaw()
	}
}

func (p *Parser) parseSingleQuoted() (*Str, error) {
	l := p.lx
	start := l.pos()
	l.advance() // opening '

	var buf bytes.Buffer
	partStart := l.pos()
	for {
		if l.eof() {
			return nil, l.errorf("unterminated single-quoted string")
		}
		b := l.peek()
		if b == '\'' {
			l.advance()
			break
		}
		if b == '\\' && (l.peekAt(1) == '\'' || l.peekAt(1) == '\\') {
			l.advance()
			buf.WriteByte(l.advance())
			continue
		}
		buf.WriteByte(l.advance())
	}
	str := &Str{StartPos: start, EndPos: l.pos()}
	str.Parts = []*Part{{StartPos: partStart, EndPos: l.pos(), Chars: buf.String()}}
	return str, nil
}

func (p *Parser) parseDoubleQuoted() (*Str, error) {
	l := p.lx
	start := l.pos()
	l.advance() // opening "

	str := &Str{StartPos: start}
	var buf bytes.Buffer
	chunkStart := l.pos()
	flush := func() {
		if buf.Len() > 0 {
			str.Parts = append(str.Parts, &Part{StartPos: chunkStart, EndPos: l.pos(), Chars: buf.String()})
			buf.Reset()
		}
	}
	for {
		if l.eof() {
			return nil, l.errorf("unterminated double-quoted string")
		}
		b := l.peek()
		switch {
		case b == '"':
			l.advance()
			flush()
			str.EndPos = l.pos()
			return str, nil
		case b == '\\' && (l.peekAt(1) == '"' || l.peekAt(1) == '\\' || l.peekAt(1) == '$'):
			l.advance()
			buf.WriteByte(l.advance())
		case b == '$':
			flush()
			exp, err := p.parseExpansion()
			if err != nil {
				return nil, err
			}
			str.Parts = append(str.Parts, &Part{StartPos: exp.Pos(), EndPos: exp.End(), Expansion: exp})
			chunkStart = l.pos()
		default:
			if buf.Len() == 0 {
				chunkStart = l.pos()
			}
			buf.WriteByte(l.advance())
		}
	}
}

// parseRaw parses an unquoted word: a maximal run of literal runs and
// expansions, stopping at unescaped whitespace or a disallowed metachar.
func (p *Parser) parseRaw() (*Str, error) {
	l := p.lx
	start := l.pos()
	str := &Str{StartPos: start}

	var buf bytes.Buffer
	chunkStart := l.pos()
	flush := func() {
		if buf.Len() > 0 {
			str.Parts = append(str.Parts, &Part{StartPos: chunkStart, EndPos: l.pos(), Chars: buf.String()})
			buf.Reset()
		}
	}

	for {
		if l.eof() {
			break
		}
		b := l.peek()

		if b == '\\' {
			nb := l.peekAt(1)
			if nb != 0 && isMeta(nb) {
				l.advance()
				if buf.Len() == 0 {
					chunkStart = l.pos()
				}
				buf.WriteByte(l.advance())
				continue
			}
			return nil, l.errorf("invalid escape sequence")
		}

		if b == '$' {
			flush()
			exp, err := p.parseExpansion()
			if err != nil {
				return nil, err
			}
			str.Parts = append(str.Parts, &Part{StartPos: exp.Pos(), EndPos: exp.End(), Expansion: exp})
			chunkStart = l.pos()
			continue
		}
		if (b == '=' || b == '?') && l.peekAt(1) == '(' {
			flush()
			exp, err := p.parseExpansion()
			if err != nil {
				return nil, err
			}
			str.Parts = append(str.Parts, &Part{StartPos: exp.Pos(), EndPos: exp.End(), Expansion: exp})
			chunkStart = l.pos()
			continue
		}
		if isSpace(b) {
			break
		}
		if isMeta(b) {
			// '=' and '?' reach here only when not followed by '(': tolerated.
			if b != '=' && b != '?' {
				break
			}
		}
		if buf.Len() == 0 {
			chunkStart = l.pos()
		}
		buf.WriteByte(l.advance())
	}
	flush()
	str.EndPos = l.pos()
	if len(str.Parts) == 0 {
		return nil, l.errorf("expected an argument")
	}
	return str, nil
}

// parseExpansion parses $name, ${name}, $(list), $!(list), $&(list),
// =(list), or ?(list), starting at the introducing byte ($, = or ?).
func (p *Parser) parseExpansion() (*Expansion, error) {
	l := p.lx
	start := l.pos()

	switch l.peek() {
	case '=':
		l.advance()
		list, err := p.parseSubshellBody()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpSubstPipe, List: list, StartPos: start, EndPos: l.pos()}, nil
	case '?':
		l.advance()
		list, err := p.parseSubshellBody()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpSubstStat, List: list, StartPos: start, EndPos: l.pos()}, nil
	}

	// '$' forms.
	l.advance()
	switch l.peek() {
	case '&':
		l.advance()
		list, err := p.parseSubshellBody()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpSubstBoth, List: list, StartPos: start, EndPos: l.pos()}, nil
	case '!':
		l.advance()
		list, err := p.parseSubshellBody()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpSubstErr, List: list, StartPos: start, EndPos: l.pos()}, nil
	case '(':
		list, err := p.parseSubshellBody()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpSubstOut, List: list, StartPos: start, EndPos: l.pos()}, nil
	case '{':
		l.advance()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if l.peek() != '}' {
			return nil, l.errorf("expected '}' to close ${...}")
		}
		l.advance()
		return &Expansion{Kind: ExpVariable, Name: name, StartPos: start, EndPos: l.pos()}, nil
	default:
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &Expansion{Kind: ExpVariable, Name: name, StartPos: start, EndPos: l.pos()}, nil
	}
}

// parseSubshellBody parses "(" list ")", used by every substitution kind.
func (p *Parser) parseSubshellBody() (*List, error) {
	l := p.lx
	if l.peek() != '(' {
		return nil, l.errorf("expected '(' to start substitution")
	}
	l.advance()
	list, err := p.parseList()
	if err != nil {
		return nil, err
	}
	l.skipSpace()
	if l.peek() != ')' {
		return nil, l.errorf("expected ')' to close substitution")
	}
	l.advance()
	return list, nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (p *Parser) parseIdent() (string, error) {
	l := p.lx
	if !isIdentStart(l.peek()) {
		return "", l.errorf("expected a variable name")
	}
	start := l.off
	l.advance()
	for isIdentCont(l.peek()) {
		l.advance()
	}
	return string(l.src[start:l.off]), nil
}
