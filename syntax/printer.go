// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an unambiguous rendering of node to w. Re-parsing the
// output must reproduce a structurally identical *List (the round-trip
// property tested in parser_test.go); Fprint does not try to reproduce the
// original quoting style, only a canonical one.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(node)
	return p.err
}

// String renders node the same way Fprint does, for tests and error
// messages that want a one-line form.
func String(node Node) string {
	var b strings.Builder
	_ = Fprint(&b, node)
	return b.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) node(n Node) {
	switch x := n.(type) {
	case *File:
		p.node(x.List)
	case *List:
		p.list(x)
	case *Pipeline:
		p.pipeline(x)
	case *Command:
		p.command(x)
	case *Argument:
		p.argument(x)
	case *Str:
		p.str(x)
	case *Expansion:
		p.expansion(x)
	default:
		p.err = fmt.Errorf("syntax: Fprint: unknown node type %T", n)
	}
}

func (p *printer) list(l *List) {
	p.pipeline(l.First)
	for _, item := range l.Following {
		p.print(" ")
		p.print(item.Cond.String())
		p.print(" ")
		p.pipeline(item.Pipe)
	}
}

func (p *printer) pipeline(pl *Pipeline) {
	if pl.Single() {
		p.command(pl.Cmd)
		return
	}
	if pl.Lhs.Single() {
		p.pipeline(pl.Lhs)
	} else {
		// The parser nests pipelines to the right, so a connected Lhs
		// needs braces to re-parse as the same tree.
		p.print("{ ")
		p.pipeline(pl.Lhs)
		p.print(" }")
	}
	p.print(" ")
	p.print(pl.Kind.String())
	p.print(" ")
	p.pipeline(pl.Rhs)
}

func (p *printer) command(c *Command) {
	if c.SubShell != nil {
		p.print("(")
		p.list(c.SubShell)
		p.print(")")
		return
	}
	for i, arg := range c.Args {
		if i > 0 {
			p.print(" ")
		}
		p.argument(arg)
	}
}

func (p *printer) argument(a *Argument) {
	if a.At {
		p.print("@")
	}
	p.str(a.Str)
}

// str always renders as a double-quoted string: this keeps printing total
// and unambiguous regardless of which raw characters the original word
// contained, at the cost of not reproducing the source's own quote style.
func (p *printer) str(s *Str) {
	p.print("\"")
	for _, part := range s.Parts {
		if part.Expansion != nil {
			p.expansion(part.Expansion)
			continue
		}
		p.print(escapeDouble(part.Chars))
	}
	p.print("\"")
}

func escapeDouble(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\', '$':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *printer) expansion(e *Expansion) {
	switch e.Kind {
	case ExpVariable:
		p.print("${")
		p.print(e.Name)
		p.print("}")
	case ExpSubstOut:
		p.print("$(")
		p.list(e.List)
		p.print(")")
	case ExpSubstErr:
		p.print("$!(")
		p.list(e.List)
		p.print(")")
	case ExpSubstBoth:
		p.print("$&(")
		p.list(e.List)
		p.print(")")
	case ExpSubstPipe:
		p.print("=(")
		p.list(e.List)
		p.print(")")
	case ExpSubstStat:
		p.print("?(")
		p.list(e.List)
		p.print(")")
	}
}
