// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package syntax implements parsing and printing of the shell's source
// language: lists of pipelines of commands, joined by ; && ||, piped
// together with | |! |&, with single/double/raw-quoted string arguments
// that may embed variable and command-substitution expansions.
package syntax

import "strings"

// Pos is a position within a source file, as a byte offset starting at 1.
// The zero Pos is invalid.
type Pos uint32

// Node is implemented by every AST node.
type Node interface {
	Pos() Pos
	End() Pos
}

// File is the parsed form of one line (or startup-file line) of source.
type File struct {
	Name string
	List *List
}

func (f *File) Pos() Pos { return f.List.Pos() }
func (f *File) End() Pos { return f.List.End() }

// Condition joins two pipelines within a List.
type Condition int

const (
	Always Condition = iota
	IfSuccess
	IfError
)

func (c Condition) String() string {
	switch c {
	case IfSuccess:
		return "&&"
	case IfError:
		return "||"
	default:
		return ";"
	}
}

// List is a leading Pipeline followed by zero or more conditioned
// Pipelines, per spec grammar: list = pipeline { (";"|"&&"|"||") pipeline }.
type List struct {
	First     *Pipeline
	Following []ListItem
}

// ListItem is one (condition, pipeline) pair following the first pipeline.
type ListItem struct {
	Cond Condition
	Pipe *Pipeline
}

func (l *List) Pos() Pos { return l.First.Pos() }
func (l *List) End() Pos {
	if n := len(l.Following); n > 0 {
		return l.Following[n-1].Pipe.End()
	}
	return l.First.End()
}

// PipeKind is the connector between two pipelines.
type PipeKind int

const (
	PipeStdout PipeKind = iota
	PipeStderr
	PipeBoth
)

func (k PipeKind) String() string {
	switch k {
	case PipeStderr:
		return "|!"
	case PipeBoth:
		return "|&"
	default:
		return "|"
	}
}

// Pipeline is either a single Command or two Pipelines joined by a PipeKind.
type Pipeline struct {
	StartPos, EndPos Pos

	Cmd *Command // set when this is a single command

	Kind     PipeKind // set when Lhs/Rhs are set
	Lhs, Rhs *Pipeline
}

func (p *Pipeline) Pos() Pos { return p.StartPos }
func (p *Pipeline) End() Pos { return p.EndPos }

// Single reports whether this pipeline is a bare command (not connected).
func (p *Pipeline) Single() bool { return p.Cmd != nil }

// Command is either a Simple command (a list of Arguments) or a SubShell
// wrapping a nested List.
type Command struct {
	StartPos, EndPos Pos

	Args []*Argument // set for a simple command

	SubShell *List // set for a subshell command, "(" list ")"
}

func (c *Command) Pos() Pos { return c.StartPos }
func (c *Command) End() Pos { return c.EndPos }

// Argument is either a single token (Arg) or an @-expansion that splits on
// whitespace into multiple tokens at evaluation time (AtExpansion).
type Argument struct {
	StartPos, EndPos Pos

	At  bool
	Str *Str
}

func (a *Argument) Pos() Pos { return a.StartPos }
func (a *Argument) End() Pos { return a.EndPos }

// Str is an ordered sequence of literal/expansion Parts making up one
// quoted/raw string.
type Str struct {
	StartPos, EndPos Pos
	Parts            []*Part
}

func (s *Str) Pos() Pos { return s.StartPos }
func (s *Str) End() Pos { return s.EndPos }

// Literal renders the Str's contents assuming it has no Expansion parts; it
// is used by the printer to recognize plain words and by round-trip tests.
func (s *Str) Literal() (string, bool) {
	var b strings.Builder
	for _, p := range s.Parts {
		if p.Expansion != nil {
			return "", false
		}
		b.WriteString(p.Chars)
	}
	return b.String(), true
}

// Part is one piece of a Str: either literal Chars or an Expansion.
type Part struct {
	StartPos, EndPos Pos

	Chars     string
	Expansion *Expansion
}

func (p *Part) Pos() Pos { return p.StartPos }
func (p *Part) End() Pos { return p.EndPos }

// ExpansionKind distinguishes the forms of $.../=(.../?(... expansions.
type ExpansionKind int

const (
	ExpVariable  ExpansionKind = iota // $name or ${name}
	ExpSubstOut                      // $(list)
	ExpSubstErr                      // $!(list)
	ExpSubstBoth                     // $&(list)
	ExpSubstPipe                     // =(list) -- reserved, unimplemented
	ExpSubstStat                     // ?(list) -- reserved, unimplemented
)

// Expansion is a variable lookup or a command substitution.
type Expansion struct {
	StartPos, EndPos Pos

	Kind ExpansionKind
	Name string // set for ExpVariable
	List *List  // set for the five substitution kinds
}

func (e *Expansion) Pos() Pos { return e.StartPos }
func (e *Expansion) End() Pos { return e.EndPos }
