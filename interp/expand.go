// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"io"
	"strings"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/pattern"
	"vimsh.dev/vimsh/syntax"
)

// substArgLimit bounds how much of a substitution's output is read back
// into the parent, so a runaway child cannot exhaust memory (§5).
const substArgLimit = 0x200000 // 2MiB

// evalArgs expands every Argument into zero or more argv tokens. A plain
// Arg contributes exactly one token; an AtExpansion splits its expanded
// word on ASCII whitespace into any number of tokens, dropping empty
// pieces (§4.2).
func (e *Engine) evalArgs(args []*syntax.Argument, stdio ioset.Set) []string {
	var argv []string
	for _, a := range args {
		word := e.evalStr(a.Str, stdio)
		if a.At {
			argv = append(argv, strings.Fields(word)...)
			continue
		}
		argv = append(argv, word)
	}
	return argv
}

// evalStr concatenates a Str's literal and expanded parts into one token,
// then applies tilde expansion and glob expansion to the token as a whole,
// never per-part (§4.2).
func (e *Engine) evalStr(str *syntax.Str, stdio ioset.Set) string {
	var buf []byte
	for _, part := range str.Parts {
		if part.Expansion == nil {
			buf = append(buf, part.Chars...)
			continue
		}
		buf = e.evalExpansion(part.Expansion, stdio, buf)
	}

	word := pattern.ExpandTilde(string(buf))
	return strings.Join(pattern.Expand(word), " ")
}

func (e *Engine) evalExpansion(exp *syntax.Expansion, stdio ioset.Set, buf []byte) []byte {
	switch exp.Kind {
	case syntax.ExpVariable:
		return append(buf, e.Env.Lookup(exp.Name)...)
	case syntax.ExpSubstOut, syntax.ExpSubstErr, syntax.ExpSubstBoth:
		return appendCompacted(buf, e.runSubstitution(exp, stdio))
	default:
		// =(...) and ?(...) are reserved, unimplemented forms (§9); they
		// contribute nothing to the token.
		return buf
	}
}

// runSubstitution forks a non-interactive child that evaluates exp.List
// with its selected stream(s) redirected into a pipe, and returns up to
// substArgLimit bytes of what it wrote.
func (e *Engine) runSubstitution(exp *syntax.Expansion, stdio ioset.Set) []byte {
	pipe, err := ioset.NewPipe()
	if err != nil {
		return nil
	}

	childIO := stdio
	switch exp.Kind {
	case syntax.ExpSubstOut:
		childIO = childIO.WithOutput(pipe.Write)
	case syntax.ExpSubstErr:
		childIO = childIO.WithError(pipe.Write)
	case syntax.ExpSubstBoth:
		childIO = childIO.WithOutput(pipe.Write).WithError(pipe.Write)
	}

	src := e.Source[exp.List.Pos()-1 : exp.List.End()-1]
	cmd, err := e.selfCmd(src, childIO)
	if err != nil {
		pipe.Write.Close()
		pipe.Read.Close()
		return nil
	}
	if err := cmd.Start(); err != nil {
		pipe.Write.Close()
		pipe.Read.Close()
		return nil
	}
	pipe.Write.Close()

	out, _ := io.ReadAll(io.LimitReader(pipe.Read, substArgLimit))
	pipe.Read.Close()
	_ = cmd.Wait()
	return out
}

// appendCompacted appends raw to buf, collapsing every run of ASCII
// whitespace into a single space and trimming one trailing space off the
// result, matching the original program's substitution output handling.
func appendCompacted(buf, raw []byte) []byte {
	for _, b := range raw {
		switch b {
		case ' ', '\n', '\t':
			if len(buf) == 0 || buf[len(buf)-1] != ' ' {
				buf = append(buf, ' ')
			}
		default:
			buf = append(buf, b)
		}
	}
	if len(buf) > 0 && buf[len(buf)-1] == ' ' {
		buf = buf[:len(buf)-1]
	}
	return buf
}
