// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := NewParser().Parse(strings.NewReader(src), "")
	qt.Assert(t, err, qt.IsNil)
	return f
}

func TestParseSimpleCommand(t *testing.T) {
	t.Parallel()
	f := parse(t, `echo hello world`)
	qt.Assert(t, f.List.Following, qt.HasLen, 0)
	cmd := f.List.First.Cmd
	qt.Assert(t, cmd, qt.IsNotNil)
	qt.Assert(t, cmd.Args, qt.HasLen, 3)
	for i, want := range []string{"echo", "hello", "world"} {
		got, ok := cmd.Args[i].Str.Literal()
		qt.Assert(t, ok, qt.IsTrue)
		qt.Assert(t, got, qt.Equals, want)
	}
}

func TestParseQuoting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{`'a b'`, "a b"},
		{`'it\'s'`, "it's"}, // escaped quote inside a single-quoted string
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`a\ b`, "a b"},
		{`a\;b`, "a;b"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.src, func(t *testing.T) {
			t.Parallel()
			f := parse(t, "echo "+test.src)
			arg := f.List.First.Cmd.Args[1]
			got, ok := arg.Str.Literal()
			qt.Assert(t, ok, qt.IsTrue)
			qt.Assert(t, got, qt.Equals, test.want)
		})
	}
}

func TestParseAtExpansion(t *testing.T) {
	t.Parallel()
	f := parse(t, `echo @args`)
	arg := f.List.First.Cmd.Args[1]
	qt.Assert(t, arg.At, qt.IsTrue)
}

func TestParsePipeline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		kind PipeKind
	}{
		{"a | b", PipeStdout},
		{"a |! b", PipeStderr},
		{"a |& b", PipeBoth},
	}
	for _, test := range tests {
		test := test
		t.Run(test.src, func(t *testing.T) {
			t.Parallel()
			f := parse(t, test.src)
			pl := f.List.First
			qt.Assert(t, pl.Single(), qt.IsFalse)
			qt.Assert(t, pl.Kind, qt.Equals, test.kind)
		})
	}
}

func TestParsePipeVsOr(t *testing.T) {
	t.Parallel()
	// "a || b" must parse as a List with an IfError following, not as a
	// pipeline: the pipe() rule only matches "|&", "|!", or a "|" not
	// itself followed by another "|".
	f := parse(t, `a || b`)
	qt.Assert(t, f.List.First.Single(), qt.IsTrue)
	qt.Assert(t, f.List.Following, qt.HasLen, 1)
	qt.Assert(t, f.List.Following[0].Cond, qt.Equals, IfError)
}

func TestParseList(t *testing.T) {
	t.Parallel()
	f := parse(t, `a ; b && c || d`)
	qt.Assert(t, f.List.Following, qt.HasLen, 3)
	qt.Assert(t, f.List.Following[0].Cond, qt.Equals, Always)
	qt.Assert(t, f.List.Following[1].Cond, qt.Equals, IfSuccess)
	qt.Assert(t, f.List.Following[2].Cond, qt.Equals, IfError)
}

func TestParseGroup(t *testing.T) {
	t.Parallel()
	// "{...}" is a transparent grouping: it produces no extra AST node.
	f := parse(t, `{ a | b } | c`)
	pl := f.List.First
	qt.Assert(t, pl.Single(), qt.IsFalse)
	qt.Assert(t, pl.Lhs.Single(), qt.IsFalse) // the grouped "a | b"
	qt.Assert(t, pl.Rhs.Single(), qt.IsTrue)
}

func TestParseSubShell(t *testing.T) {
	t.Parallel()
	f := parse(t, `(echo hi)`)
	cmd := f.List.First.Cmd
	qt.Assert(t, cmd.Args, qt.IsNil)
	qt.Assert(t, cmd.SubShell, qt.IsNotNil)
	qt.Assert(t, cmd.SubShell.First.Cmd.Args, qt.HasLen, 2)
}

func TestParseVariableExpansion(t *testing.T) {
	t.Parallel()
	tests := []string{`$HOME`, `${HOME}`}
	for _, src := range tests {
		src := src
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			f := parse(t, "echo "+src)
			arg := f.List.First.Cmd.Args[1]
			qt.Assert(t, arg.Str.Parts, qt.HasLen, 1)
			exp := arg.Str.Parts[0].Expansion
			qt.Assert(t, exp, qt.IsNotNil)
			qt.Assert(t, exp.Kind, qt.Equals, ExpVariable)
			qt.Assert(t, exp.Name, qt.Equals, "HOME")
		})
	}
}

func TestParseSubstitutionKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		kind ExpansionKind
	}{
		{`$(ls)`, ExpSubstOut},
		{`$!(ls)`, ExpSubstErr},
		{`$&(ls)`, ExpSubstBoth},
		{`=(ls)`, ExpSubstPipe},
		{`?(ls)`, ExpSubstStat},
	}
	for _, test := range tests {
		test := test
		t.Run(test.src, func(t *testing.T) {
			t.Parallel()
			f := parse(t, "echo "+test.src)
			arg := f.List.First.Cmd.Args[1]
			exp := arg.Str.Parts[0].Expansion
			qt.Assert(t, exp, qt.IsNotNil)
			qt.Assert(t, exp.Kind, qt.Equals, test.kind)
		})
	}
}

func TestParseBareEqualQuestionAreLiteral(t *testing.T) {
	t.Parallel()
	f := parse(t, `echo a=b?c`)
	got, ok := f.List.First.Cmd.Args[1].Str.Literal()
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, got, qt.Equals, "a=b?c")
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []string{
		``,
		`(echo hi`,
		`{ echo hi`,
		`echo "unterminated`,
		`echo 'unterminated`,
		`echo (`,
	}
	for _, src := range tests {
		src := src
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			_, err := NewParser().Parse(strings.NewReader(src), "t")
			qt.Assert(t, err, qt.IsNotNil)
			var perr *ParseError
			qt.Assert(t, errorsAs(err, &perr), qt.IsTrue)
		})
	}
}

func errorsAs(err error, target **ParseError) bool {
	if pe, ok := err.(*ParseError); ok {
		*target = pe
		return true
	}
	return false
}
