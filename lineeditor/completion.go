// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vimsh.dev/vimsh/pattern"
)

// Completer returns the suffixes that could be appended to the last word of
// words to complete it. Each candidate is a tail, not a full replacement.
type Completer interface {
	Candidates(words []string) []string
}

// metaChars lists the shell metacharacters a completed filename must escape
// before it can be spliced back into the line.
const metaChars = " \t\n@;&|$()[]'\"=?{}\\"

func escapeMeta(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// FileCompletion completes a partial path against the filesystem, relative
// to the directory it was constructed in.
type FileCompletion struct {
	baseDir string
}

// NewFileCompletion captures the current working directory as the base for
// relative completions.
func NewFileCompletion() *FileCompletion {
	cwd, _ := os.Getwd()
	return &FileCompletion{baseDir: cwd}
}

// Candidates implements Completer, completing the last word as a path.
func (f *FileCompletion) Candidates(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	return f.find(words[len(words)-1])
}

func (f *FileCompletion) find(partial string) []string {
	var path string
	switch {
	case strings.HasPrefix(partial, "~"):
		path = pattern.ExpandTilde(partial)
	case filepath.IsAbs(partial):
		path = partial
	default:
		path = filepath.Join(f.baseDir, partial)
	}

	var dirName, fileName string
	if partial == "" || strings.HasSuffix(partial, string(filepath.Separator)) {
		dirName = path
		fileName = ""
	} else {
		dirName = filepath.Dir(path)
		fileName = filepath.Base(path)
	}

	entries, err := os.ReadDir(dirName)
	if err != nil {
		return nil
	}

	var candidates []string
	soleIsDir := false
	for _, ent := range entries {
		name := ent.Name()
		tail, ok := strings.CutPrefix(name, fileName)
		if !ok {
			continue
		}
		candidates = append(candidates, escapeMeta(tail))
		soleIsDir = ent.IsDir()
	}
	// A trailing separator is only added when there is exactly one
	// candidate and it is a directory: with several matches, appending it
	// to every directory among them would corrupt the ambiguous common
	// prefix a later Tab cycles through.
	if len(candidates) == 1 && soleIsDir {
		candidates[0] += string(filepath.Separator)
	}
	return candidates
}

// CommandCompletion dispatches completion by argument position: the first
// word of a line completes against known command names; later words look up
// words[0] in a per-command rule map, falling back to fallback (typically a
// FileCompletion) when no rule applies. sudo delegates its first argument
// back to the command list, so "sudo <tab>" completes subcommand names.
type CommandCompletion struct {
	names    []string
	rules    map[string]Completer
	fallback Completer
}

// NewCommandCompletion builds a completer over the given command names,
// falling back to fallback for any word position a rule does not cover.
func NewCommandCompletion(names []string, fallback Completer) *CommandCompletion {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &CommandCompletion{names: sorted, rules: map[string]Completer{}, fallback: fallback}
}

// Rule registers a completer for the given command's non-first arguments.
func (c *CommandCompletion) Rule(command string, completer Completer) {
	c.rules[command] = completer
}

// UpdateNames replaces the command-name list completed against, sorted the
// same way NewCommandCompletion sorts its initial set. The shell calls this
// once per prompt, since PATH and the builtin list can both change between
// commands (a builtin alias added, a new binary installed).
func (c *CommandCompletion) UpdateNames(names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	c.names = sorted
}

// Candidates implements Completer.
func (c *CommandCompletion) Candidates(words []string) []string {
	if len(words) <= 1 {
		return c.commandCandidates(words)
	}

	cmd := words[0]
	if cmd == "sudo" && len(words) == 2 {
		return c.commandCandidates(words[1:])
	}

	if rule, ok := c.rules[cmd]; ok {
		return rule.Candidates(words)
	}
	return c.fallback.Candidates(words)
}

func (c *CommandCompletion) commandCandidates(words []string) []string {
	prefix := ""
	if len(words) > 0 {
		prefix = words[len(words)-1]
	}
	var out []string
	for _, name := range c.names {
		if tail, ok := strings.CutPrefix(name, prefix); ok {
			out = append(out, tail)
		}
	}
	return out
}

// completionEngine holds one Tab-cycling session's state: the candidate
// list for the line it was last computed against, and whether the most
// recent pop came from cycling (so the driver knows how many characters of
// the previous candidate to erase before inserting the next one).
type completionEngine struct {
	completer  Completer
	candidates []string
	line       string
	dirty      int // 0 = clean, 1 = freshly computed, 2 = cycled at least once
}

func newCompletionEngine(c Completer) *completionEngine {
	return &completionEngine{completer: c}
}

func (c *completionEngine) clear() {
	c.candidates = nil
	c.line = ""
	c.dirty = 0
}

func (c *completionEngine) cleared() bool { return c.dirty == 0 }

func (c *completionEngine) update(line string) {
	if c.line == line {
		return
	}
	words := strings.Fields(line)
	if strings.HasSuffix(line, " ") {
		words = append(words, "")
	}
	c.candidates = c.completer.Candidates(words)
	c.line = line
	c.dirty = 1
}

// next rotates the first candidate to the back and returns it, the one now
// freshest in front of the cursor.
func (c *completionEngine) next() (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	c.dirty = 2
	cand := c.candidates[0]
	c.candidates = append(c.candidates[1:], cand)
	return c.candidates[len(c.candidates)-1], true
}

// prev returns the candidate last handed out by next, so the driver can
// erase it before inserting the next rotation.
func (c *completionEngine) prev() (string, bool) {
	if c.dirty != 2 || len(c.candidates) == 0 {
		return "", false
	}
	return c.candidates[len(c.candidates)-1], true
}

func (c *completionEngine) iter() []string { return c.candidates }

func (c *completionEngine) len() int { return len(c.candidates) }
