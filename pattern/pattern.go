// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package pattern expands a path pattern word into the sorted set of
// filesystem paths it denotes: a leading "~" is expanded to $HOME, and a
// literal "*" matches any run of bytes within a single path segment. There
// is no "?" wildcard, no character classes, and no recursive "**" — this is
// intentionally a much smaller language than shell glob(7).
package pattern

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandTilde replaces a leading "~" with $HOME. There is no "~user" form:
// "~user" becomes $HOME followed by "user", since the shell has no notion
// of other users' home directories.
func ExpandTilde(word string) string {
	if !strings.HasPrefix(word, "~") {
		return word
	}
	return os.Getenv("HOME") + word[1:]
}

// Expand walks the filesystem, starting at "/" or "." depending on whether
// word is absolute, matching each "/"-separated segment of word against the
// matching filesystem entries via Match. If word contains no "*" at all, it
// is returned unchanged: Expand never stats a literal path to check it
// exists, matching the source program's behavior of leaving non-pattern
// words alone. The returned paths are sorted for determinism; the original
// directory-iteration order is not.
func Expand(word string) []string {
	if !strings.Contains(word, "*") {
		return []string{word}
	}

	abs := filepath.IsAbs(word)
	trimmed := word
	if abs {
		trimmed = word[1:]
	}
	var segments []string
	if trimmed != "" {
		segments = strings.Split(trimmed, "/")
	}

	origin := "."
	if abs {
		origin = "/"
	}

	var matched []string
	search(&matched, origin, segments)
	sort.Strings(matched)
	return matched
}

// search walks dir matching segments[0] against its entries, recursing into
// matching subdirectories (following symlinks-to-directories) until
// segments is exhausted, at which point every matching entry is a result.
func search(matched *[]string, dir string, segments []string) {
	if len(segments) == 0 {
		return
	}
	pat, rest := segments[0], segments[1:]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range entries {
		name := ent.Name()
		if !Match(pat, name) {
			continue
		}
		entPath := filepath.Join(dir, name)

		isDir := ent.IsDir()
		if ent.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(entPath); err == nil {
				isDir = info.IsDir()
			} else {
				isDir = false
			}
		}

		if len(rest) == 0 {
			*matched = append(*matched, entPath)
		} else if isDir {
			search(matched, entPath, rest)
		}
	}
}

// Match reports whether name matches pat, where "*" in pat matches any run
// of bytes (including none) within name. There is no other metacharacter.
func Match(pat, name string) bool {
	if pat == "" {
		return name == ""
	}
	if pat[0] == '*' {
		for i := 0; i <= len(name); i++ {
			if Match(pat[1:], name[i:]) {
				return true
			}
		}
		return false
	}
	if name == "" {
		return false
	}
	return pat[0] == name[0] && Match(pat[1:], name[1:])
}
