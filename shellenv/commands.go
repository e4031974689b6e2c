// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package shellenv

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Resolve looks a token up in the command index: builtins overlay
// externals, so a builtin named "cd" always wins over a same-named
// executable on PATH.
func (e *Env) Resolve(token string) (Executable, bool) {
	ex, ok := e.commands[token]
	return ex, ok
}

// BindBuiltin registers a builtin under name, overlaying any external of
// the same name found on PATH.
func (e *Env) BindBuiltin(name string, fn BuiltinFunc) {
	e.commands[name] = Executable{Kind: Builtin, Builtin: fn}
}

// Names returns every indexed command name, builtin and external alike, in
// no particular order. The completion engine sorts and filters its own copy.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	return names
}

// RebuildCommands clears the command index and re-scans PATH, then
// re-applies builtins already bound via BindBuiltin so that they continue
// to overlay any external of the same name. Each PATH directory is read
// concurrently; the merge back into a single map happens in PATH order so
// that the first directory providing a given name always wins, regardless
// of which goroutine finishes first.
func (e *Env) RebuildCommands(path string) error {
	builtins := make(map[string]Executable, len(e.commands))
	for name, ex := range e.commands {
		if ex.Kind == Builtin {
			builtins[name] = ex
		}
	}
	e.commands = make(map[string]Executable)

	dirs := strings.Split(path, string(os.PathListSeparator))
	perDir := make([]map[string]string, len(dirs))

	var g errgroup.Group
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			perDir[i] = scanDir(dir)
			return nil
		})
	}
	_ = g.Wait() // scanDir never returns an error; unreadable dirs yield empty maps

	for _, found := range perDir {
		for name, path := range found {
			if _, exists := e.commands[name]; !exists {
				e.commands[name] = Executable{Kind: External, Path: path}
			}
		}
	}
	for name, ex := range builtins {
		e.commands[name] = ex
	}
	return nil
}

// scanDir lists dir's non-directory entries, mapping each name to its full
// path. An unreadable directory (missing, no permission) contributes
// nothing rather than failing the whole PATH scan.
func scanDir(dir string) map[string]string {
	found := map[string]string{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return found
	}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		found[ent.Name()] = filepath.Join(dir, ent.Name())
	}
	return found
}
