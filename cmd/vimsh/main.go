// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// vimsh is an interactive POSIX-ish shell with a modal, Vim-like line
// editor. It wires together [shellenv], [interp] and [lineeditor] the same
// way gosh wires [interp] to a bare terminal, but adds the job-control
// startup dance and prompt construction a real login shell needs.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"vimsh.dev/vimsh/builtin"
	"vimsh.dev/vimsh/internal/logx"
	"vimsh.dev/vimsh/interp"
	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
	"vimsh.dev/vimsh/lineeditor"
	"vimsh.dev/vimsh/shellenv"
	"vimsh.dev/vimsh/startup"
	"vimsh.dev/vimsh/termsize"
)

var command = flag.String("c", "", "command to be executed, non-interactively")

func main() {
	os.Exit(run())
}

// run dispatches to the one-shot, piped-script or interactive path and
// returns the process's eventual exit status. It is a separate function
// from main, rather than calling os.Exit throughout, so that testscript's
// RunMain can register it as a subprocess command under the "vimsh" name
// and drive it from scripted end-to-end tests.
func run() int {
	flag.Parse()

	env := shellenv.New(os.Environ())
	builtin.RegisterAll(env)
	if err := env.RebuildCommands(env.Lookup("PATH")); err != nil {
		fmt.Fprintln(os.Stderr, "vimsh:", err)
	}

	if *command != "" {
		return runOneShot(env, *command)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runPiped(env)
	}
	return runInteractive(env)
}

// runOneShot evaluates a single -c string. It deliberately never calls
// interp.New, which always marks the engine interactive: a plain Engine
// with Interactive left false makes evalList exit the process for us via
// exitProcess once the list finishes, the same path forkSubshell's re-exec
// relies on for subshells and command/stderr substitutions. The returned
// status is only ever reached on a syntax error, the one case evalList
// never runs.
func runOneShot(env *shellenv.Env, text string) int {
	env.ShellPgid = unix.Getpgrp()
	eng := &interp.Engine{Env: env}
	return eng.Eval(text, "-c", ioset.Stdio())
}

// runPiped evaluates stdin as a script when it isn't a terminal, e.g.
// `vimsh < script.sh` or the far end of a pipe.
func runPiped(env *shellenv.Env) int {
	env.ShellPgid = unix.Getpgrp()
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vimsh:", err)
		return 1
	}
	eng := &interp.Engine{Env: env}
	return eng.Eval(string(data), "stdin", ioset.Stdio())
}

// runInteractive is the REPL: job-control startup, then read-eval until the
// line editor reports Ctrl-D with no jobs left.
func runInteractive(env *shellenv.Env) int {
	const fd = 0

	shellPgid, err := claimControllingTerminal(fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vimsh:", err)
		return 1
	}
	catchJobControlSignals()

	eng := interp.New(env, shellPgid)

	sizes := termsize.New(fd)
	defer sizes.Stop()

	fileComp := lineeditor.NewFileCompletion()
	cmdComp := lineeditor.NewCommandCompletion(env.Names(), fileComp)
	editor := lineeditor.NewLineEditor(fd, os.Stdin, os.Stdout, cmdComp, func() int {
		_, cols := sizes.Size()
		return cols
	})
	editor.SetHistory(lineeditor.LoadHistory(lineeditor.HistoryPath()))

	lastStatus := startup.Eval(func(line string) int {
		return eng.Eval(line, "startup", ioset.Stdio())
	})

	for {
		rows, cols := sizes.Size()
		env.SetEnv("LINES", fmt.Sprint(rows))
		env.SetEnv("COLUMNS", fmt.Sprint(cols))
		cmdComp.UpdateNames(env.Names())

		line, err := editor.ReadLine(promptPrefix(env, lastStatus))
		switch err {
		case nil:
			line = strings.TrimSpace(line)
			if line != "" {
				lastStatus = eng.Eval(line, "", ioset.Stdio())
				if env.Exiting {
					goto done
				}
			}
		case lineeditor.ErrAborted:
			// Ctrl-C on an empty prompt: start a fresh line.
		case lineeditor.ErrExited:
			if len(env.Jobs.All()) == 0 {
				goto done
			}
			fmt.Println("You have suspended jobs.")
		default:
			fmt.Fprintln(os.Stderr, "vimsh:", err)
			goto done
		}
	}

done:
	if err := lineeditor.SaveHistory(lineeditor.HistoryPath(), editor.History()); err != nil {
		logx.Printf("save history: %v", err)
	}
	if env.Exiting {
		return env.ExitCode
	}
	return lastStatus
}

// claimControllingTerminal waits until the process is in the foreground
// (a shell started under a job-control-aware parent can be launched
// backgrounded), then takes its own process group and hands it the
// terminal. Mirrors the original program's startup: loop on SIGTTIN while
// backgrounded, setpgid tolerating EPERM for a session leader, then
// TIOCSPGRP.
func claimControllingTerminal(fd int) (int, error) {
	if !term.IsTerminal(fd) {
		return 0, fmt.Errorf("not a terminal")
	}

	pid := unix.Getpid()
	for {
		pgid := unix.Getpgrp()
		fg, err := jobctl.Foreground(fd)
		if err != nil {
			return 0, err
		}
		if fg == pgid {
			break
		}
		_ = unix.Kill(-pgid, unix.SIGTTIN)
	}

	if err := unix.Setpgid(pid, pid); err != nil && err != unix.EPERM {
		return 0, err
	}
	if err := jobctl.SetForeground(fd, pid); err != nil {
		return 0, err
	}
	return pid, nil
}

// catchJobControlSignals registers the job-control signals with
// signal.Notify, never signal.Ignore: an ignored signal disposition
// survives exec(2), but a caught one resets to default in the child image,
// and forkSubshell's re-exec needs externally run commands to see default
// dispositions for SIGINT/SIGQUIT/SIGTSTP/SIGTTIN/SIGTTOU. The drain
// goroutine below just keeps the channel from filling; the signals
// themselves never need any shell-side reaction, since the terminal is
// only ever in the shell's own foreground pgid between pipelines.
func catchJobControlSignals() {
	ch := make(chan os.Signal, 16)
	signal.Notify(ch, unix.SIGINT, unix.SIGQUIT, unix.SIGTSTP, unix.SIGTTIN, unix.SIGTTOU)
	go func() {
		for range ch {
		}
	}()
}

// promptPrefix builds the colored "[status] ~/cwd *jobs " prefix, matching
// the original program's three-part prompt: a status color bucketed into
// success/error/signaled, the home-relative cwd, and a job-count indicator
// that is empty with no jobs, "*" with one, and "*N" with more.
func promptPrefix(env *shellenv.Env, lastStatus int) string {
	statusStyle := "\x1b[32m"
	switch {
	case lastStatus == 0:
		statusStyle = "\x1b[32m"
	case lastStatus < 128:
		statusStyle = "\x1b[31m"
	default:
		statusStyle = "\x1b[33m"
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	} else if home := env.Lookup("HOME"); home != "" {
		if rest, ok := strings.CutPrefix(cwd, home); ok {
			cwd = "~" + rest
		}
	}

	jobIndicator := ""
	switch n := len(env.Jobs.All()); n {
	case 0:
	case 1:
		jobIndicator = "*"
	default:
		jobIndicator = fmt.Sprintf("*%d", n)
	}

	return fmt.Sprintf("(\x1b[m)[(%s)%3d(\x1b[m)] (\x1b[1;35m)%s(\x1b[m) %s",
		statusStyle, lastStatus, cwd, jobIndicator)
}
