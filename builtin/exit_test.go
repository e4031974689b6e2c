// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
)

func TestExitWithNoJobsRequestsExit(t *testing.T) {
	env := newEnv()
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Exit(env, []string{"exit"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.Exiting, qt.IsTrue)
	qt.Assert(t, env.ExitCode, qt.Equals, 0)
}

func TestExitWithPendingJobsRefuses(t *testing.T) {
	env := newEnv()
	job := jobctl.NewJob(true)
	job.Add(12345)
	env.Jobs.Add(job)

	_, stderr, status := captureOutput(t, func(io ioset.Set) int {
		return Exit(env, []string{"exit"}, io)
	})
	qt.Assert(t, status, qt.Equals, 1)
	qt.Assert(t, env.Exiting, qt.IsFalse)
	qt.Assert(t, stderr, qt.Contains, "pending jobs")
}

func TestJobsPrintsIndexAndPgid(t *testing.T) {
	env := newEnv()
	job := jobctl.NewJob(true)
	job.Add(999)
	env.Jobs.Add(job)

	stdout, _, status := captureOutput(t, func(io ioset.Set) int {
		return Jobs(env, []string{"jobs"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, stdout, qt.Equals, "[0] 999\n")
}
