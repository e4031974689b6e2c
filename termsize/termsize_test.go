// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package termsize

import (
	"os"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewOnNonTTYLeavesSizeZero(t *testing.T) {
	r, w, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)
	defer r.Close()
	defer w.Close()

	tr := New(int(r.Fd()))
	defer tr.Stop()

	rows, cols := tr.Size()
	qt.Assert(t, rows, qt.Equals, 0)
	qt.Assert(t, cols, qt.Equals, 0)
}

func TestStopOnceAfterNewReturns(t *testing.T) {
	r, w, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)
	defer r.Close()
	defer w.Close()

	tr := New(int(r.Fd()))
	tr.Stop()
}
