// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit_test

import (
	"github.com/juju/clock"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
)

type lockSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&lockSuite{})

func (s *lockSuite) TestSecondRunRefused(c *gc.C) {
	lock := retrofit.MachineLock(clock.WallClock)

	release, err := lock()
	c.Assert(err, jc.ErrorIsNil)

	_, err = lock()
	c.Assert(err, jc.ErrorIs, retrofit.ErrRetrofitInProgress)

	release()
	release, err = lock()
	c.Assert(err, jc.ErrorIsNil)
	release()
}
