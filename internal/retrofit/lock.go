// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/mutex/v2"
)

const (
	// LockName is the machine lock serialising retrofit runs.
	LockName = "octavia-diskimage-retrofit"

	lockTimeout = time.Second
	lockDelay   = 250 * time.Millisecond
)

// Releaser frees a held lock.
type Releaser func()

// LockFunc acquires the single-run lock.
type LockFunc func() (Releaser, error)

// MachineLock returns a LockFunc backed by a machine wide mutex. A run
// started while another one is in progress fails fast with
// ErrRetrofitInProgress.
func MachineLock(clk clock.Clock) LockFunc {
	return func() (Releaser, error) {
		spec := mutex.Spec{
			Name:    LockName,
			Clock:   clk,
			Delay:   lockDelay,
			Timeout: lockTimeout,
		}
		releaser, err := mutex.Acquire(spec)
		if errors.Is(err, mutex.ErrTimeout) {
			return nil, ErrRetrofitInProgress
		} else if err != nil {
			return nil, errors.Annotate(err, "acquiring retrofit lock")
		}
		return releaser.Release, nil
	}
}
