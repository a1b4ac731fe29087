// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm implements the hooks and actions of the
// octavia-diskimage-retrofit charm.
package charm

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/hookenv"
	"github.com/juju/octavia-diskimage-retrofit/internal/metrics"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
	"github.com/juju/octavia-diskimage-retrofit/internal/schedule"
	"github.com/juju/octavia-diskimage-retrofit/internal/unitdata"
)

var logger = loggo.GetLogger("octavia.retrofit.charm")

// Name is the charm and snap name. It is also the keystone user requested
// and a tag on every image built.
const Name = "octavia-diskimage-retrofit"

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/charm_mock.go github.com/juju/octavia-diskimage-retrofit/internal/charm Store,Scheduler,Retrofitter,MetricsRecorder
//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/hookenv_mock.go github.com/juju/octavia-diskimage-retrofit/internal/hookenv Context

// Store is the unit data used by the charm.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Flush() error
}

// Scheduler manages the auto-retrofit cron job.
type Scheduler interface {
	Handle(state schedule.State) error
	Remove() error
}

// Retrofitter runs the image pipeline.
type Retrofitter interface {
	Retrofit(ctx context.Context, args retrofit.Params) (image.Image, error)
}

// MetricsRecorder exports the outcome of a run.
type MetricsRecorder interface {
	Record(run metrics.Run) error
}

// Config holds the dependencies of a Charm.
type Config struct {
	Hooks       hookenv.Context
	Store       Store
	Scheduler   Scheduler
	Retrofitter Retrofitter
	Metrics     MetricsRecorder
	Clock       clock.Clock

	// SnapVersion reports the installed tool version.
	SnapVersion func() (string, error)
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.Hooks == nil {
		return errors.NotValidf("nil Hooks")
	}
	if c.Store == nil {
		return errors.NotValidf("nil Store")
	}
	if c.Scheduler == nil {
		return errors.NotValidf("nil Scheduler")
	}
	if c.Retrofitter == nil {
		return errors.NotValidf("nil Retrofitter")
	}
	if c.Metrics == nil {
		return errors.NotValidf("nil Metrics")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if c.SnapVersion == nil {
		return errors.NotValidf("nil SnapVersion")
	}
	return nil
}

// Charm reacts to hooks and actions for one unit.
type Charm struct {
	config Config
}

// New returns a Charm using the given config.
func New(config Config) (*Charm, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Charm{config: config}, nil
}

// Install runs once the snap is in place.
func (c *Charm) Install(ctx context.Context) error {
	return errors.Trace(c.AssessStatus(ctx))
}

// ConfigChanged brings the cron job in line with the options.
func (c *Charm) ConfigChanged(ctx context.Context) error {
	opts, err := c.options()
	if err != nil {
		// Invalid options are reported in the workload status.
		logger.Warningf("%v", err)
		return errors.Trace(c.AssessStatus(ctx))
	}
	if err := c.handleAutoRetrofit(ctx, opts); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.AssessStatus(ctx))
}

// LeaderElected moves the cron job to the new leader.
func (c *Charm) LeaderElected(ctx context.Context) error {
	return errors.Trace(c.ConfigChanged(ctx))
}

// LeaderSettingsChanged removes the cron job from units that lost
// leadership.
func (c *Charm) LeaderSettingsChanged(ctx context.Context) error {
	return errors.Trace(c.ConfigChanged(ctx))
}

// UpgradeCharm re-renders everything the charm manages.
func (c *Charm) UpgradeCharm(ctx context.Context) error {
	return errors.Trace(c.ConfigChanged(ctx))
}

// UpdateStatus refreshes the application version and status.
func (c *Charm) UpdateStatus(ctx context.Context) error {
	version, err := c.config.SnapVersion()
	if err != nil {
		logger.Warningf("cannot determine %s snap version: %v", Name, err)
	} else if err := c.config.Hooks.ApplicationVersionSet(version); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.ConfigChanged(ctx))
}

// Stop removes the cron job.
func (c *Charm) Stop(ctx context.Context) error {
	return errors.Trace(c.config.Scheduler.Remove())
}

// IdentityCredentialsJoined requests a service user from keystone.
func (c *Charm) IdentityCredentialsJoined(ctx context.Context) error {
	if err := hookenv.RequestCredentials(c.config.Hooks, Name); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.AssessStatus(ctx))
}

// IdentityCredentialsChanged reports whether credentials have arrived.
func (c *Charm) IdentityCredentialsChanged(ctx context.Context) error {
	return errors.Trace(c.AssessStatus(ctx))
}

func (c *Charm) options() (Options, error) {
	attrs, err := c.config.Hooks.ConfigGet()
	if err != nil {
		return Options{}, errors.Trace(err)
	}
	return ParseOptions(attrs)
}

func (c *Charm) handleAutoRetrofit(ctx context.Context, opts Options) error {
	leader, err := c.config.Hooks.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	previous, err := c.config.Store.Get(ctx, unitdata.KeyPreviousFrequency)
	if err != nil && !errors.Is(err, errors.NotFound) {
		return errors.Trace(err)
	}
	err = c.config.Scheduler.Handle(schedule.State{
		Enabled:   opts.AutoRetrofit,
		Frequency: opts.Frequency,
		Previous:  schedule.Frequency(previous),
		Leader:    leader,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if previous == string(opts.Frequency) {
		return nil
	}
	if err := c.config.Store.Set(ctx, unitdata.KeyPreviousFrequency, string(opts.Frequency)); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.config.Store.Flush())
}
