// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"context"
	"fmt"

	"github.com/juju/errors"

	"github.com/juju/octavia-diskimage-retrofit/internal/hookenv"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
	"github.com/juju/octavia-diskimage-retrofit/internal/unitdata"
)

// AssessStatus sets the workload status from the options, the keystone
// relation and the last recorded run.
func (c *Charm) AssessStatus(ctx context.Context) error {
	status, message, err := c.status(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.config.Hooks.StatusSet(status, message))
}

func (c *Charm) status(ctx context.Context) (hookenv.Status, string, error) {
	if _, err := c.options(); errors.Is(err, errors.NotValid) {
		return hookenv.Blocked, err.Error(), nil
	} else if err != nil {
		return "", "", errors.Trace(err)
	}

	_, err := hookenv.IdentityCredentials(c.config.Hooks)
	switch {
	case errors.Is(err, errors.NotFound):
		return hookenv.Blocked, "Missing required relation: " + hookenv.IdentityCredentialsRelation, nil
	case errors.Is(err, hookenv.Incomplete):
		return hookenv.Waiting, "Incomplete relation: " + hookenv.IdentityCredentialsRelation, nil
	case err != nil:
		return "", "", errors.Trace(err)
	}

	imageID, err := c.config.Store.Get(ctx, unitdata.KeyLastImageID)
	if errors.Is(err, errors.NotFound) {
		return hookenv.Active, "Ready, retrofit not yet run", nil
	} else if err != nil {
		return "", "", errors.Trace(err)
	}
	timestamp, err := c.config.Store.Get(ctx, unitdata.KeyLastTimestamp)
	if err != nil && !errors.Is(err, errors.NotFound) {
		return "", "", errors.Trace(err)
	}
	return hookenv.Active, fmt.Sprintf("Ready, last retrofit completed at %s for image %s", timestamp, imageID), nil
}

// progressReporter reports pipeline stages as maintenance status.
type progressReporter struct {
	hooks hookenv.Context
}

// NewProgressReporter returns a retrofit.ProgressReporter setting the
// unit status.
func NewProgressReporter(hooks hookenv.Context) retrofit.ProgressReporter {
	return progressReporter{hooks: hooks}
}

// Progress implements retrofit.ProgressReporter.
func (p progressReporter) Progress(message string) error {
	return p.hooks.StatusSet(hookenv.Maintenance, message)
}
