// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/hookenv"
	"github.com/juju/octavia-diskimage-retrofit/internal/metrics"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
)

// RetrofitActionName is the operator action building an image on demand.
const RetrofitActionName = "retrofit-image"

// RetrofitAction runs the retrofit-image action. Failures are reported
// with action-fail rather than returned.
func (c *Charm) RetrofitAction(ctx context.Context) error {
	attrs, err := c.config.Hooks.ActionGet()
	if err != nil {
		return errors.Trace(err)
	}
	params, err := ParseActionParams(attrs)
	if err != nil {
		return errors.Trace(c.config.Hooks.ActionFail(err.Error()))
	}

	img, err := c.retrofit(ctx, params.Force, params.SourceImage)
	if statusErr := c.AssessStatus(ctx); statusErr != nil {
		logger.Warningf("cannot update status: %v", statusErr)
	}
	if err != nil {
		return errors.Trace(c.config.Hooks.ActionFail(err.Error()))
	}
	return errors.Trace(c.config.Hooks.ActionSet(map[string]string{
		"image-id":   img.ID,
		"image-name": img.Name,
	}))
}

// CronRetrofit is run periodically on the leader. An image that was
// already built is not an error.
func (c *Charm) CronRetrofit(ctx context.Context) error {
	logger.Infof("Starting image retrofitting...")
	_, err := c.retrofit(ctx, false, "")
	switch {
	case errors.Is(err, retrofit.DestinationImageExists):
		logger.Infof("Skipping image retrofitting: %v", err)
	case err != nil:
		logger.Errorf("Image retrofitting failed: %v", err)
	default:
		logger.Infof("Image retrofitting completed.")
	}
	return errors.Trace(c.AssessStatus(ctx))
}

func (c *Charm) retrofit(ctx context.Context, force bool, sourceImage string) (image.Image, error) {
	opts, err := c.options()
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	creds, err := hookenv.IdentityCredentials(c.config.Hooks)
	if err != nil {
		return image.Image{}, errors.Annotate(err, "getting keystone credentials")
	}

	started := c.config.Clock.Now()
	img, err := c.config.Retrofitter.Retrofit(ctx, retrofit.Params{
		Credentials:   creds,
		Settings:      opts.Settings,
		Force:         force,
		SourceImageID: sourceImage,
	})
	if errors.Is(err, retrofit.DestinationImageExists) || errors.Is(err, retrofit.ErrRetrofitInProgress) {
		// Nothing was attempted.
		return image.Image{}, errors.Trace(err)
	}
	finished := c.config.Clock.Now()
	recordErr := c.config.Metrics.Record(metrics.Run{
		Finished: finished,
		Duration: finished.Sub(started),
		Success:  err == nil,
	})
	if recordErr != nil {
		logger.Warningf("cannot export metrics: %v", recordErr)
	}
	return img, errors.Trace(err)
}
