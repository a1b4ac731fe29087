// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/glance"
)

// Selection is the base image chosen for a run.
type Selection struct {
	Image   image.Image
	Release string
	Source  image.Source
}

// FindSourceImage looks for the newest base image for the first release
// in releases that has one. Within a release the sources are tried in
// image.SearchOrder and the first one with any image wins.
func FindSourceImage(ctx context.Context, reg ImageLister, releases []string, arch string) (Selection, error) {
	for _, release := range releases {
		for _, source := range image.SearchOrder {
			product := image.NewProductSpec(source.Stream, source.Variant, release, arch).Name()
			candidate, found, err := findLatestImage(ctx, reg, map[string]string{"product_name": product})
			if err != nil {
				return Selection{}, errors.Trace(err)
			}
			if !found {
				logger.Debugf("no image found for %s", product)
				continue
			}
			logger.Infof("selected source image %s (%s %s) from %s", candidate.ID, candidate.Name, candidate.VersionName, product)
			return Selection{
				Image:   candidate,
				Release: release,
				Source:  source,
			}, nil
		}
	}
	return Selection{}, errors.Annotatef(SourceImageNotFound, "releases %v, arch %q", releases, arch)
}

// findLatestImage returns the matching image with the greatest version
// name. The image service can not sort on version_name, so the whole result
// is scanned; on a tie the first one, most recently created, is kept.
func findLatestImage(ctx context.Context, reg ImageLister, filters map[string]string) (image.Image, bool, error) {
	images, err := reg.ListImages(ctx, filters, glance.SortCreatedAt, glance.SortDesc)
	if err != nil {
		return image.Image{}, false, errors.Trace(err)
	}
	var (
		candidate image.Image
		found     bool
	)
	for _, img := range images {
		if !found || candidate.VersionName < img.VersionName {
			candidate, found = img, true
		}
	}
	return candidate, found, nil
}
