// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
)

// Image properties recording where a derived image came from.
const (
	SourceProductNameProperty = "source_product_name"
	SourceVersionNameProperty = "source_version_name"
)

// Lookup is the outcome of looking for an image derived from a source.
type Lookup struct {
	Found bool
	Image image.Image
}

// FindDestinationImage looks for a previously retrofitted copy of src.
func FindDestinationImage(ctx context.Context, reg ImageLister, src image.Image) (Lookup, error) {
	images, err := reg.ListImages(ctx, map[string]string{
		SourceProductNameProperty: src.ProductName,
		SourceVersionNameProperty: src.VersionName,
	}, "", "")
	if err != nil {
		return Lookup{}, errors.Annotate(err, "looking for retrofitted image")
	}
	if len(images) == 0 {
		return Lookup{}, nil
	}
	return Lookup{Found: true, Image: images[0]}, nil
}

// CheckDestination returns a DestinationImageExistsError if src has
// already been retrofitted, unless force is set.
func CheckDestination(ctx context.Context, reg ImageLister, src image.Image, force bool) error {
	lookup, err := FindDestinationImage(ctx, reg, src)
	if err != nil {
		return errors.Trace(err)
	}
	if !lookup.Found {
		return nil
	}
	if force {
		logger.Infof("image %s already built from %s %s, retrofitting again as requested",
			lookup.Image.ID, src.ProductName, src.VersionName)
		return nil
	}
	return &DestinationImageExistsError{ImageID: lookup.Image.ID}
}
