// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit_test

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit/mocks"
)

type selectorSuite struct {
	testing.IsolationSuite

	registry *mocks.MockRegistry
}

var _ = gc.Suite(&selectorSuite{})

func (s *selectorSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.registry = mocks.NewMockRegistry(ctrl)
	return ctrl
}

func (s *selectorSuite) expectList(product string, images ...image.Image) *gomock.Call {
	return s.registry.EXPECT().ListImages(gomock.Any(), map[string]string{"product_name": product}, "created_at", "desc").Return(images, nil)
}

func (s *selectorSuite) TestDailyServerWins(c *gc.C) {
	defer s.setupMocks(c).Finish()

	daily := image.Image{ID: "daily", VersionName: "20220301"}
	s.expectList("com.ubuntu.cloud.daily:server:22.04:amd64", daily)

	selection, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04"}, "amd64")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(selection.Image, jc.DeepEquals, daily)
	c.Check(selection.Release, gc.Equals, "22.04")
	c.Check(selection.Source, gc.Equals, image.Source{Stream: image.StreamDaily, Variant: image.VariantServer})
}

func (s *selectorSuite) TestDailyPreferredOverNewerReleased(c *gc.C) {
	defer s.setupMocks(c).Finish()

	// The released stream is never consulted once daily has a match,
	// however new the released image is.
	s.expectList("com.ubuntu.cloud.daily:server:22.04:amd64")
	s.expectList("com.ubuntu.cloud.daily:minimal:22.04:amd64", image.Image{ID: "minimal", VersionName: "20220101"})

	selection, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04"}, "amd64")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(selection.Image.ID, gc.Equals, "minimal")
	c.Check(selection.Source.Variant, gc.Equals, image.VariantMinimal)
}

func (s *selectorSuite) TestSearchOrder(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectList("com.ubuntu.cloud.daily:server:22.04:arm64"),
		s.expectList("com.ubuntu.cloud.daily:minimal:22.04:arm64"),
		s.expectList("com.ubuntu.cloud:server:22.04:arm64"),
		s.expectList("com.ubuntu.cloud:minimal:22.04:arm64", image.Image{ID: "released"}),
	)

	selection, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04"}, "arm64")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(selection.Image.ID, gc.Equals, "released")
	c.Check(selection.Source, gc.Equals, image.Source{Stream: image.StreamReleased, Variant: image.VariantMinimal})
}

func (s *selectorSuite) TestGreatestVersionNameWins(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectList("com.ubuntu.cloud.daily:server:22.04:amd64",
		image.Image{ID: "a", VersionName: "20220305"},
		image.Image{ID: "b", VersionName: "20220307.1"},
		image.Image{ID: "c", VersionName: "20220307"},
		image.Image{ID: "d", VersionName: "20220307.1"},
	)

	selection, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04"}, "amd64")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(selection.Image.ID, gc.Equals, "b")
}

func (s *selectorSuite) TestFallsBackToNextRelease(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.registry.EXPECT().ListImages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filters map[string]string, _, _ string) ([]image.Image, error) {
			if filters["product_name"] == "com.ubuntu.cloud.daily:server:20.04:amd64" {
				return []image.Image{{ID: "focal"}}, nil
			}
			return nil, nil
		}).Times(5)

	selection, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04", "20.04"}, "amd64")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(selection.Image.ID, gc.Equals, "focal")
	c.Check(selection.Release, gc.Equals, "20.04")
}

func (s *selectorSuite) TestNotFound(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.registry.EXPECT().ListImages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(8)

	_, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04", "20.04"}, "amd64")
	c.Assert(err, jc.ErrorIs, retrofit.SourceImageNotFound)
	c.Check(err, gc.ErrorMatches, `releases \[22.04 20.04\], arch "amd64": source image not found`)
}

func (s *selectorSuite) TestListError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.registry.EXPECT().ListImages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	_, err := retrofit.FindSourceImage(context.Background(), s.registry, []string{"22.04"}, "amd64")
	c.Assert(err, gc.ErrorMatches, "boom")
}

type destinationSuite struct {
	testing.IsolationSuite

	registry *mocks.MockRegistry
}

var _ = gc.Suite(&destinationSuite{})

var focalSource = image.Image{
	ID:          "src",
	ProductName: "com.ubuntu.cloud.daily:server:20.04:amd64",
	VersionName: "20220307",
}

func (s *destinationSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.registry = mocks.NewMockRegistry(ctrl)
	return ctrl
}

func (s *destinationSuite) expectLookup(images ...image.Image) {
	s.registry.EXPECT().ListImages(gomock.Any(), map[string]string{
		"source_product_name": "com.ubuntu.cloud.daily:server:20.04:amd64",
		"source_version_name": "20220307",
	}, "", "").Return(images, nil)
}

func (s *destinationSuite) TestFindDestinationImage(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectLookup(image.Image{ID: "derived"})

	lookup, err := retrofit.FindDestinationImage(context.Background(), s.registry, focalSource)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(lookup.Found, jc.IsTrue)
	c.Check(lookup.Image.ID, gc.Equals, "derived")
}

func (s *destinationSuite) TestFindDestinationImageMissing(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectLookup()

	lookup, err := retrofit.FindDestinationImage(context.Background(), s.registry, focalSource)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(lookup.Found, jc.IsFalse)
}

func (s *destinationSuite) TestCheckDestinationExists(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectLookup(image.Image{ID: "derived"})

	err := retrofit.CheckDestination(context.Background(), s.registry, focalSource, false)
	c.Assert(err, jc.ErrorIs, retrofit.DestinationImageExists)
	var exists *retrofit.DestinationImageExistsError
	c.Assert(errors.As(err, &exists), jc.IsTrue)
	c.Check(exists.ImageID, gc.Equals, "derived")
}

func (s *destinationSuite) TestCheckDestinationForce(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectLookup(image.Image{ID: "derived"})

	err := retrofit.CheckDestination(context.Background(), s.registry, focalSource, true)
	c.Assert(err, jc.ErrorIsNil)
}
