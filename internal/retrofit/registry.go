// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"context"
	"io"

	"github.com/juju/errors"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/glance"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/retrofit_mock.go github.com/juju/octavia-diskimage-retrofit/internal/retrofit Registry,Transformer,ProgressReporter,Store

// ImageLister lists registry images.
type ImageLister interface {
	ListImages(ctx context.Context, filters map[string]string, sortKey, sortDir string) ([]image.Image, error)
}

// Registry is the subset of the image service used by a retrofit run.
type Registry interface {
	ImageLister
	GetImage(ctx context.Context, id string) (image.Image, error)
	ImageData(ctx context.Context, id string) (io.ReadCloser, error)
	CreateImage(ctx context.Context, args glance.CreateParams) (image.Image, error)
	UploadImageData(ctx context.Context, id string, data io.Reader, size int64) error
	UpdateImage(ctx context.Context, id string, args glance.UpdateParams) (image.Image, error)
}

// RegistryFactory establishes a session and returns a registry client.
type RegistryFactory func(ctx context.Context, creds glance.Credentials, cfg glance.SessionConfig) (Registry, error)

// NewGlanceRegistry is the RegistryFactory talking to the OpenStack image
// service.
func NewGlanceRegistry(ctx context.Context, creds glance.Credentials, cfg glance.SessionConfig) (Registry, error) {
	session, err := glance.NewSession(ctx, creds, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return session.Client(), nil
}

// ProgressReporter surfaces the current stage of a run to the operator.
type ProgressReporter interface {
	Progress(message string) error
}

// Store records the outcome of successful runs.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Flush() error
}
