// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	// SourceImageNotFound is returned when no base image exists for any
	// candidate release, stream and variant.
	SourceImageNotFound = errors.ConstError("source image not found")

	// DestinationImageExists is matched by DestinationImageExistsError.
	DestinationImageExists = errors.ConstError("destination image exists")

	// ExternalToolFailure is matched by ExternalToolError.
	ExternalToolFailure = errors.ConstError("external tool failure")

	// ErrRetrofitInProgress is returned when another retrofit holds the
	// machine lock.
	ErrRetrofitInProgress = errors.ConstError("another image retrofit is in progress")
)

// DestinationImageExistsError reports a derived image already built from
// the selected source image.
type DestinationImageExistsError struct {
	ImageID string
}

func (e *DestinationImageExistsError) Error() string {
	return fmt.Sprintf("image %q already exists for the selected source image, use force to retrofit anyway", e.ImageID)
}

// Is implements errors.Is.
func (e *DestinationImageExistsError) Is(target error) bool {
	return target == DestinationImageExists
}

// ExternalToolError reports a non-zero exit of the image retrofit tool.
type ExternalToolError struct {
	Command string
	Output  string
	Err     error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s failed: %v\n%s", e.Command, e.Err, e.Output)
}

// Is implements errors.Is.
func (e *ExternalToolError) Is(target error) bool {
	return target == ExternalToolFailure
}

// Unwrap returns the process error.
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
