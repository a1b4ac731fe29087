// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package image

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

const productPrefix = "com.ubuntu.cloud"

// Streams an image may be published in.
const (
	StreamDaily    = "daily"
	StreamReleased = "released"
)

// Variants of the Ubuntu cloud image.
const (
	VariantServer  = "server"
	VariantMinimal = "minimal"
)

// Source is a (stream, variant) pair tried when looking for a base image.
type Source struct {
	Stream  string
	Variant string
}

// SearchOrder is the priority in which sources are tried for each
// release. Daily images are fresher than released ones, and server images
// retrofit faster than minimal ones and are more commonly present.
var SearchOrder = []Source{
	{Stream: StreamDaily, Variant: VariantServer},
	{Stream: StreamDaily, Variant: VariantMinimal},
	{Stream: StreamReleased, Variant: VariantServer},
	{Stream: StreamReleased, Variant: VariantMinimal},
}

// ProductSpec defines the required characteristics of an Ubuntu image.
type ProductSpec struct {
	Stream  string // may be "", which is the same as "released"
	Variant string
	Release string // e.g. "20.04"
	Arch    string // Debian architecture, e.g. "amd64"
}

// NewProductSpec creates a ProductSpec.
func NewProductSpec(stream, variant, release, arch string) ProductSpec {
	return ProductSpec{
		Stream:  stream,
		Variant: variant,
		Release: release,
		Arch:    arch,
	}
}

// Name generates the simplestreams product name, formed similarly to an
// ISCSI qualified name (IQN). The released stream is the default one and
// is not named.
func (ps ProductSpec) Name() string {
	prefix := productPrefix
	if ps.Stream != "" && ps.Stream != StreamReleased {
		prefix += "." + ps.Stream
	}
	return fmt.Sprintf("%s:%s:%s:%s", prefix, ps.Variant, ps.Release, ps.Arch)
}

// ParseProductName is the inverse of ProductSpec.Name.
func ParseProductName(name string) (ProductSpec, error) {
	parts := strings.Split(name, ":")
	if len(parts) != 4 {
		return ProductSpec{}, errors.NotValidf("product name %q", name)
	}
	stream := StreamReleased
	switch {
	case parts[0] == productPrefix:
	case strings.HasPrefix(parts[0], productPrefix+"."):
		stream = strings.TrimPrefix(parts[0], productPrefix+".")
		if stream == "" || stream == StreamReleased {
			return ProductSpec{}, errors.NotValidf("product name %q", name)
		}
	default:
		return ProductSpec{}, errors.NotValidf("product name %q", name)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return ProductSpec{}, errors.NotValidf("product name %q", name)
		}
	}
	return ProductSpec{
		Stream:  stream,
		Variant: parts[1],
		Release: parts[2],
		Arch:    parts[3],
	}, nil
}
