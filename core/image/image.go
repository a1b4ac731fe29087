// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package image holds the image model shared by the registry adapter and
// the retrofit pipeline.
package image

import (
	"strings"
	"time"
)

const (
	// DerivedNamePrefix is prepended to every retrofitted image name.
	DerivedNamePrefix = "amphora-haproxy"

	// CustomProvenance is recorded on a derived image when the source
	// image carries no product or version name.
	CustomProvenance = "custom"
)

// Image describes an image held in the image registry.
type Image struct {
	ID     string
	Name   string
	Status string

	Architecture string
	OSDistro     string
	OSVersion    string

	// ProductName and VersionName identify a simplestreams publication.
	ProductName string
	// VersionName is a creation ordered token, typically a date such as
	// 20220307 or 20220307.1.
	VersionName string
	CreatedAt   time.Time

	// SourceProductName and SourceVersionName are only set on derived
	// images and record which publication they were built from.
	SourceProductName string
	SourceVersionName string

	Tags []string
}

// DerivedName returns the name a retrofitted copy of src is published
// under. The name carries enough of the source identity to be traced back
// without looking at the provenance properties.
func DerivedName(src Image) string {
	return strings.Join([]string{
		DerivedNamePrefix,
		src.Architecture,
		src.OSDistro,
		src.OSVersion,
		src.VersionName,
	}, "-")
}

// Provenance returns the source product and version names to record on an
// image derived from src.
func Provenance(src Image) (productName, versionName string) {
	productName, versionName = src.ProductName, src.VersionName
	if productName == "" {
		productName = CustomProvenance
	}
	if versionName == "" {
		versionName = CustomProvenance
	}
	return productName, versionName
}
