// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
	"github.com/juju/octavia-diskimage-retrofit/internal/glance"
	"github.com/juju/octavia-diskimage-retrofit/internal/unitdata"
)

var logger = loggo.GetLogger("octavia.retrofit")

const (
	// TimestampFormat is the layout of the recorded last run time.
	TimestampFormat = "01/02/06 15:04:05"

	// DefaultImageFormat is used when no image format is configured.
	DefaultImageFormat = "qcow2"

	containerFormat = "bare"
	manifestSuffix  = ".manifest"
)

// Settings are the operator options affecting a run.
type Settings struct {
	Series               string
	UCAPocket            string
	Debug                bool
	UbuntuMirror         string
	UCAMirror            string
	ImageFormat          string
	ImageTag             string
	Region               string
	UseInternalEndpoints bool
}

// ReleaseResolver maps series names to Ubuntu versions.
type ReleaseResolver interface {
	SeriesVersion(series string) (string, error)
	LatestLTS(now time.Time) (string, error)
}

// Config holds the dependencies of a Retrofitter.
type Config struct {
	NewRegistry RegistryFactory
	Transformer Transformer
	Progress    ProgressReporter
	Store       Store
	Releases    ReleaseResolver
	HostSeries  func() (string, error)
	Lock        LockFunc
	Clock       clock.Clock

	// Arch is the architecture of the images to look for.
	Arch string

	// CharmName is added to the tags of every derived image.
	CharmName string

	// WorkDir holds the temporary image files.
	WorkDir string
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.NewRegistry == nil {
		return errors.NotValidf("nil NewRegistry")
	}
	if c.Transformer == nil {
		return errors.NotValidf("nil Transformer")
	}
	if c.Progress == nil {
		return errors.NotValidf("nil Progress")
	}
	if c.Store == nil {
		return errors.NotValidf("nil Store")
	}
	if c.Releases == nil {
		return errors.NotValidf("nil Releases")
	}
	if c.HostSeries == nil {
		return errors.NotValidf("nil HostSeries")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if c.Arch == "" {
		return errors.NotValidf("empty Arch")
	}
	if c.CharmName == "" {
		return errors.NotValidf("empty CharmName")
	}
	if c.WorkDir == "" {
		return errors.NotValidf("empty WorkDir")
	}
	return nil
}

// Params select what a single run does.
type Params struct {
	Credentials glance.Credentials
	Settings    Settings

	// Force retrofits even if a derived image already exists.
	Force bool

	// SourceImageID bypasses image selection and the existence check.
	SourceImageID string
}

// Retrofitter builds amphora images from Ubuntu cloud images.
type Retrofitter struct {
	config Config
}

// NewRetrofitter returns a Retrofitter using the given config.
func NewRetrofitter(config Config) (*Retrofitter, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Retrofitter{config: config}, nil
}

// Retrofit runs the whole pipeline once and returns the uploaded image.
func (r *Retrofitter) Retrofit(ctx context.Context, args Params) (image.Image, error) {
	if r.config.Lock != nil {
		release, err := r.config.Lock()
		if err != nil {
			return image.Image{}, errors.Trace(err)
		}
		defer release()
	}

	sessionConfig := glance.SessionConfig{
		Region:    args.Settings.Region,
		Interface: glance.PublicInterface,
	}
	if args.Settings.UseInternalEndpoints {
		sessionConfig.Interface = glance.InternalInterface
	}
	reg, err := r.config.NewRegistry(ctx, args.Credentials, sessionConfig)
	if err != nil {
		return image.Image{}, errors.Annotate(err, "connecting to image service")
	}

	src, release, err := r.sourceImage(ctx, reg, args)
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	return r.build(ctx, reg, src, release, args.Settings)
}

// CandidateReleases returns the Ubuntu versions to look for base images
// of, in order of preference.
func (r *Retrofitter) CandidateReleases(settings Settings) ([]string, error) {
	if settings.Series != "" {
		version, err := r.config.Releases.SeriesVersion(settings.Series)
		if err != nil {
			return nil, errors.Annotatef(err, "resolving retrofit-series %q", settings.Series)
		}
		return []string{version}, nil
	}

	lts, err := r.config.Releases.LatestLTS(r.config.Clock.Now())
	if err != nil {
		return nil, errors.Annotate(err, "resolving latest LTS release")
	}
	releases := []string{lts}

	host, err := r.config.HostSeries()
	if err != nil {
		logger.Warningf("cannot determine host series: %v", err)
		return releases, nil
	}
	own, err := r.config.Releases.SeriesVersion(host)
	if err != nil {
		logger.Warningf("cannot resolve host series %q: %v", host, err)
		return releases, nil
	}
	if own != lts {
		releases = append(releases, own)
	}
	return releases, nil
}

func (r *Retrofitter) sourceImage(ctx context.Context, reg Registry, args Params) (image.Image, string, error) {
	if args.SourceImageID != "" {
		src, err := reg.GetImage(ctx, args.SourceImageID)
		if err != nil {
			return image.Image{}, "", errors.Annotatef(err, "getting source image %q", args.SourceImageID)
		}
		release := src.OSVersion
		if release == "" {
			releases, err := r.CandidateReleases(args.Settings)
			if err != nil {
				return image.Image{}, "", errors.Trace(err)
			}
			release = releases[0]
		}
		return src, release, nil
	}

	releases, err := r.CandidateReleases(args.Settings)
	if err != nil {
		return image.Image{}, "", errors.Trace(err)
	}
	selection, err := FindSourceImage(ctx, reg, releases, r.config.Arch)
	if err != nil {
		return image.Image{}, "", errors.Trace(err)
	}
	if err := CheckDestination(ctx, reg, selection.Image, args.Force); err != nil {
		return image.Image{}, "", errors.Trace(err)
	}
	return selection.Image, selection.Release, nil
}

func (r *Retrofitter) build(ctx context.Context, reg Registry, src image.Image, release string, settings Settings) (image.Image, error) {
	started := r.config.Clock.Now()

	input, err := r.tempFile("retrofit-input-")
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	defer removeFile(input)
	output, err := r.tempFile("retrofit-output-")
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	defer removeFile(output)

	if err := r.progress("Downloading %s", src.Name); err != nil {
		return image.Image{}, errors.Trace(err)
	}
	if err := download(ctx, reg, src.ID, input); err != nil {
		return image.Image{}, errors.Trace(err)
	}

	if err := r.progress("Retrofitting %s", src.Name); err != nil {
		return image.Image{}, errors.Trace(err)
	}
	err = r.config.Transformer.Transform(ctx, TransformArgs{
		Input:    input,
		Output:   output,
		Release:  release,
		Settings: settings,
	})
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	// The tool leaves a package manifest next to the image, it is of no use
	// here.
	removeFile(output + manifestSuffix)

	if err := r.progress("Uploading %s", src.Name); err != nil {
		return image.Image{}, errors.Trace(err)
	}
	diskFormat := settings.ImageFormat
	if diskFormat == "" {
		diskFormat = DefaultImageFormat
	}
	created, err := reg.CreateImage(ctx, glance.CreateParams{
		Name:            image.DerivedName(src),
		ContainerFormat: containerFormat,
		DiskFormat:      diskFormat,
		Architecture:    src.Architecture,
	})
	if err != nil {
		return image.Image{}, errors.Annotate(err, "creating image")
	}
	if err := upload(ctx, reg, created.ID, output); err != nil {
		return image.Image{}, errors.Trace(err)
	}

	productName, versionName := image.Provenance(src)
	updated, err := reg.UpdateImage(ctx, created.ID, glance.UpdateParams{
		Properties: map[string]string{
			SourceProductNameProperty: productName,
			SourceVersionNameProperty: versionName,
		},
		Tags: ImageTags(r.config.CharmName, settings.ImageTag),
	})
	if err != nil {
		return image.Image{}, errors.Annotatef(err, "updating image %q", created.ID)
	}

	finished := r.config.Clock.Now()
	if err := r.record(ctx, updated.ID, finished); err != nil {
		return image.Image{}, errors.Trace(err)
	}
	logger.Infof("retrofitted %s (%s) into %s (%s) in %v",
		src.ID, src.Name, updated.ID, updated.Name, finished.Sub(started))
	return updated, nil
}

// ImageTags returns the sorted, de-duplicated tags of a retrofitted image.
func ImageTags(tags ...string) []string {
	result := set.NewStrings(tags...)
	result.Remove("")
	return result.SortedValues()
}

func (r *Retrofitter) record(ctx context.Context, imageID string, when time.Time) error {
	if err := r.config.Store.Set(ctx, unitdata.KeyLastImageID, imageID); err != nil {
		return errors.Annotate(err, "recording last image")
	}
	if err := r.config.Store.Set(ctx, unitdata.KeyLastTimestamp, when.Format(TimestampFormat)); err != nil {
		return errors.Annotate(err, "recording last run time")
	}
	return errors.Annotate(r.config.Store.Flush(), "saving last run")
}

func (r *Retrofitter) progress(format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	logger.Infof("%s", message)
	return errors.Annotate(r.config.Progress.Progress(message), "setting status")
}

func (r *Retrofitter) tempFile(prefix string) (string, error) {
	f, err := os.CreateTemp(r.config.WorkDir, prefix)
	if err != nil {
		return "", errors.Annotate(err, "creating temporary file")
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		removeFile(name)
		return "", errors.Trace(err)
	}
	return name, nil
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warningf("cannot remove %q: %v", path, err)
	}
}

func download(ctx context.Context, reg Registry, id, path string) error {
	data, err := reg.ImageData(ctx, id)
	if err != nil {
		return errors.Annotatef(err, "downloading image %q", id)
	}
	defer func() { _ = data.Close() }()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errors.Trace(err)
	}
	n, err := io.Copy(f, data)
	if err != nil {
		_ = f.Close()
		return errors.Annotatef(err, "downloading image %q", id)
	}
	if err := f.Close(); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("downloaded %s of image %s", humanize.IBytes(uint64(n)), id)
	return nil
}

func upload(ctx context.Context, reg Registry, id, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("uploading %s to image %s", humanize.IBytes(uint64(info.Size())), id)
	if err := reg.UploadImageData(ctx, id, f, info.Size()); err != nil {
		return errors.Annotatef(err, "uploading image %q", id)
	}
	return nil
}
