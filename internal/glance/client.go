// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package glance is a thin client for the parts of the OpenStack image
// service (v2 API) needed to retrofit images.
package glance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gooseerrors "github.com/go-goose/goose/v5/errors"
	goosehttp "github.com/go-goose/goose/v5/http"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/octavia-diskimage-retrofit/core/image"
)

var logger = loggo.GetLogger("octavia.retrofit.glance")

const patchContentType = "application/openstack-images-v2.1-json-patch"

// Fields that may be used as sort keys.
const (
	SortCreatedAt = "created_at"
	SortDesc      = "desc"
	SortAsc       = "asc"
)

// TokenSource supplies the keystone token sent with every request.
type TokenSource interface {
	Token() string
}

// Client talks to one image service endpoint.
type Client struct {
	endpoint   string
	tokens     TokenSource
	httpClient *goosehttp.Client
}

// NewClient returns a client for the image service at endpoint.
func NewClient(endpoint string, tokens TokenSource, httpClient *goosehttp.Client) *Client {
	if httpClient == nil {
		httpClient = goosehttp.New()
	}
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// CreateParams holds the attributes of an image record to create.
type CreateParams struct {
	Name            string
	ContainerFormat string
	DiskFormat      string
	Architecture    string
}

// UpdateParams holds the changes applied by UpdateImage. Properties are
// added or replaced; Tags, when not nil, replace the image tags.
type UpdateParams struct {
	Properties map[string]string
	Tags       []string
}

// glanceImage is the image service representation of an image.
type glanceImage struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
	Architecture      string    `json:"architecture,omitempty"`
	OSDistro          string    `json:"os_distro,omitempty"`
	OSVersion         string    `json:"os_version,omitempty"`
	ProductName       string    `json:"product_name,omitempty"`
	VersionName       string    `json:"version_name,omitempty"`
	SourceProductName string    `json:"source_product_name,omitempty"`
	SourceVersionName string    `json:"source_version_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Tags              []string  `json:"tags"`
}

func (g glanceImage) toImage() image.Image {
	return image.Image{
		ID:                g.ID,
		Name:              g.Name,
		Status:            g.Status,
		Architecture:      g.Architecture,
		OSDistro:          g.OSDistro,
		OSVersion:         g.OSVersion,
		ProductName:       g.ProductName,
		VersionName:       g.VersionName,
		CreatedAt:         g.CreatedAt,
		SourceProductName: g.SourceProductName,
		SourceVersionName: g.SourceVersionName,
		Tags:              g.Tags,
	}
}

type imageList struct {
	Images []glanceImage `json:"images"`
	Next   string        `json:"next"`
}

// ListImages returns every image whose properties match filters, in the
// requested order. Result pages are followed until exhausted.
func (c *Client) ListImages(ctx context.Context, filters map[string]string, sortKey, sortDir string) ([]image.Image, error) {
	query := url.Values{}
	for k, v := range filters {
		query.Set(k, v)
	}
	if sortKey != "" {
		query.Set("sort_key", sortKey)
	}
	if sortDir != "" {
		query.Set("sort_dir", sortDir)
	}
	requestData := &goosehttp.RequestData{ExpectedStatus: []int{http.StatusOK}}
	if len(query) > 0 {
		requestData.Params = &query
	}

	var result []image.Image
	for next := "/v2/images"; next != ""; {
		var page imageList
		requestData.RespValue = &page
		if err := c.jsonRequest(ctx, http.MethodGet, next, requestData); err != nil {
			return nil, errors.Annotate(err, "listing images")
		}
		for _, img := range page.Images {
			result = append(result, img.toImage())
		}
		// The next link already carries the query.
		next = page.Next
		requestData = &goosehttp.RequestData{ExpectedStatus: []int{http.StatusOK}}
	}
	return result, nil
}

// GetImage returns the image with the given id.
func (c *Client) GetImage(ctx context.Context, id string) (image.Image, error) {
	var img glanceImage
	requestData := &goosehttp.RequestData{
		RespValue:      &img,
		ExpectedStatus: []int{http.StatusOK},
	}
	if err := c.jsonRequest(ctx, http.MethodGet, imagePath(id), requestData); err != nil {
		return image.Image{}, errors.Annotatef(err, "getting image %q", id)
	}
	return img.toImage(), nil
}

// ImageData returns a reader over the content of the image. The caller
// must close it.
func (c *Client) ImageData(ctx context.Context, id string) (io.ReadCloser, error) {
	requestData := &goosehttp.RequestData{ExpectedStatus: []int{http.StatusOK}}
	if err := c.binaryRequest(ctx, http.MethodGet, imagePath(id)+"/file", requestData); err != nil {
		return nil, errors.Annotatef(err, "downloading image %q", id)
	}
	if requestData.RespReader == nil {
		return nil, errors.NotFoundf("data for image %q", id)
	}
	return requestData.RespReader, nil
}

// CreateImage creates an image record without any data.
func (c *Client) CreateImage(ctx context.Context, args CreateParams) (image.Image, error) {
	body := map[string]string{
		"name":             args.Name,
		"container_format": args.ContainerFormat,
		"disk_format":      args.DiskFormat,
	}
	if args.Architecture != "" {
		body["architecture"] = args.Architecture
	}
	var img glanceImage
	requestData := &goosehttp.RequestData{
		ReqValue:       body,
		RespValue:      &img,
		ExpectedStatus: []int{http.StatusCreated},
	}
	if err := c.jsonRequest(ctx, http.MethodPost, "/v2/images", requestData); err != nil {
		return image.Image{}, errors.Annotatef(err, "creating image %q", args.Name)
	}
	return img.toImage(), nil
}

// UploadImageData uploads size bytes read from data as the content of the
// image.
func (c *Client) UploadImageData(ctx context.Context, id string, data io.Reader, size int64) error {
	requestData := &goosehttp.RequestData{
		ReqReader:      data,
		ReqLength:      int(size),
		ExpectedStatus: []int{http.StatusNoContent},
	}
	if err := c.binaryRequest(ctx, http.MethodPut, imagePath(id)+"/file", requestData); err != nil {
		return errors.Annotatef(err, "uploading image %q", id)
	}
	closeBody(requestData)
	return nil
}

type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// UpdateImage applies the property and tag changes to the image.
func (c *Client) UpdateImage(ctx context.Context, id string, args UpdateParams) (image.Image, error) {
	var ops []patchOp
	for _, k := range sortedKeys(args.Properties) {
		ops = append(ops, patchOp{Op: "add", Path: "/" + k, Value: args.Properties[k]})
	}
	if args.Tags != nil {
		ops = append(ops, patchOp{Op: "replace", Path: "/tags", Value: args.Tags})
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return image.Image{}, errors.Trace(err)
	}
	requestData := &goosehttp.RequestData{
		ReqHeaders:     http.Header{"Content-Type": []string{patchContentType}},
		ReqReader:      bytes.NewReader(data),
		ReqLength:      len(data),
		ExpectedStatus: []int{http.StatusOK},
	}
	if err := c.binaryRequest(ctx, http.MethodPatch, imagePath(id), requestData); err != nil {
		return image.Image{}, errors.Annotatef(err, "updating image %q", id)
	}
	if requestData.RespReader == nil {
		return image.Image{}, errors.Errorf("updating image %q: empty response", id)
	}
	defer requestData.RespReader.Close()
	var img glanceImage
	if err := json.NewDecoder(requestData.RespReader).Decode(&img); err != nil {
		return image.Image{}, errors.Annotatef(err, "decoding image %q", id)
	}
	return img.toImage(), nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, requestData *goosehttp.RequestData) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	logger.Tracef("%s %s", method, path)
	err := c.httpClient.JsonRequest(method, c.endpoint+path, c.tokens.Token(), requestData, nil)
	return mapError(err)
}

func (c *Client) binaryRequest(ctx context.Context, method, path string, requestData *goosehttp.RequestData) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	logger.Tracef("%s %s", method, path)
	err := c.httpClient.BinaryRequest(method, c.endpoint+path, c.tokens.Token(), requestData, nil)
	return mapError(err)
}

// mapError converts goose error codes into their juju/errors
// counterparts so callers can test them with errors.Is.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case gooseerrors.IsNotFound(err):
		return errors.NewNotFound(err, "")
	case gooseerrors.IsUnauthorised(err):
		return errors.NewUnauthorized(err, "")
	}
	return errors.Trace(err)
}

func closeBody(requestData *goosehttp.RequestData) {
	if requestData.RespReader != nil {
		_, _ = io.Copy(io.Discard, requestData.RespReader)
		_ = requestData.RespReader.Close()
	}
}

func imagePath(id string) string {
	return "/v2/images/" + url.PathEscape(id)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
