// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package glance

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-goose/goose/v5/client"
	gooseerrors "github.com/go-goose/goose/v5/errors"
	goosehttp "github.com/go-goose/goose/v5/http"
	"github.com/go-goose/goose/v5/identity"
	"github.com/juju/errors"
)

// Endpoint interfaces published in the keystone catalog.
const (
	PublicInterface   = "public"
	InternalInterface = "internal"
)

const imageServiceType = "image"

// Authenticator obtains a keystone token.
type Authenticator interface {
	SetRequiredServiceTypes(requiredServiceTypes []string)
	Authenticate() error
	Token() string
}

// NewAuthenticator returns the goose client used to authenticate the
// given credentials.
var NewAuthenticator = func(creds *identity.Credentials) Authenticator {
	return client.NewClient(creds, identity.AuthUserPassV3, nil)
}

// SessionConfig holds the options used to establish a session.
type SessionConfig struct {
	Region string
	// Interface selects between the public and internal image service
	// endpoints.
	Interface string
}

// Session is an authenticated keystone session scoped to one project.
type Session struct {
	auth          Authenticator
	identityURL   string
	httpClient    *goosehttp.Client
	imageEndpoint string
}

// NewSession authenticates the credentials against keystone and locates
// the image service endpoint.
func NewSession(ctx context.Context, creds Credentials, cfg SessionConfig) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, errors.Annotate(err, "validating credentials")
	}
	if cfg.Interface == "" {
		cfg.Interface = PublicInterface
	}
	auth := NewAuthenticator(&identity.Credentials{
		URL:           creds.IdentityURL(),
		User:          creds.Username,
		Secrets:       creds.Password,
		Region:        cfg.Region,
		TenantName:    creds.ProjectName,
		UserDomain:    creds.UserDomainName,
		ProjectDomain: creds.ProjectDomainName,
		Version:       3,
	})
	// goose checks required services against the catalog entries of the
	// configured region. Without a region the image endpoint is only
	// resolved by lookupEndpoint.
	required := []string{}
	if cfg.Region != "" {
		required = append(required, imageServiceType)
	}
	auth.SetRequiredServiceTypes(required)
	if err := auth.Authenticate(); err != nil {
		logger.Debugf("Authenticate() failed: %v", err)
		if gooseerrors.IsUnauthorised(err) {
			return nil, errors.Errorf("authentication failed: %v; check the identity-credentials relation", err)
		}
		return nil, errors.Annotate(err, "authentication failed")
	}
	s := &Session{
		auth:        auth,
		identityURL: creds.IdentityURL(),
		httpClient:  goosehttp.New(),
	}
	endpoint, err := s.lookupEndpoint(ctx, imageServiceType, cfg.Interface, cfg.Region)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.imageEndpoint = endpoint
	logger.Debugf("using %s image service endpoint %s", cfg.Interface, endpoint)
	return s, nil
}

// Token returns the current keystone token.
func (s *Session) Token() string {
	return s.auth.Token()
}

// ImageEndpoint returns the image service URL chosen for the session.
func (s *Session) ImageEndpoint() string {
	return s.imageEndpoint
}

// Client returns an image service client using the session.
func (s *Session) Client() *Client {
	return NewClient(s.imageEndpoint, s, s.httpClient)
}

type catalogEndpoint struct {
	Interface string `json:"interface"`
	Region    string `json:"region"`
	RegionID  string `json:"region_id"`
	URL       string `json:"url"`
}

type catalogService struct {
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Endpoints []catalogEndpoint `json:"endpoints"`
}

type catalogResponse struct {
	Catalog []catalogService `json:"catalog"`
}

// lookupEndpoint reads the catalog again because goose only records the
// public endpoints of each service.
func (s *Session) lookupEndpoint(ctx context.Context, serviceType, iface, region string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Trace(err)
	}
	var catalog catalogResponse
	requestData := &goosehttp.RequestData{
		RespValue:      &catalog,
		ExpectedStatus: []int{http.StatusOK},
	}
	url := strings.TrimSuffix(s.identityURL, "/") + "/auth/catalog"
	if err := s.httpClient.JsonRequest(http.MethodGet, url, s.Token(), requestData, nil); err != nil {
		return "", errors.Annotate(mapError(err), "fetching service catalog")
	}
	for _, svc := range catalog.Catalog {
		if svc.Type != serviceType {
			continue
		}
		for _, ep := range svc.Endpoints {
			if ep.Interface != iface {
				continue
			}
			if region != "" && ep.Region != region && ep.RegionID != region {
				continue
			}
			return ep.URL, nil
		}
	}
	if region == "" {
		return "", errors.NotFoundf("%s %s endpoint", iface, serviceType)
	}
	return "", errors.NotFoundf("%s %s endpoint in region %q", iface, serviceType, region)
}
