// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package glance

import (
	"fmt"

	"github.com/juju/errors"
)

// Credentials are the service credentials handed to the charm over the
// identity-credentials relation.
type Credentials struct {
	Protocol string
	Host     string
	Port     string

	UserDomainName    string
	ProjectDomainName string
	ProjectName       string
	Username          string
	Password          string
}

// AuthURL is the keystone URL the credentials are valid for.
func (c Credentials) AuthURL() string {
	return fmt.Sprintf("%s://%s:%s/", c.Protocol, c.Host, c.Port)
}

// IdentityURL is the versioned keystone v3 API root below AuthURL.
func (c Credentials) IdentityURL() string {
	return c.AuthURL() + "v3"
}

// Validate checks that every field needed to authenticate is present.
func (c Credentials) Validate() error {
	for name, value := range map[string]string{
		"protocol":            c.Protocol,
		"host":                c.Host,
		"port":                c.Port,
		"user domain name":    c.UserDomainName,
		"project domain name": c.ProjectDomainName,
		"project name":        c.ProjectName,
		"username":            c.Username,
		"password":            c.Password,
	} {
		if value == "" {
			return errors.NotValidf("empty %s", name)
		}
	}
	return nil
}
