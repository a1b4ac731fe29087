// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/juju/octavia-diskimage-retrofit/internal/glance"
)

// IdentityCredentialsRelation is the relation keystone provides service
// credentials over.
const IdentityCredentialsRelation = "identity-credentials"

// Settings requested from keystone.
const (
	CredentialsProject = "services"
	CredentialsDomain  = "service_domain"
)

// Incomplete is returned while the relation exists but keystone has not
// published credentials yet.
const Incomplete = errors.ConstError("incomplete relation")

// RequestCredentials asks keystone for a service user named username.
func RequestCredentials(ctx Context, username string) error {
	ids, err := ctx.RelationIDs(IdentityCredentialsRelation)
	if err != nil {
		return errors.Trace(err)
	}
	for _, id := range ids {
		err := ctx.RelationSet(id, map[string]string{
			"username": username,
			"project":  CredentialsProject,
			"domain":   CredentialsDomain,
		})
		if err != nil {
			return errors.Annotatef(err, "requesting credentials on %s", id)
		}
	}
	return nil
}

// IdentityCredentials returns the keystone credentials published on the
// identity-credentials relation. NotFound is returned if there is no such
// relation and Incomplete if no remote unit has published a full set.
func IdentityCredentials(ctx Context) (glance.Credentials, error) {
	ids, err := ctx.RelationIDs(IdentityCredentialsRelation)
	if err != nil {
		return glance.Credentials{}, errors.Trace(err)
	}
	if len(ids) == 0 {
		return glance.Credentials{}, errors.NotFoundf("%s relation", IdentityCredentialsRelation)
	}
	for _, id := range ids {
		units, err := ctx.RelationList(id)
		if err != nil {
			return glance.Credentials{}, errors.Trace(err)
		}
		for _, unit := range units {
			if !names.IsValidUnit(unit) {
				logger.Debugf("ignoring %q on %s", unit, id)
				continue
			}
			settings, err := ctx.RelationGet(id, unit)
			if err != nil {
				return glance.Credentials{}, errors.Trace(err)
			}
			creds := glance.Credentials{
				Protocol:          settings["auth_protocol"],
				Host:              settings["auth_host"],
				Port:              settings["auth_port"],
				UserDomainName:    settings["credentials_user_domain_name"],
				ProjectDomainName: settings["credentials_project_domain_name"],
				ProjectName:       settings["credentials_project"],
				Username:          settings["credentials_username"],
				Password:          settings["credentials_password"],
			}
			if err := creds.Validate(); err != nil {
				logger.Debugf("credentials from %s incomplete: %v", unit, err)
				continue
			}
			return creds, nil
		}
	}
	return glance.Credentials{}, errors.Annotate(Incomplete, IdentityCredentialsRelation)
}
