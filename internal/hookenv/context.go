// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv is the charm side of the juju hook tool interface.
package hookenv

import (
	"github.com/juju/loggo/v2"
	"github.com/juju/proxy"
)

// Status is a workload status value accepted by status-set.
type Status string

const (
	Active      Status = "active"
	Blocked     Status = "blocked"
	Waiting     Status = "waiting"
	Maintenance Status = "maintenance"
)

// Context is the view of the running hook or action the charm relies on.
type Context interface {
	UnitName() string
	CharmDir() string
	IsLeader() (bool, error)

	ConfigGet() (map[string]interface{}, error)
	StatusSet(status Status, message string) error
	ApplicationVersionSet(version string) error

	ActionGet() (map[string]interface{}, error)
	ActionSet(values map[string]string) error
	ActionFail(message string) error

	RelationIDs(name string) ([]string, error)
	RelationList(relationID string) ([]string, error)
	RelationGet(relationID, unit string) (map[string]string, error)
	RelationSet(relationID string, values map[string]string) error

	Log(level loggo.Level, message string) error
	ProxySettings() proxy.Settings
}
