// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package metrics exports the outcome of the last retrofit run for the node
// exporter textfile collector.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var logger = loggo.GetLogger("octavia.retrofit.metrics")

const (
	// DefaultTextfileDir is watched by prometheus-node-exporter.
	DefaultTextfileDir = "/var/lib/prometheus/node-exporter"

	// TextfileName is the file written in the textfile directory.
	TextfileName = "octavia_diskimage_retrofit.prom"

	namespace = "octavia_retrofit"
)

// Run is the outcome of one retrofit.
type Run struct {
	Finished time.Time
	Duration time.Duration
	Success  bool
}

// Recorder keeps the last run gauges.
type Recorder struct {
	dir      string
	registry *prometheus.Registry

	timestamp prometheus.Gauge
	success   prometheus.Gauge
	duration  prometheus.Gauge
}

// NewRecorder returns a Recorder writing to dir.
func NewRecorder(dir string) *Recorder {
	r := &Recorder{
		dir:      dir,
		registry: prometheus.NewRegistry(),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last image retrofit finished.",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "Whether the last image retrofit succeeded.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time taken by the last image retrofit.",
		}),
	}
	r.registry.MustRegister(r.timestamp, r.success, r.duration)
	return r
}

// Gatherer exposes the metrics collected so far.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Record updates the gauges and rewrites the textfile. Nothing is written
// if the textfile directory does not exist.
func (r *Recorder) Record(run Run) error {
	r.timestamp.Set(float64(run.Finished.Unix()))
	r.duration.Set(run.Duration.Seconds())
	if run.Success {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}

	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		logger.Debugf("textfile directory %q missing, not exporting metrics", r.dir)
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	path := filepath.Join(r.dir, TextfileName)
	return errors.Annotatef(prometheus.WriteToTextfile(path, r.registry), "writing %q", path)
}
