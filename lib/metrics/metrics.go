// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exports pagination session activity to Prometheus.
//
// [Observer] implements pagination.Observer. Register it once and hand
// it to every session through Options.Observer:
//
//	observer := metrics.New(prometheus.DefaultRegisterer)
//	options := pagination.ButtonOptions{Options: pagination.Options{Observer: observer}}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/pager/lib/pagination"
)

const namespace = "pager"

// Observer counts sessions, control presses, and denials per variant.
type Observer struct {
	started  *prometheus.CounterVec
	controls *prometheus.CounterVec
	denied   *prometheus.CounterVec
	ended    *prometheus.CounterVec
	active   *prometheus.GaugeVec
}

var _ pagination.Observer = (*Observer)(nil)

// New creates the collectors and registers them with registerer. It
// panics if they are already registered, like prometheus.MustRegister.
func New(registerer prometheus.Registerer) *Observer {
	observer := &Observer{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Pagination sessions started.",
		}, []string{"variant"}),
		controls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "controls_used_total",
			Help:      "Accepted control presses.",
		}, []string{"variant", "action"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "denied_total",
			Help:      "Control presses from users not allowed to drive the pager.",
		}, []string{"variant"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Pagination sessions ended, by reason.",
		}, []string{"variant", "reason"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Pagination sessions currently running.",
		}, []string{"variant"}),
	}
	registerer.MustRegister(observer.started, observer.controls, observer.denied, observer.ended, observer.active)
	return observer
}

func (o *Observer) SessionStarted(variant pagination.Variant) {
	o.started.WithLabelValues(string(variant)).Inc()
	o.active.WithLabelValues(string(variant)).Inc()
}

func (o *Observer) ControlUsed(variant pagination.Variant, action pagination.Action) {
	o.controls.WithLabelValues(string(variant), action.String()).Inc()
}

func (o *Observer) Denied(variant pagination.Variant) {
	o.denied.WithLabelValues(string(variant)).Inc()
}

func (o *Observer) SessionEnded(variant pagination.Variant, reason pagination.EndReason) {
	o.ended.WithLabelValues(string(variant), string(reason)).Inc()
	o.active.WithLabelValues(string(variant)).Dec()
}
