/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	if err := pp.httpServer.ListenAndServe(); err != nil {
		return fmt.Errorf("start metrics HTTP server: %w", err)
	}

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics for the gateway.
type PromMetrics struct {
	initiateTxTime    prometheus.Histogram
	checkAuthRespTime prometheus.Histogram
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		initiateTxTime:    newInitiateTransactionTime(),
		checkAuthRespTime: newCheckAuthRespTime(),
	}

	registerMetrics(pm)

	return pm
}

// InitiateTransactionTime records the time for the InitiateTransaction service call.
func (pm *PromMetrics) InitiateTransactionTime(value time.Duration) {
	pm.initiateTxTime.Observe(value.Seconds())

	logger.Debug("InitiateTransaction service call time", log.WithDuration(value))
}

// CheckAuthorizationResponseTime records the time for the CheckAuthorizationResponse controller endpoint call.
func (pm *PromMetrics) CheckAuthorizationResponseTime(value time.Duration) {
	pm.checkAuthRespTime.Observe(value.Seconds())

	logger.Debug("CheckAuthorizationResponse controller endpoint time", log.WithDuration(value))
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.initiateTxTime, pm.checkAuthRespTime,
	)
}

func newHistogram(subsystem, name, help string, labels prometheus.Labels) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newInitiateTransactionTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.InitiateTransactionTime,
		"The time (in seconds) it takes to initiate a presentation transaction.",
		nil,
	)
}

func newCheckAuthRespTime() prometheus.Histogram {
	return newHistogram(
		metrics.Controller, metrics.ControllerCheckAuthRespMetric,
		"The time (in seconds) it takes to check the wallet authorization response.",
		nil,
	)
}
