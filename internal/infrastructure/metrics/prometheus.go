// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkedin_dl"

var (
	// CacheOperationsTotal tracks cache operations (get, set).
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success
	//   - cache_type: memory
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// ExtractionAttemptsTotal tracks yt-dlp invocations per strategy.
	// Labels:
	//   - strategy: strategy name
	//   - result: success, failure, timeout
	ExtractionAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_attempts_total",
			Help:      "Total number of extraction attempts by strategy",
		},
		[]string{"strategy", "result"},
	)

	// ReaperSweepsTotal counts scratch directory sweeps that actually ran.
	ReaperSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaper_sweeps_total",
			Help:      "Total number of scratch directory sweeps",
		},
	)

	// ReaperFilesTotal counts files handled by the reaper.
	// Labels:
	//   - result: removed, failed
	ReaperFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaper_files_total",
			Help:      "Total number of stale scratch files handled by the reaper",
		},
		[]string{"result"},
	)

	// DownloadsTotal tracks full server-side downloads.
	// Labels:
	//   - result: success, failure, timeout
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Total number of server-side downloads",
		},
		[]string{"result"},
	)

	// ProxyBytesTotal counts media bytes relayed by the download proxy.
	ProxyBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_bytes_total",
			Help:      "Total number of media bytes relayed by the download proxy",
		},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeMemory = "memory"
)

// Result label constants shared by extraction, reaper and download metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultTimeout = "timeout"
	ResultRemoved = "removed"
	ResultFailed  = "failed"
)
