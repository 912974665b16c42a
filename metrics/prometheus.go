// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coresync"

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signals the registered instrument is not of the expected type.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error

	downloadCounter   *prometheus.CounterVec
	downloadDuration  *prometheus.HistogramVec
	storeCopyCounter  *prometheus.CounterVec
	txAppliedCounter  prometheus.Counter
	txSentCounter     prometheus.Counter
	snapshotInstalled prometheus.Gauge

	// calls and total time per catch-up request.
	requestCallCounter *prometheus.CounterVec
	requestTimeCounter *prometheus.CounterVec
)

type instrument int

type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors makes the instrument a vector partitioned by the given labels.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

func newCollector(t instrument, opt instrumentOpts) (prometheus.Collector, error) {
	vector := len(opt.vectors) > 0
	switch t {
	case Gauge:
		if vector {
			return prometheus.NewGaugeVec(prometheus.GaugeOpts(opt.opts), opt.vectors), nil
		}
		return prometheus.NewGauge(prometheus.GaugeOpts(opt.opts)), nil
	case Counter:
		if vector {
			return prometheus.NewCounterVec(prometheus.CounterOpts(opt.opts), opt.vectors), nil
		}
		return prometheus.NewCounter(prometheus.CounterOpts(opt.opts)), nil
	case Histogram:
		o := prometheus.HistogramOpts{
			Namespace: opt.opts.Namespace,
			Name:      opt.opts.Name,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		}
		if vector {
			return prometheus.NewHistogramVec(o, opt.vectors), nil
		}
		return prometheus.NewHistogram(o), nil
	default:
		return nil, ErrInstrumentNotSupported
	}
}

// addInstrument registers a new instrument in the coresync namespace and
// returns it as T.
func addInstrument[T prometheus.Collector](t instrument, name string, opts ...InstrumentOption) (T, error) {
	var zero T
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Namespace: namespace,
			Name:      name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}

	col, err := newCollector(t, opt)
	if err != nil {
		return zero, err
	}
	typed, ok := col.(T)
	if !ok {
		return zero, ErrInstrumentTypeMismatch
	}
	if err := prometheus.Register(col); err != nil {
		return zero, err
	}
	return typed, nil
}

// Setup registers the instruments. Until it is called, every update below
// is a no-op.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Handler returns the HTTP handler exposing the metrics, or nil when they
// are disabled.
func Handler(conf Config) (http.Handler, error) {
	if !conf.Enabled {
		return nil, nil
	}
	if err := Setup(); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.Handler())
	return mux, nil
}

func setupMetrics() (err error) {
	if downloadCounter, err = addInstrument[*prometheus.CounterVec](
		Counter, "downloads_total",
		Vectors("outcome"),
		Help("Number of core state download attempts, by outcome"),
	); err != nil {
		return err
	}

	if downloadDuration, err = addInstrument[*prometheus.HistogramVec](
		Histogram, "download_seconds",
		Vectors("outcome"),
		Buckets([]float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900}),
		Help("Duration of core state download attempts"),
	); err != nil {
		return err
	}

	if storeCopyCounter, err = addInstrument[*prometheus.CounterVec](
		Counter, "store_copies_total",
		Vectors("outcome"),
		Help("Number of full store copies from a peer"),
	); err != nil {
		return err
	}

	if txAppliedCounter, err = addInstrument[prometheus.Counter](
		Counter, "catchup_transactions_applied_total",
		Help("Number of transactions pulled from peers and applied locally"),
	); err != nil {
		return err
	}

	if txSentCounter, err = addInstrument[prometheus.Counter](
		Counter, "catchup_transactions_sent_total",
		Help("Number of transactions streamed to peers catching up"),
	); err != nil {
		return err
	}

	if snapshotInstalled, err = addInstrument[prometheus.Gauge](
		Gauge, "snapshot_installed_index",
		Help("Log index of the last core snapshot installed"),
	); err != nil {
		return err
	}

	if requestCallCounter, err = addInstrument[*prometheus.CounterVec](
		Counter, "request_count_total",
		Vectors("method"),
		Help("Count of catch-up requests served"),
	); err != nil {
		return err
	}

	requestTimeCounter, err = addInstrument[*prometheus.CounterVec](
		Counter, "request_time_total",
		Vectors("method"),
		Help("Total time spent serving each catch-up request"),
	)
	return err
}

// DownloadObserve records the outcome and duration of a download attempt.
func DownloadObserve(outcome string, startTime time.Time) {
	if downloadCounter == nil || downloadDuration == nil {
		return
	}
	downloadCounter.WithLabelValues(outcome).Inc()
	downloadDuration.WithLabelValues(outcome).Observe(time.Since(startTime).Seconds())
}

// StoreCopyInc increments the store copy counter.
func StoreCopyInc(outcome string) {
	if storeCopyCounter == nil {
		return
	}
	storeCopyCounter.WithLabelValues(outcome).Inc()
}

func TransactionsAppliedAdd(n int) {
	if txAppliedCounter == nil || n == 0 {
		return
	}
	txAppliedCounter.Add(float64(n))
}

func TransactionsSentAdd(n int) {
	if txSentCounter == nil || n == 0 {
		return
	}
	txSentCounter.Add(float64(n))
}

func SnapshotInstalledSet(index int64) {
	if snapshotInstalled == nil {
		return
	}
	snapshotInstalled.Set(float64(index))
}

// StartCatchupRequest counts a served catch-up request. The returned func
// records its duration.
func StartCatchupRequest(method string) func() {
	startTime := time.Now()
	return func() {
		if requestCallCounter == nil || requestTimeCounter == nil {
			return
		}
		requestCallCounter.WithLabelValues(method).Inc()
		requestTimeCounter.WithLabelValues(method).Add(time.Since(startTime).Seconds())
	}
}
