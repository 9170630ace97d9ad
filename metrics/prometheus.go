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
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "dibs"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error
	registry  = prometheus.NewRegistry()

	engineTime            *prometheus.HistogramVec
	callCounter           *prometheus.CounterVec
	rewardCounter         *prometheus.CounterVec
	claimCounter          *prometheus.CounterVec
	signatureCounter      *prometheus.CounterVec
	pairRewardersGauge    prometheus.Gauge
	apiRequestCallCounter *prometheus.CounterVec
	apiRequestTimeCounter *prometheus.CounterVec
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configures and registers a new metrics instrument.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := registry.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers every instrument, it is safe to call it more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Start exposes the metrics on their own server until the context is done.
func Start(ctx context.Context, conf Config) error {
	if !conf.Enabled {
		return nil
	}
	if err := Setup(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "metrics server failed")
	}
	return nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Histogram,
		"engine_seconds",
		Namespace(namespace),
		Vectors("engine", "fn"),
		Buckets([]float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}),
		Help("Time spent in each engine entry point"),
	)
	if err != nil {
		return err
	}
	if engineTime, err = h.HistogramVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"calls_total",
		Namespace(namespace),
		Vectors("fn", "result"),
		Help("Number of entry point calls by outcome"),
	)
	if err != nil {
		return err
	}
	if callCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"rewards_total",
		Namespace(namespace),
		Vectors("token"),
		Help("Number of rewarded trades"),
	)
	if err != nil {
		return err
	}
	if rewardCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"claims_total",
		Namespace(namespace),
		Vectors("kind"),
		Help("Number of successful claims by kind"),
	)
	if err != nil {
		return err
	}
	if claimCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"signature_verifications_total",
		Namespace(namespace),
		Vectors("layer", "valid"),
		Help("Number of verified group and gateway signatures"),
	)
	if err != nil {
		return err
	}
	if signatureCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"pair_rewarders",
		Namespace(namespace),
		Help("Number of deployed pair rewarders"),
	)
	if err != nil {
		return err
	}
	if pairRewardersGauge, err = h.Gauge(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"request_count_total",
		Namespace(namespace),
		Vectors("apiType", "requestType"),
		Help("Count of API requests"),
	)
	if err != nil {
		return err
	}
	if apiRequestCallCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"request_time_total",
		Namespace(namespace),
		Vectors("apiType", "requestType"),
		Help("Total time spent in each API request"),
	)
	if err != nil {
		return err
	}
	if apiRequestTimeCounter, err = h.CounterVec(); err != nil {
		return err
	}
	return nil
}

// EngineTimeObserve records the time spent in fn since start.
func EngineTimeObserve(engine, fn string, start time.Time) {
	if engineTime == nil {
		return
	}
	engineTime.WithLabelValues(engine, fn).Observe(time.Since(start).Seconds())
}

// CallCounterInc counts an entry point call, result is "ok" or the error.
func CallCounterInc(fn string, err error) {
	if callCounter == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	callCounter.WithLabelValues(fn, result).Inc()
}

func RewardCounterInc(token string) {
	if rewardCounter == nil {
		return
	}
	rewardCounter.WithLabelValues(token).Inc()
}

func ClaimCounterInc(kind string) {
	if claimCounter == nil {
		return
	}
	claimCounter.WithLabelValues(kind).Inc()
}

func SignatureVerificationInc(layer string, valid bool) {
	if signatureCounter == nil {
		return
	}
	signatureCounter.WithLabelValues(layer, fmt.Sprintf("%t", valid)).Inc()
}

func PairRewardersGaugeSet(n int) {
	if pairRewardersGauge == nil {
		return
	}
	pairRewardersGauge.Set(float64(n))
}

// APIRequestAndTimeREST updates the metrics for REST API calls
func APIRequestAndTimeREST(request string, time float64) {
	if apiRequestCallCounter == nil || apiRequestTimeCounter == nil {
		return
	}
	apiRequestCallCounter.WithLabelValues("REST", request).Inc()
	apiRequestTimeCounter.WithLabelValues("REST", request).Add(time)
}
