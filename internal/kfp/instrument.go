package kfp

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func instrumentTransport(reg prometheus.Registerer, next http.RoundTripper) (http.RoundTripper, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kfp_client_requests_total",
		Help: "Requests sent to the pipelines API, by status code and method.",
	}, []string{"code", "method"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kfp_client_request_duration_seconds",
		Help:    "Latency of requests sent to the pipelines API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	var err error
	if requests, err = registerOrReuse(reg, requests); err != nil {
		return nil, err
	}
	if latency, err = registerOrReuse(reg, latency); err != nil {
		return nil, err
	}

	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(latency, next)), nil
}

// registerOrReuse lets several clients share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
