package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	IssuerDynamic = "dynamic"
	IssuerFixed   = "fixed"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "improv_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "improv_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// TokensIssuedTotal counts successfully signed tokens per issuer
	TokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "improv_tokens_issued_total",
		Help: "Total access tokens issued",
	}, []string{"issuer"})

	// IssuanceFailuresTotal counts failed issuance calls by issuer and error kind
	IssuanceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "improv_issuance_failures_total",
		Help: "Total failed issuance calls",
	}, []string{"issuer", "kind"})

	TokenSigningDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "improv_token_signing_duration_seconds",
		Help:    "Access token signing duration",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"issuer"})
)
