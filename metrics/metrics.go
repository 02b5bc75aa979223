// Package metrics holds the Prometheus collectors shared by the panel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// GatewayRequests counts REST API calls by operation and outcome
	// (ok, rejected, failed).
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gestao",
			Name:      "gateway_requests_total",
			Help:      "REST API calls issued by the panel.",
		},
		[]string{"operation", "outcome"},
	)

	// Notifications counts toasts shown to the operator by severity.
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gestao",
			Name:      "notifications_total",
			Help:      "Notifications shown in the panel.",
		},
		[]string{"severity"},
	)
)

// Register adds the collectors to reg. Registering twice on the same
// registry is reported as an error by Prometheus and ignored here.
func Register(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{GatewayRequests, Notifications} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
