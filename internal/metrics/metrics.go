package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Gateway invocations by action and result",
		},
		[]string{"action", "result"},
	)
	PanelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_panel_requests_total",
			Help: "Upstream panel calls by endpoint and result",
		},
		[]string{"call", "result"},
	)
	AdmissionRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_admission_rejections_total",
			Help: "Requests rejected before any upstream contact",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		PanelRequestsTotal,
		AdmissionRejections,
	)
}
