package oauthapp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var flowRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oauth_flow_requests_total",
	Help: "Install flow requests by endpoint and outcome.",
}, []string{"endpoint", "outcome"})
