package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SigningMetrics 定义签名流程监控指标
type SigningMetrics struct {
	SessionsTotal           *prometheus.CounterVec
	TransportFailuresTotal  *prometheus.CounterVec
	ValidationFailuresTotal *prometheus.CounterVec
}

// Global Metrics Instance
var Signing *SigningMetrics

// Init 初始化业务指标 (safe to call more than once)
func Init() {
	if Signing != nil {
		return
	}
	Signing = &SigningMetrics{
		SessionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coldsign_sessions_total",
			Help: "Signing sessions by terminal result",
		}, []string{"result"}),
		TransportFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coldsign_transport_failures_total",
			Help: "Transport level failures by kind",
		}, []string{"kind"}),
		ValidationFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coldsign_validation_failures_total",
			Help: "Pre-transport validation failures by check",
		}, []string{"check"}),
	}
}

// SessionFinished records a session reaching a terminal state.
func SessionFinished(result string) {
	if Signing != nil {
		Signing.SessionsTotal.WithLabelValues(result).Inc()
	}
}

// TransportFailure records a connection-level transport failure.
func TransportFailure(kind string) {
	if Signing != nil {
		Signing.TransportFailuresTotal.WithLabelValues(kind).Inc()
	}
}

// ValidationFailure records one failed verification check.
func ValidationFailure(check string) {
	if Signing != nil {
		Signing.ValidationFailuresTotal.WithLabelValues(check).Inc()
	}
}
