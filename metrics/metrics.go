package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
	OutcomeInvalid = "invalid"
)

// WalletMetrics holds the counters the engine and providers report into.
// A nil *WalletMetrics is valid and records nothing.
type WalletMetrics struct {
	Registry *prometheus.Registry

	ProviderRequestsTotal *prometheus.CounterVec
	BroadcastTotal        *prometheus.CounterVec
	SendAmountTotal       prometheus.Counter
	ServiceFeeTotal       prometheus.Counter
}

// New registers the wallet metrics on a fresh registry.
func New() *WalletMetrics {
	reg := prometheus.NewRegistry()
	m := &WalletMetrics{
		Registry: reg,
		ProviderRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_provider_requests_total",
			Help: "Data provider requests by provider, method and outcome",
		}, []string{"provider", "method", "outcome"}),
		BroadcastTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_broadcast_total",
			Help: "Broadcast attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		SendAmountTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_send_amount_satoshis_total",
			Help: "Satoshis sent to destinations by successful sends",
		}),
		ServiceFeeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_service_fee_satoshis_total",
			Help: "Service fee satoshis paid by successful sends",
		}),
	}
	reg.MustRegister(m.ProviderRequestsTotal, m.BroadcastTotal, m.SendAmountTotal, m.ServiceFeeTotal)
	return m
}

func (m *WalletMetrics) ProviderRequest(provider, method, outcome string) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, method, outcome).Inc()
}

func (m *WalletMetrics) Broadcast(provider, outcome string) {
	if m == nil {
		return
	}
	m.BroadcastTotal.WithLabelValues(provider, outcome).Inc()
}

// Sent records a settled send.
func (m *WalletMetrics) Sent(amount, serviceFee int64) {
	if m == nil {
		return
	}
	m.SendAmountTotal.Add(float64(amount))
	m.ServiceFeeTotal.Add(float64(serviceFee))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *WalletMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
