package sequencer

import "github.com/prometheus/client_golang/prometheus"

// metrics is a small Prometheus registry scoped to block production and
// transaction admission — the devnet analogue of Juno's pervasive
// client_golang instrumentation, sized down since there is no metrics
// HTTP endpoint in scope here (that belongs to the RPC/gateway
// collaborator).
type metrics struct {
	blocksSealed     prometheus.Counter
	txnsAdmitted     *prometheus.CounterVec
	pendingTxnsGauge prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		blocksSealed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sequencer_blocks_sealed_total",
			Help: "Total number of blocks sealed by the block producer.",
		}),
		txnsAdmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sequencer_transactions_admitted_total",
			Help: "Total number of transactions admitted, by outcome status.",
		}, []string{"status"}),
		pendingTxnsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sequencer_pending_block_transactions",
			Help: "Number of transactions currently in the pending block.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.blocksSealed, m.txnsAdmitted, m.pendingTxnsGauge)
	}
	return m
}
