package ledger

import "github.com/prometheus/client_golang/prometheus"

var (
	transactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_recorded_total",
			Help: "Number of transactions recorded, by transaction type.",
		},
		[]string{"type"},
	)

	transactionsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_deleted_total",
			Help: "Number of transactions deleted, by transaction type.",
		},
		[]string{"type"},
	)

	integrityViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_integrity_violations_total",
			Help: "Number of writes rejected because the rollups did not match the transactions.",
		},
	)
)

// Collectors returns the ledger metrics so that they can be registered with
// the registry the HTTP server exposes.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{transactionsRecorded, transactionsDeleted, integrityViolations}
}
