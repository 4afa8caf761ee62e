package permission

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "permission_decisions_total",
			Help: "Number of permission checks, by outcome and deciding layer.",
		},
		[]string{"allowed", "source"},
	)

	mutationsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "permission_mutations_total",
			Help: "Number of permission mutations, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

func observeDecision(d Decision) {
	decisionsTotal.WithLabelValues(strconv.FormatBool(d.Allowed), string(d.Source)).Inc()
}

func observeMutation(operation string, res Result, err error) {
	outcome := "success"

	switch {
	case err != nil:
		outcome = "error"
	case !res.OK():
		outcome = "refused"
	}

	mutationsTotal.WithLabelValues(operation, outcome).Inc()
}
