package loadrun

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perflens_loadruns_started_total",
		Help: "Load runs accepted and spawned.",
	})

	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perflens_loadruns_finished_total",
		Help: "Load runs reaching a terminal state, by state.",
	}, []string{"state"})
)
