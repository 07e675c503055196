package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var probesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "perflens_probes_total",
	Help: "Capability probes issued, by candidate path and outcome.",
}, []string{"path", "capable"})
