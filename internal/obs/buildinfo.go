package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "epicevents_build_info",
		Help: "Epic Events CRM build information.",
	},
	[]string{"version", "commit"},
)

// SetBuildInfo publishes build_info{version,commit} = 1.
func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}
