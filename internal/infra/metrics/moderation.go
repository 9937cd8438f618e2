package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(warningsIssuedTotal, mutesTotal, locksAppliedTotal, locksReleasedTotal, policyTickErrorsTotal)
}

var warningsIssuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "guardian_warnings_issued_total",
		Help: "Total number of warnings issued across all groups.",
	},
)

var mutesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "guardian_mutes_total",
		Help: "Total number of escalation mutes applied.",
	},
)

var locksAppliedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guardian_locks_applied_total",
		Help: "Group locks applied, labeled by source.",
	},
	[]string{"source"}, // 'manual', 'night'
)

var locksReleasedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guardian_locks_released_total",
		Help: "Group locks released, labeled by source.",
	},
	[]string{"source"}, // 'manual', 'night', 'expiry'
)

var policyTickErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "guardian_policy_tick_errors_total",
		Help: "Per-group failures during policy clock passes.",
	},
)

func IncWarningsIssued() { warningsIssuedTotal.Inc() }

func IncMutes() { mutesTotal.Inc() }

func IncLocksApplied(source string) { locksAppliedTotal.WithLabelValues(source).Inc() }

func IncLocksReleased(source string) { locksReleasedTotal.WithLabelValues(source).Inc() }

func IncPolicyTickErrors() { policyTickErrorsTotal.Inc() }
