package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(subscriptionsExpiredTotal, subscriptionWarningsTotal) }

var subscriptionsExpiredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "guardian_subscriptions_expired_total",
		Help: "Groups removed because their subscription window passed.",
	},
)

var subscriptionWarningsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "guardian_subscription_warnings_total",
		Help: "Pre-expiry subscription notices sent.",
	},
)

func IncSubscriptionsExpired() { subscriptionsExpiredTotal.Inc() }
func IncSubscriptionWarnings() { subscriptionWarningsTotal.Inc() }
