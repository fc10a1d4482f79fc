// Package metrics holds the prometheus counters exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Signups      prometheus.Counter
	Logins       *prometheus.CounterVec
	Messages     *prometheus.CounterVec
	Likes        *prometheus.CounterVec
	Follows      *prometheus.CounterVec
	Unauthorized *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "signups_total",
				Help:      "Total number of accounts created",
			},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "logins_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "messages_total",
				Help:      "Messages created or deleted",
			},
			[]string{"action"},
		),
		Likes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "likes_total",
				Help:      "Likes added or removed",
			},
			[]string{"action"},
		),
		Follows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "follows_total",
				Help:      "Follow and unfollow requests",
			},
			[]string{"action"},
		),
		Unauthorized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "warbler",
				Name:      "unauthorized_total",
				Help:      "Requests rejected as unauthorized, by route",
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(
		m.Signups,
		m.Logins,
		m.Messages,
		m.Likes,
		m.Follows,
		m.Unauthorized,
	)

	return m
}
