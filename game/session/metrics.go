package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commandsTotal counts handled commands by name and outcome
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slidingpuzzle_commands_total",
		Help: "Total protocol commands handled by command and result",
	}, []string{"command", "result"})

	// commandDuration tracks time spent handling a command
	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slidingpuzzle_command_duration_seconds",
		Help:    "Protocol command handling duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	}, []string{"command"})

	// sessionsActive tracks sessions currently being served
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slidingpuzzle_sessions_active",
		Help: "Number of sessions currently being served",
	})

	// winsTotal counts solved boards
	winsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slidingpuzzle_wins_total",
		Help: "Total boards solved",
	})
)

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
