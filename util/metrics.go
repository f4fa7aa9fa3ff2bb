package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	playerJoinedCounter   prometheus.Counter
	playerLeftCounter     prometheus.Counter
	handDealtCounter      prometheus.Counter
	tableCreatedCounter   prometheus.Counter
	tableDestroyedCounter prometheus.Counter
	gameCacheCountGauge   prometheus.Gauge
}

func (m *metrics) PlayerJoined() {
	m.playerJoinedCounter.Inc()
}

func (m *metrics) PlayerLeft() {
	m.playerLeftCounter.Inc()
}

func (m *metrics) HandDealt() {
	m.handDealtCounter.Inc()
}

func (m *metrics) TableCreated() {
	m.tableCreatedCounter.Inc()
}

func (m *metrics) TableDestroyed() {
	m.tableDestroyedCounter.Inc()
}

func (m *metrics) SetGameCacheCount(count int) {
	m.gameCacheCountGauge.Set(float64(count))
}

var Metrics = &metrics{
	playerJoinedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_joined_total",
		Help: "Total number of players seated across all games",
	}),
	playerLeftCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_left_total",
		Help: "Total number of players that left their games",
	}),
	handDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands dealt",
	}),
	tableCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "tables_created_total",
		Help: "Total number of tables created",
	}),
	tableDestroyedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "tables_destroyed_total",
		Help: "Total number of empty tables destroyed",
	}),
	gameCacheCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_cache_entries_count",
		Help: "Count of the entries in the manager game cache",
	}),
}
