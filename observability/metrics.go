// Package observability exposes the Prometheus metrics of the chat server.
// Collectors are auto-registered on the default registry via promauto and
// scraped through the /metrics endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_active_connections",
		Help: "Number of currently open websocket connections",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_active_rooms",
		Help: "Number of rooms that currently have members",
	})

	RoomJoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_room_joins_total",
		Help: "Total number of room joins",
	})

	GroupMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_group_messages_total",
		Help: "Total number of group messages persisted and fanned out",
	})

	PrivateMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_private_messages_total",
		Help: "Total number of private messages persisted",
	})

	StoreFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_store_failures_total",
		Help: "Total number of message persistence failures",
	})

	DroppedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_dropped_events_total",
		Help: "Total number of outbound events dropped on full client buffers",
	})
)
