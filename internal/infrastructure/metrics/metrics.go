package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the feed service
type Metrics struct {
	// Polling metrics
	FeedPollsTotal     *prometheus.CounterVec
	FeedPollDuration   prometheus.Histogram
	ItemsIngestedTotal prometheus.Counter
	PollCyclesTotal    prometheus.Counter
	PollCycleDuration  prometheus.Histogram
	FeedsPolled        prometheus.Gauge
	FeedsFailing       prometheus.Gauge

	// Digest metrics
	DeliveriesTotal       *prometheus.CounterVec
	DeliveryCycleDuration *prometheus.HistogramVec

	// Kafka metrics
	KafkaMessagesProduced *prometheus.CounterVec
	KafkaProduceErrors    *prometheus.CounterVec
	KafkaProduceDuration  prometheus.Histogram
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors with the default registry.
// Use GetDefaultMetrics; a second call panics on duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		FeedPollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_service_feed_polls_total",
				Help: "Total number of feed polls by outcome",
			},
			[]string{"outcome"},
		),
		FeedPollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_service_feed_poll_duration_seconds",
			Help:    "Duration of a single feed poll in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		ItemsIngestedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "feed_service_items_ingested_total",
			Help: "Total number of new feed items stored",
		}),
		PollCyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "feed_service_poll_cycles_total",
			Help: "Total number of polling cycles",
		}),
		PollCycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_service_poll_cycle_duration_seconds",
			Help:    "Duration of polling cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		FeedsPolled: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "feed_service_feeds_polled",
			Help: "Number of feeds polled in the last cycle",
		}),
		FeedsFailing: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "feed_service_feeds_failing",
			Help: "Number of feeds that failed in the last cycle",
		}),

		DeliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_service_digest_deliveries_total",
				Help: "Total number of digest subscription outcomes by channel",
			},
			[]string{"channel", "outcome"},
		),
		DeliveryCycleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_service_digest_cycle_duration_seconds",
				Help:    "Duration of digest delivery cycles in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"channel"},
		),

		KafkaMessagesProduced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_service_kafka_messages_produced_total",
				Help: "Total number of messages produced to Kafka",
			},
			[]string{"topic"},
		),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_service_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"topic"},
		),
		KafkaProduceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_service_kafka_produce_duration_seconds",
			Help:    "Duration of Kafka produce operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordFeedPoll records the outcome of polling one feed
func (m *Metrics) RecordFeedPoll(outcome string, duration float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.FeedPollsTotal.WithLabelValues(outcome).Inc()
	m.FeedPollDuration.Observe(duration)
}

// RecordItemsIngested adds newly stored items
func (m *Metrics) RecordItemsIngested(count int) {
	// Only add positive values to prevent counter from going backwards
	if count > 0 {
		m.ItemsIngestedTotal.Add(float64(count))
	}
}

// RecordPollCycle records a finished polling cycle
func (m *Metrics) RecordPollCycle(feeds, failed int, duration float64) {
	m.PollCyclesTotal.Inc()
	m.PollCycleDuration.Observe(duration)
	m.FeedsPolled.Set(float64(feeds))
	m.FeedsFailing.Set(float64(failed))
}

// RecordDelivery records the outcome for one subscription
func (m *Metrics) RecordDelivery(channel, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.DeliveriesTotal.WithLabelValues(channel, outcome).Inc()
}

// RecordDeliveryCycle records a finished delivery cycle of a channel
func (m *Metrics) RecordDeliveryCycle(channel string, duration float64) {
	m.DeliveryCycleDuration.WithLabelValues(channel).Observe(duration)
}

// RecordKafkaMessage records a produced message with duration
func (m *Metrics) RecordKafkaMessage(topic string, duration float64) {
	m.KafkaMessagesProduced.WithLabelValues(topic).Inc()
	m.KafkaProduceDuration.Observe(duration)
}

// RecordKafkaError records a failed produce
func (m *Metrics) RecordKafkaError(topic string) {
	m.KafkaProduceErrors.WithLabelValues(topic).Inc()
}
