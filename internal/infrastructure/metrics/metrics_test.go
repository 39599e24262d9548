package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	require.Same(t, GetDefaultMetrics(), GetDefaultMetrics())
}

func TestMetrics_RecordFeedPoll(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.FeedPollsTotal.WithLabelValues("http_error"))
	m.RecordFeedPoll("http_error", 0.2)
	require.Equal(t, before+1, testutil.ToFloat64(m.FeedPollsTotal.WithLabelValues("http_error")))

	// empty outcome is folded into "unknown"
	m.RecordFeedPoll("", 0.1)
	require.GreaterOrEqual(t, testutil.ToFloat64(m.FeedPollsTotal.WithLabelValues("unknown")), float64(1))
}

func TestMetrics_RecordItemsIngested(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.ItemsIngestedTotal)
	m.RecordItemsIngested(3)
	m.RecordItemsIngested(0)
	m.RecordItemsIngested(-2)
	require.Equal(t, before+3, testutil.ToFloat64(m.ItemsIngestedTotal))
}

func TestMetrics_RecordPollCycle(t *testing.T) {
	m := GetDefaultMetrics()

	m.RecordPollCycle(12, 2, 4.5)
	require.EqualValues(t, 12, testutil.ToFloat64(m.FeedsPolled))
	require.EqualValues(t, 2, testutil.ToFloat64(m.FeedsFailing))
}

func TestMetrics_RecordDelivery(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.DeliveriesTotal.WithLabelValues("telegram", "sent"))
	m.RecordDelivery("telegram", "sent")
	m.RecordDelivery("email", "failed")
	m.RecordDeliveryCycle("telegram", 0.3)
	require.Equal(t, before+1, testutil.ToFloat64(m.DeliveriesTotal.WithLabelValues("telegram", "sent")))
}

func TestMetrics_RecordKafka(t *testing.T) {
	m := GetDefaultMetrics()

	m.RecordKafkaMessage("feeds.items.ingested", 0.01)
	m.RecordKafkaError("feeds.items.ingested")
	require.GreaterOrEqual(t, testutil.ToFloat64(m.KafkaProduceErrors.WithLabelValues("feeds.items.ingested")), float64(1))
}
