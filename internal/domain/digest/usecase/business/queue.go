package business

import (
	"container/heap"
	"math"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
)

// dueQueue orders subscriptions by the time they next become due
type dueQueue []entities.Subscription

func dueKey(s *entities.Subscription) int64 {
	if s.Frequency == entities.FrequencyRealtime {
		return math.MinInt64
	}
	return s.NextEligible()
}

func (q dueQueue) Len() int { return len(q) }

func (q dueQueue) Less(i, j int) bool {
	ki, kj := dueKey(&q[i]), dueKey(&q[j])
	if ki != kj {
		return ki < kj
	}
	return q[i].ID < q[j].ID
}

func (q dueQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *dueQueue) Push(x any) { *q = append(*q, x.(entities.Subscription)) }

func (q *dueQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	*q = old[:n-1]
	return s
}

// splitDue returns the subscriptions due at now, earliest first, and the
// rest. next is the earliest time one of the rest becomes due, 0 if none.
func splitDue(subs []entities.Subscription, now int64) (due, notDue []entities.Subscription, next int64) {
	q := make(dueQueue, len(subs))
	copy(q, subs)
	heap.Init(&q)

	for q.Len() > 0 {
		top := q[0]
		if !top.Due(now) {
			break
		}
		due = append(due, heap.Pop(&q).(entities.Subscription))
	}

	if q.Len() > 0 {
		next = dueKey(&q[0])
	}
	notDue = []entities.Subscription(q)
	return due, notDue, next
}
