package notify

import (
	"sync"

	"lexscreen/internal/screening/models"
)

// queue is a bounded FIFO of pending notifications. It refuses new records
// when full rather than dropping queued ones.
type queue struct {
	mu       sync.Mutex
	records  []*models.Record
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int
}

func newQueue(capacity int) *queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &queue{
		records:  make([]*models.Record, capacity),
		capacity: capacity,
	}
}

// tryEnqueue adds a record. Returns false if the queue is full.
func (q *queue) tryEnqueue(r *models.Record) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count >= q.capacity {
		return false
	}
	q.records[q.head] = r
	q.head = (q.head + 1) % q.capacity
	q.count++
	return true
}

// dequeueBatch removes up to n records in arrival order.
func (q *queue) dequeueBatch(n int) []*models.Record {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}
	n = min(n, q.count)
	out := make([]*models.Record, n)
	for i := range n {
		out[i] = q.records[q.tail]
		q.records[q.tail] = nil
		q.tail = (q.tail + 1) % q.capacity
	}
	q.count -= n
	return out
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
