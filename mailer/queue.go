package mailer

import (
	"context"
	"sync"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/logging"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/metrics"
)

// Compile-time check to ensure Queue implements the NotificationQueue interface
var _ interfaces.NotificationQueue = (*Queue)(nil)

// Queue runs notification jobs on a single background worker. Each job is
// one whole notifier invocation; a failed job is logged and dropped here
// because retry policy belongs to the delivery infrastructure, not to order
// placement.
type Queue struct {
	notifier interfaces.Notifier
	jobs     chan int64
	wg       sync.WaitGroup
	once     sync.Once
}

// NewQueue creates a queue buffering up to size pending confirmations.
func NewQueue(notifier interfaces.Notifier, size int) *Queue {
	return &Queue{
		notifier: notifier,
		jobs:     make(chan int64, size),
	}
}

// Start launches the worker. It drains remaining jobs after ctx is
// cancelled so accepted work is not lost on shutdown.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for orderID := range q.jobs {
			if err := q.notifier.SendOrderConfirmation(ctx, orderID); err != nil {
				metrics.MailNotificationsTotal.WithLabelValues("failed").Inc()
				logging.Error("Order confirmation failed", "order_id", orderID, "error", err)
				continue
			}
			metrics.MailNotificationsTotal.WithLabelValues("sent").Inc()
			logging.Info("Order confirmation sent", "order_id", orderID)
		}
	}()
}

// EnqueueOrderConfirmation queues a confirmation without blocking the
// caller. When the buffer is full the job is dropped with an error log
// rather than stalling order placement.
func (q *Queue) EnqueueOrderConfirmation(orderID int64) {
	select {
	case q.jobs <- orderID:
	default:
		metrics.MailNotificationsTotal.WithLabelValues("dropped").Inc()
		logging.Error("Notification queue full, dropping confirmation", "order_id", orderID)
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (q *Queue) Stop() {
	q.once.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
