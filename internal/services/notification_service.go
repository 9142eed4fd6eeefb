package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshua-takyi/vena/internal/models"
)

const DefaultNotificationQueueSize = 64

// Mailer delivers a notification outside the process.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes deliveries to the log instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.Info("notification delivered", "to", to, "subject", subject, "body_len", len(body))
	return nil
}

type NotificationInput struct {
	UserID    string
	Title     string
	Message   string
	Icon      string
	Link      string
	Recipient string
}

type DeliveryStats struct {
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
	Dropped   int64 `json:"dropped"`
}

type delivery struct {
	to           string
	notification models.Notification
}

// Dispatcher records notifications and hands outbound delivery to a bounded
// queue drained by a single worker. Delivery problems are logged, never returned.
type Dispatcher struct {
	repo   models.NotificationRepo
	mailer Mailer
	logger *slog.Logger
	now    func() time.Time

	idMu   sync.Mutex
	lastID int64

	queueMu sync.RWMutex
	queue   chan delivery
	stopped bool
	wg      sync.WaitGroup
	once    sync.Once

	delivered atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
	dropped   atomic.Int64
}

func NewDispatcher(repo models.NotificationRepo, mailer Mailer, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultNotificationQueueSize
	}
	return &Dispatcher{
		repo:   repo,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
		queue:  make(chan delivery, queueSize),
	}
}

// Start launches the delivery worker, which exits when ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case job, ok := <-d.queue:
				if !ok {
					return
				}
				d.deliver(ctx, job)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop closes the queue and waits for queued deliveries to drain.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.queueMu.Lock()
		d.stopped = true
		close(d.queue)
		d.queueMu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, job delivery) {
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := d.mailer.Send(sendCtx, job.to, job.notification.Title, job.notification.Message); err != nil {
		d.failed.Add(1)
		d.logger.Warn("notification delivery failed",
			"notification_id", job.notification.ID,
			"to", job.to,
			"error", err,
		)
		return
	}
	d.delivered.Add(1)
}

// nextID returns a time-derived id that stays unique when the clock stalls.
func (d *Dispatcher) nextID() int64 {
	d.idMu.Lock()
	defer d.idMu.Unlock()
	n := d.now().UnixNano()
	if n <= d.lastID {
		n = d.lastID + 1
	}
	d.lastID = n
	return n
}

// Notify stores an unread notification and queues its delivery when a
// recipient is known. The stored notification is returned, or nil when the
// store rejected it.
func (d *Dispatcher) Notify(ctx context.Context, in NotificationInput) *models.Notification {
	seq := d.nextID()
	n := models.Notification{
		ID:        fmt.Sprintf("NOTIF-%d", seq),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Icon:      in.Icon,
		Link:      in.Link,
		Timestamp: d.now(),
		IsRead:    false,
		Seq:       seq,
	}

	if err := d.repo.InsertNotification(context.WithoutCancel(ctx), &n); err != nil {
		d.logger.Warn("failed to store notification", "notification_id", n.ID, "error", err)
		return nil
	}

	if in.Recipient == "" {
		d.skipped.Add(1)
		d.logger.Warn("notification recipient not configured, skipping delivery", "notification_id", n.ID)
		return &n
	}
	d.enqueue(delivery{to: in.Recipient, notification: n})
	return &n
}

func (d *Dispatcher) enqueue(job delivery) {
	d.queueMu.RLock()
	defer d.queueMu.RUnlock()
	if d.stopped {
		d.dropped.Add(1)
		d.logger.Warn("notification dispatcher stopped, dropping delivery", "notification_id", job.notification.ID)
		return
	}
	select {
	case d.queue <- job:
	default:
		d.dropped.Add(1)
		d.logger.Warn("notification queue full, dropping delivery", "notification_id", job.notification.ID)
	}
}

func (d *Dispatcher) List(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	return d.repo.ListNotifications(ctx, userID, limit)
}

// MarkRead flips one notification to read; marking it again is a no-op.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, id string) error {
	return d.repo.MarkNotificationRead(ctx, userID, id)
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return d.repo.MarkAllNotificationsRead(ctx, userID)
}

func (d *Dispatcher) Stats() DeliveryStats {
	return DeliveryStats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Skipped:   d.skipped.Load(),
		Dropped:   d.dropped.Load(),
	}
}
