package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

const (
	// DefaultToastTTL is the fixed toast expiry.
	DefaultToastTTL = 4000 * time.Millisecond

	// DefaultToastCap bounds the queue under notify bursts; the oldest
	// toast is dropped when the cap is reached.
	DefaultToastCap = 64
)

// NotificationCenter is the ordered, auto-expiring toast queue. Every toast
// self-destructs after a fixed delay regardless of user interaction; early
// dismissal is supported, and a timer firing against an already-removed ID
// is a no-op. Subscribers receive a snapshot of the queue on every change.
type NotificationCenter struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	toasts  []domain.Toast
	timers  map[string]*time.Timer
	subs    map[int]chan []domain.Toast
	nextSub int
}

// NewNotificationCenter creates a center with the given expiry and queue cap.
// Zero values select the defaults.
func NewNotificationCenter(ttl time.Duration, queueCap int) *NotificationCenter {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if queueCap <= 0 {
		queueCap = DefaultToastCap
	}
	return &NotificationCenter{
		ttl:    ttl,
		cap:    queueCap,
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]chan []domain.Toast),
	}
}

// Notify appends a toast and schedules its removal. When the queue is full
// the oldest toast is dropped first.
func (n *NotificationCenter) Notify(message string, severity domain.Severity) domain.Toast {
	toast := domain.Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
	}

	n.mu.Lock()
	if len(n.toasts) >= n.cap {
		n.removeLocked(n.toasts[0].ID)
	}
	n.toasts = append(n.toasts, toast)
	n.timers[toast.ID] = time.AfterFunc(n.ttl, func() { n.Dismiss(toast.ID) })
	n.broadcastLocked()
	n.mu.Unlock()

	return toast
}

// Dismiss removes a toast before its timeout. Dismissing an unknown or
// already-expired ID does nothing.
func (n *NotificationCenter) Dismiss(id string) {
	n.mu.Lock()
	if n.removeLocked(id) {
		n.broadcastLocked()
	}
	n.mu.Unlock()
}

// Active returns the current queue in notification order.
func (n *NotificationCenter) Active() []domain.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}

// Subscribe registers for queue snapshots. The returned cancel func must be
// called when the subscriber goes away. Slow subscribers miss intermediate
// snapshots rather than blocking the queue.
func (n *NotificationCenter) Subscribe() (<-chan []domain.Toast, func()) {
	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	ch := make(chan []domain.Toast, 1)
	n.subs[id] = ch
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// removeLocked deletes the toast and stops its pending timer. It reports
// whether anything was removed.
func (n *NotificationCenter) removeLocked(id string) bool {
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			if timer, ok := n.timers[id]; ok {
				timer.Stop()
				delete(n.timers, id)
			}
			return true
		}
	}
	return false
}

func (n *NotificationCenter) broadcastLocked() {
	snapshot := make([]domain.Toast, len(n.toasts))
	copy(snapshot, n.toasts)
	for _, ch := range n.subs {
		// Replace a pending, unread snapshot instead of blocking.
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
