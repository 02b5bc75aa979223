package panel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gestao-alunos-go/metrics"
)

// DefaultToastTTL is how long a notification stays up unless dismissed.
const DefaultToastTTL = 5 * time.Second

// Severity of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Icon returns the icon class shown next to a notification of this severity
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "fas fa-check-circle"
	case SeverityError:
		return "fas fa-exclamation-circle"
	case SeverityWarning:
		return "fas fa-exclamation-triangle"
	default:
		return "fas fa-info-circle"
	}
}

// Notification is one transient toast
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	Icon      string
	CreatedAt time.Time
}

type toast struct {
	Notification
	timer *time.Timer
}

// notifier keeps toasts in append order and removes each one when its
// timer fires or when it is dismissed, whichever happens first.
type notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []*toast
}

func newNotifier(ttl time.Duration) *notifier {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &notifier{ttl: ttl}
}

func (n *notifier) add(message string, severity Severity) Notification {
	if severity == "" {
		severity = SeveritySuccess
	}
	t := &toast{Notification: Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Icon:      severity.Icon(),
		CreatedAt: time.Now(),
	}}

	n.mu.Lock()
	n.toasts = append(n.toasts, t)
	id := t.ID
	t.timer = time.AfterFunc(n.ttl, func() { n.dismiss(id) })
	n.mu.Unlock()

	metrics.Notifications.WithLabelValues(string(severity)).Inc()
	return t.Notification
}

func (n *notifier) dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.toasts {
		if t.ID != id {
			continue
		}
		if t.timer != nil {
			t.timer.Stop()
		}
		n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
		return true
	}
	return false
}

func (n *notifier) list() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.toasts))
	for i, t := range n.toasts {
		out[i] = t.Notification
	}
	return out
}
