package optimistic

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// Notification is a user-facing outcome message. The UI layer renders
// these as toasts; nothing in the reconciler depends on them being read.
type Notification struct {
	Level   Level
	Message string
}

const notificationBuffer = 64

// notify delivers without blocking. A slow or absent consumer loses
// notifications, never stalls a toggle.
func (r *Reconciler) notify(level Level, message string) {
	select {
	case r.notifications <- Notification{Level: level, Message: message}:
	default:
	}
}

// Notifications exposes the outcome side channel.
func (r *Reconciler) Notifications() <-chan Notification {
	return r.notifications
}
