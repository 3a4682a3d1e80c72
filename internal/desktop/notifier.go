// Package desktop bridges in-app notifications to the desktop via the
// org.freedesktop.Notifications D-Bus service. The app keeps working
// without a session bus (headless, CI); notifications just stay
// in-app.
package desktop

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications.Notify"

	appName = "SocialSphere"

	// expireDefault lets the notification daemon pick the timeout.
	expireDefault = int32(-1)
)

// Notifier sends desktop notifications.
type Notifier interface {
	Notify(summary, body string) error
}

// NoopNotifier discards notifications. Used when the session bus is
// unavailable or desktop notifications are disabled in settings.
type NoopNotifier struct{}

// Notify implements Notifier as a no-op.
func (NoopNotifier) Notify(_, _ string) error { return nil }

// DBusNotifier delivers notifications over the session bus.
type DBusNotifier struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewNotifier connects to the session bus. When the bus is
// unreachable, it returns a NoopNotifier rather than an error so the
// app runs unchanged in headless environments.
func NewNotifier(logger *slog.Logger) Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		if logger != nil {
			logger.Info("session bus unavailable, desktop notifications disabled", "error", err)
		}
		return NoopNotifier{}
	}
	return &DBusNotifier{conn: conn, logger: logger}
}

// Notify sends one desktop notification.
func (n *DBusNotifier) Notify(summary, body string) error {
	obj := n.conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyInterface, 0,
		appName,
		uint32(0), // Not replacing an earlier notification
		"",        // No icon
		summary,
		body,
		[]string{},                // No actions
		map[string]dbus.Variant{}, // No hints
		expireDefault,
	)
	if call.Err != nil {
		return fmt.Errorf("send desktop notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}

	if n.logger != nil {
		n.logger.Debug("desktop notification sent", "id", id, "summary", summary)
	}
	return nil
}

// Close releases the bus connection.
func (n *DBusNotifier) Close() error {
	return n.conn.Close()
}
