package domain

import "strconv"

// NotificationType represents the kind of event a notification reports.
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationMessage       NotificationType = "message"
	NotificationSystem        NotificationType = "system"
)

// Valid checks if the notification type is one we produce.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFriendRequest,
		NotificationMessage, NotificationSystem:
		return true
	default:
		return false
	}
}

// Notification is a per-user inbox entry driving the bell badge.
type Notification struct {
	Record
	UserID  string           `json:"user_id"` // Recipient
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	Read    bool             `json:"read"`
}

// badgeCap is the largest count the badge displays as a number.
const badgeCap = 99

// BadgeLabel formats an unread count for the bell badge.
// Zero means no badge; counts above 99 collapse to "99+".
func BadgeLabel(unread int) string {
	if unread <= 0 {
		return ""
	}
	if unread > badgeCap {
		return "99+"
	}
	return strconv.Itoa(unread)
}

// CountUnread returns the number of unread notifications in the slice.
func CountUnread(notifications []*Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}
