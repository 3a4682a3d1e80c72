package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeLabel(t *testing.T) {
	tests := []struct {
		name     string
		unread   int
		expected string
	}{
		{"zero hides the badge", 0, ""},
		{"negative hides the badge", -3, ""},
		{"small count", 5, "5"},
		{"at the cap", 99, "99"},
		{"above the cap", 100, "99+"},
		{"far above the cap", 1500, "99+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BadgeLabel(tt.unread))
		})
	}
}

func TestCountUnread(t *testing.T) {
	notifications := []*Notification{
		{Read: false},
		{Read: true},
		{Read: false},
	}

	assert.Equal(t, 2, CountUnread(notifications))
	assert.Equal(t, 0, CountUnread(nil))
}
