// Package service implements the application's operations on top of
// the record store, session cache and search index. Services do not
// touch shared view state; the event router owns that.
package service

import (
	"github.com/socialsphere/socialsphere-app/internal/validation"
)

// validate is the shared validator instance for request validation.
var validate = validation.New()

// Services aggregates all application services for wiring.
type Services struct {
	Auth          *AuthService
	Posts         *PostService
	Notifications *NotificationService
	Friends       *FriendService
	Messages      *MessageService
	Settings      *SettingsService
	Activity      *ActivityService
	Search        *SearchService
	Users         *UserService
}
