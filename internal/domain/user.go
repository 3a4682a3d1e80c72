package domain

import "time"

// ActiveWindow is how recently a user must have pinged activity to count
// as online for the active-users panel.
const ActiveWindow = 15 * time.Minute

// PrivacySettings controls who can see a user's profile and posts.
type PrivacySettings struct {
	// ProfilePublic makes the profile visible to everyone.
	// Default: true.
	ProfilePublic bool `json:"profile_public"`

	// ShowLastActivity exposes the last-activity timestamp to others.
	// Default: true.
	ShowLastActivity bool `json:"show_last_activity"`
}

// DefaultPrivacy returns the default privacy settings for new users.
func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{
		ProfilePublic:    true,
		ShowLastActivity: true,
	}
}

// User represents a registered account.
type User struct {
	Record
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"password_hash,omitempty"` // Stored hashed, filter from rendered views
	DisplayName  string          `json:"display_name,omitempty"`
	Bio          string          `json:"bio,omitempty"`
	AvatarPath   string          `json:"avatar_path,omitempty"` // On-device image file
	AvatarColor  string          `json:"avatar_color"`          // Fallback when no image is set
	AvatarHash   string          `json:"avatar_hash,omitempty"` // BlurHash placeholder for the image
	PostsCount   int             `json:"posts_count"`
	FriendsCount int             `json:"friends_count"`
	LastActivity time.Time       `json:"last_activity"`
	Privacy      PrivacySettings `json:"privacy"`
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// ActiveAt reports whether the user counts as online at the given instant.
func (u *User) ActiveAt(now time.Time) bool {
	return now.Sub(u.LastActivity) <= ActiveWindow
}

// PingActivity refreshes the last-activity timestamp.
func (u *User) PingActivity() {
	u.LastActivity = time.Now()
	u.Touch()
}
