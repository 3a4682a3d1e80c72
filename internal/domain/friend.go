package domain

// FriendStatus represents the state of a friendship edge.
type FriendStatus string

const (
	// FriendPending means the request is awaiting acceptance.
	FriendPending FriendStatus = "pending"
	// FriendAccepted means both sides confirmed the friendship.
	FriendAccepted FriendStatus = "accepted"
	// FriendBlocked means the edge is blocked by the owning user.
	FriendBlocked FriendStatus = "blocked"
)

// Valid checks if the status is one we accept.
func (s FriendStatus) Valid() bool {
	switch s {
	case FriendPending, FriendAccepted, FriendBlocked:
		return true
	default:
		return false
	}
}

// Friend is a directed friendship edge from UserID to FriendID.
type Friend struct {
	Record
	UserID   string       `json:"user_id"`
	FriendID string       `json:"friend_id"`
	Status   FriendStatus `json:"status"`
}
