package domain

// Comment represents a reply attached to a post. ParentID enables
// threaded replies to other comments.
type Comment struct {
	Record
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"` // Denormalized for rendering
	ParentID string `json:"parent_id,omitempty"`
	Content  string `json:"content"`
}

// IsReply reports whether the comment is threaded under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}
