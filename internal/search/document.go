// Package search provides full-text search over users, posts and tags
// using Bleve. The dropdown search queries it per category with a
// small result cap.
package search

import (
	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeUser DocType = "user"
	DocTypePost DocType = "post"
	DocTypeTag  DocType = "tag"
)

// Document is the unified document structure for the Bleve index.
// All searchable entities are indexed as Documents with type
// discrimination, so one query can serve the whole dropdown.
type Document struct {
	// Identity
	ID   string  `json:"id"`   // Original entity ID (user-xxx, post-xxx, tag:xxx)
	Type DocType `json:"type"` // Discriminator for result grouping

	// User fields
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`

	// Post fields
	Content  string   `json:"content,omitempty"`
	AuthorID string   `json:"author_id,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// Tag fields
	Tag string `json:"tag,omitempty"`

	// Timestamp for recency sorting, Unix millis
	CreatedAt int64 `json:"created_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"created_at": d.CreatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Username != "" {
		m["username"] = d.Username
	}
	if d.DisplayName != "" {
		m["display_name"] = d.DisplayName
	}
	if d.Bio != "" {
		m["bio"] = d.Bio
	}
	if d.Content != "" {
		m["content"] = d.Content
	}
	if d.AuthorID != "" {
		m["author_id"] = d.AuthorID
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Tag != "" {
		m["tag"] = d.Tag
	}

	return m
}

// UserToDocument converts a user to a search document.
func UserToDocument(u *domain.User) *Document {
	return &Document{
		ID:          u.ID,
		Type:        DocTypeUser,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt.UnixMilli(),
	}
}

// PostToDocument converts a post to a search document.
func PostToDocument(p *domain.Post) *Document {
	return &Document{
		ID:        p.ID,
		Type:      DocTypePost,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		Tags:      p.Tags,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// TagToDocument converts a normalized tag slug to a search document.
// Tags are indexed as their own documents so the tags bucket can match
// without scanning posts.
func TagToDocument(tag string) *Document {
	return &Document{
		ID:   "tag:" + tag,
		Type: DocTypeTag,
		Tag:  tag,
	}
}
