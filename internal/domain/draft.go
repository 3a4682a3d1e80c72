package domain

import "time"

// Draft is unsent composer content. Drafts live in the session cache,
// not the record store, and are autosaved on a timer.
type Draft struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	LastSaved time.Time `json:"last_saved"`
}
