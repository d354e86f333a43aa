package blogservice

import (
	"time"
)

type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusPending     Status = "PENDING"
	StatusPublished   Status = "PUBLISHED"
	StatusUnpublished Status = "UNPUBLISHED"

	// StatusAll is a filter value only, it never appears on a blog.
	StatusAll Status = "ALL"
)

type BlogType string

const (
	TypeUser BlogType = "USER"
	TypeAI   BlogType = "AI"
)

// Author identifies the staff member who created a blog.
type Author struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Location struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Blog struct {
	ID        int64
	Title     string
	Content   string
	CreatedBy Author
	Status    Status
	Type      BlogType
	Media     MediaRef
	Location  *Location
	// RejectedReason is only meaningful while Status is DRAFT.
	RejectedReason string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Upload is a file attached to a create or edit request.
type Upload struct {
	Filename string
	Data     []byte
}

// BlogDraft carries the editable fields of a blog. A location is either an
// existing catalog entry (LocationID) or a free-text name/description pair.
type BlogDraft struct {
	Title               string
	Content             string
	LocationID          int64
	LocationName        string
	LocationDescription string
	Thumbnail           *Upload
}

type Notification struct {
	ID        string    `json:"id"`
	BlogID    int64     `json:"blog_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)
