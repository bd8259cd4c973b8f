package model

import "time"

type File struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	// Server-generated blob key. Never serialized so clients can't
	// guess their way around the short-link check
	StorageKey string `gorm:"uniqueIndex;not null" json:"-"`

	// Detected from the uploaded bytes, not taken from the client
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`

	// Non-nil while the file is shared. Unique across all records
	ShortCode *string `gorm:"uniqueIndex" json:"short_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Shared reports whether the file is currently reachable through a
// public short link.
func (f *File) Shared() bool {
	return f.ShortCode != nil && *f.ShortCode != ""
}
