package model

import (
	"time"

	"gorm.io/gorm"
)

// Memory is the metadata record for one stored file.
type Memory struct {
	// MemoryID is a ULID, shared with the generated file name stem.
	MemoryID string `gorm:"primaryKey;size:64" json:"memory_id"`
	// UserID owns the record; unique with ObjectKey.
	UserID string `gorm:"size:255;index:idx_user_key,unique;index" json:"user_id"`
	// ObjectKey is the blob key: users/{userId}/memories/{generatedFileName}.
	ObjectKey string `gorm:"size:1024;index:idx_user_key,unique" json:"object_key"`
	// FileName is the client's original file name.
	FileName string `gorm:"size:512;index" json:"file_name"`
	// GeneratedFileName is the server-side name stored in the blob key.
	GeneratedFileName string `gorm:"size:512" json:"generated_file_name"`
	// DownloadURL always refers to the same blob as ObjectKey.
	DownloadURL string `gorm:"size:2048"      json:"download_url"`
	ContentType string `gorm:"size:255;index" json:"content_type"`
	// SizeBytes is the stored size, after any processing.
	SizeBytes int64 `gorm:"index" json:"size_bytes"`
	// OriginalSizeBytes is the client's size before processing.
	OriginalSizeBytes int64  `json:"original_size_bytes"`
	FolderID          string `gorm:"size:255;index" json:"folder_id,omitempty"`
	// Width and Height are pixel dimensions, set when the processing
	// stage transformed an image.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Category is a free-form classification tag.
	Category string `gorm:"size:255;index" json:"category,omitempty"`
	// Tags is a JSON-encoded string list.
	Tags        string `gorm:"size:2048" json:"tags,omitempty"`
	Description string `gorm:"size:4096" json:"description,omitempty"`
	// Public memories resolve through the durable download URL without
	// a presigned link.
	Public bool `gorm:"index" json:"public"`
	// SharedWith is a JSON-encoded list of user IDs the memory is
	// shared with.
	SharedWith string `gorm:"size:4096" json:"shared_with,omitempty"`
	// Source records the uploading surface (mobile, web).
	Source string `gorm:"size:64" json:"source"`
	ETag   string `gorm:"size:64" json:"etag"`
	Bucket string `gorm:"size:255" json:"bucket"`
	// Processed is true when the image pipeline transformed the file.
	Processed bool `json:"processed"`
	// SchemaVersion tracks the record layout for migrations.
	SchemaVersion int `gorm:"index" json:"schema_version"`

	UploadedAt time.Time      `gorm:"index" json:"uploaded_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserStats is the per-user storage aggregate. Counters move by atomic
// increments so concurrent uploads never lose updates.
type UserStats struct {
	UserID         string    `gorm:"primaryKey;size:255" json:"user_id"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	MemoryCount    int64     `json:"memory_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FolderStats is the per-folder aggregate, keyed by user and folder.
type FolderStats struct {
	UserID         string    `gorm:"primaryKey;size:255" json:"user_id"`
	FolderID       string    `gorm:"primaryKey;size:255" json:"folder_id"`
	MemoryCount    int64     `json:"memory_count"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName keeps the stats tables short.
func (UserStats) TableName() string { return "user_stats" }

func (FolderStats) TableName() string { return "folder_stats" }
