package types

import "time"

// UserStorageStats is the per-user storage summary.
type UserStorageStats struct {
	UserID         string    `json:"user_id"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	MemoryCount    int64     `json:"memory_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FolderStorageStats is the per-folder storage summary.
type FolderStorageStats struct {
	FolderID       string    `json:"folder_id"`
	MemoryCount    int64     `json:"memory_count"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StorageStatsResponse combines the user aggregate with its folders.
type StorageStatsResponse struct {
	User    UserStorageStats     `json:"user"`
	Folders []FolderStorageStats `json:"folders,omitempty"`
}

// StatsTypeItem aggregates memories by MIME top-level type.
type StatsTypeItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}
