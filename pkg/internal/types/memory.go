package types

import "time"

// MemoryInfo is the API view of one stored memory.
type MemoryInfo struct {
	MemoryID    string    `json:"memory_id"`
	FileName    string    `json:"file_name"`
	ObjectKey   string    `json:"object_key"`
	DownloadURL string    `json:"download_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	FolderID    string    `json:"folder_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	SharedWith  []string  `json:"shared_with,omitempty"`
	Source      string    `json:"source,omitempty"`
	Processed   bool      `json:"processed"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ListMemoriesResponse is a page of the user's memories.
type ListMemoriesResponse struct {
	Memories []MemoryInfo `json:"memories"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// DownloadURLResponse carries a download link: durable for public
// memories, presigned and short-lived otherwise.
type DownloadURLResponse struct {
	MemoryID string `json:"memory_id"`
	URL      string `json:"url"`
	Public   bool   `json:"public"`
	// ExpiresIn is the presigned link lifetime in seconds; zero for
	// durable public links.
	ExpiresIn int `json:"expires_in"`
}

// DeleteMemoryResponse reports a completed delete.
type DeleteMemoryResponse struct {
	MemoryID string `json:"memory_id"`
	Deleted  bool   `json:"deleted"`
}
