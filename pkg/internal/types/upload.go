package types

import "io"

// UploadCandidate describes one file handed to the upload pipeline.
type UploadCandidate struct {
	FileName    string            `json:"file_name"    rule:"required,max=512"`
	ContentType string            `json:"content_type" rule:"required"`
	SizeBytes   int64             `json:"size_bytes"   rule:"min=0"`
	FolderID    string            `json:"folder_id,omitempty"`
	Category    string            `json:"category,omitempty"    rule:"max=255"`
	Tags        []string          `json:"tags,omitempty"`
	Description string            `json:"description,omitempty" rule:"max=4096"`
	Public      bool              `json:"public,omitempty"`
	SharedWith  []string          `json:"shared_with,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// Reader supplies the file bytes; the pipeline consumes it once.
	Reader io.Reader `json:"-"`
}

// ProcessedFile is the candidate after the processing stage.
type ProcessedFile struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	// OriginalSizeBytes is the pre-processing size.
	OriginalSizeBytes int64
	// Width and Height are the output pixel dimensions; zero for
	// anything that was not transformed.
	Width  int
	Height int
	// Transformed is true when processing changed the bytes; false
	// means the original passed through (non-image, disabled, or
	// graceful degrade).
	Transformed bool
	// DegradeReason is set when processing failed and the original was
	// kept.
	DegradeReason string

	Reader io.Reader
}

// UploadResult is the outcome of one stored memory.
type UploadResult struct {
	MemoryID          string   `json:"memory_id"`
	ObjectKey         string   `json:"object_key"`
	DownloadURL       string   `json:"download_url"`
	FileName          string   `json:"file_name"`
	GeneratedFileName string   `json:"generated_file_name"`
	ContentType       string   `json:"content_type"`
	SizeBytes         int64    `json:"size_bytes"`
	OriginalSizeBytes int64    `json:"original_size_bytes"`
	Width             int      `json:"width,omitempty"`
	Height            int      `json:"height,omitempty"`
	FolderID          string   `json:"folder_id,omitempty"`
	Category          string   `json:"category,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Description       string   `json:"description,omitempty"`
	Public            bool     `json:"public"`
	SharedWith        []string `json:"shared_with,omitempty"`
	ETag              string   `json:"etag,omitempty"`
	Processed         bool     `json:"processed"`
	// DegradeReason reports a processing fallback, when any.
	DegradeReason string `json:"degrade_reason,omitempty"`
	UploadedAt    string `json:"uploaded_at"`
}

// ProgressFunc receives upload progress as a fraction in [0, 1].
// Values are monotonically non-decreasing for a given file.
type ProgressFunc func(fraction float64)
