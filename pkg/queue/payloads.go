package queue

import "time"

// EventHeader carries the common metadata for every event.
// Fill TraceID, OccurredAt and Producer when publishing so downstream
// consumers can correlate and audit.
type EventHeader struct {
	// Topic records the message topic redundantly, so dumped messages
	// can be attributed offline.
	Topic string `json:"topic"`
	// TraceID is the distributed-trace or correlation ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer is the publishing service or node.
	Producer string `json:"producer,omitempty"`
	// OccurredAt is the event time (UTC, RFC3339).
	OccurredAt time.Time `json:"occurred_at"`
	// Version is the payload version for backward-compatible evolution.
	Version string `json:"version,omitempty"`
}

// Message is the uniform envelope: Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// BlobRef identifies a stored blob.
type BlobRef struct {
	Bucket      string `json:"bucket"`
	ObjectKey   string `json:"object_key"`
	ETag        string `json:"etag,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// MemoryStoredPayload is published after blob upload and metadata
// commit both succeed.
type MemoryStoredPayload struct {
	Blob     BlobRef `json:"blob"`
	MemoryID string  `json:"memory_id"`
	UserID   string  `json:"user_id"`
	FolderID string  `json:"folder_id,omitempty"`
	FileName string  `json:"file_name,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// MemoryDeletedPayload is published after a memory and its blob are removed.
type MemoryDeletedPayload struct {
	Blob     BlobRef `json:"blob"`
	MemoryID string  `json:"memory_id"`
	UserID   string  `json:"user_id"`
	FolderID string  `json:"folder_id,omitempty"`
}

// MemoryPersistFailedPayload reports a blob that uploaded successfully
// but whose metadata write failed, leaving it orphaned.
type MemoryPersistFailedPayload struct {
	Blob   BlobRef `json:"blob"`
	UserID string  `json:"user_id"`
	Error  string  `json:"error"`
}

// ProcessDegradedPayload reports an image that could not be processed
// and was stored in its original form.
type ProcessDegradedPayload struct {
	UserID      string `json:"user_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Reason      string `json:"reason"`
}

// OrphanFoundPayload reports a blob with no matching record, found by
// the reconciliation job.
type OrphanFoundPayload struct {
	Blob     BlobRef   `json:"blob"`
	Modified time.Time `json:"modified"`
}

// OrphanSweptPayload reports an orphaned blob removed by the sweeper.
type OrphanSweptPayload struct {
	Blob BlobRef `json:"blob"`
}

// StatsRecountedPayload reports aggregates recomputed from records.
type StatsRecountedPayload struct {
	UserID         string `json:"user_id"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	MemoryCount    int64  `json:"memory_count"`
	FoldersUpdated int    `json:"folders_updated,omitempty"`
	Drift          bool   `json:"drift"` // aggregates disagreed with records before recount
}

// BatchCompletedPayload summarizes a finished batch upload.
type BatchCompletedPayload struct {
	UserID    string `json:"user_id"`
	BatchID   string `json:"batch_id,omitempty"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}
