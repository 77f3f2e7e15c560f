package types

// BatchProgressFunc receives batch progress: the global file index
// (0-based), the total count, and that file's upload fraction.
type BatchProgressFunc func(index, total int, fraction float64)

// BatchFileResult is the outcome for one file in a batch.
type BatchFileResult struct {
	// Index is the file's position in the request order.
	Index    int           `json:"index"`
	FileName string        `json:"file_name"`
	Success  bool          `json:"success"`
	Result   *UploadResult `json:"result,omitempty"`
	// Error describes the failure; empty on success.
	Error string `json:"error,omitempty"`
	// ErrorKind classifies the failure (validation, upload,
	// persistence, canceled).
	ErrorKind string `json:"error_kind,omitempty"`
}

// BatchUploadResponse summarizes a finished batch.
type BatchUploadResponse struct {
	Results    []BatchFileResult `json:"results"`
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
}
