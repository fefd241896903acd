package dto

// DocumentMetadata is the wire shape of a stored document's metadata.
type DocumentMetadata struct {
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	SizeBytes  int64  `json:"size_bytes"`
}

// PDFUploadResponse reports an upload outcome. Extraction boundary failures
// travel in-band: Success=false with a descriptive Message, still HTTP 200.
type PDFUploadResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	SessionID string            `json:"session_id"`
	Metadata  *DocumentMetadata `json:"metadata,omitempty"`
}
