package store

import "time"

// DocumentMeta describes one extracted upload.
type DocumentMeta struct {
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	Characters int       `json:"characters"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentRecord is the cached document of a session. At most one per
// session; a new upload replaces the whole record. Text never serializes,
// it can run to megabytes.
type DocumentRecord struct {
	DocumentMeta
	Text string `json:"-"`
}

// Session represents one conversation's in-memory state.
type Session struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	MessageCount int             `json:"message_count"`
	Document     *DocumentRecord `json:"document,omitempty"`
}

// HasDocument reports whether a document record is present. Presence is the
// sole determinant, empty text still counts once stored.
func (s *Session) HasDocument() bool {
	return s.Document != nil
}
