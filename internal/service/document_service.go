// FILE: internal/service/document_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/events"
	"docqa-chat-be/pkg/pdf"
	"docqa-chat-be/pkg/store"
)

// documentPreviewLength caps the text preview carried on stored-document
// activity events.
const documentPreviewLength = 200

type IDocumentService interface {
	UploadPDF(ctx context.Context, sessionID string, filename string, content []byte) *dto.PDFUploadResponse
}

// IExtractor is the extraction boundary as this service consumes it.
// *pdf.Extractor satisfies it.
type IExtractor interface {
	Validate(content []byte, filename string) error
	Extract(content []byte, filename string) (*pdf.Extraction, error)
}

type documentService struct {
	sessions         memory.ISessionStore
	extractions      *memory.ExtractionCache
	extractor        IExtractor
	publisherService IPublisherService
}

func NewDocumentService(
	sessions memory.ISessionStore,
	extractions *memory.ExtractionCache,
	extractor IExtractor,
	publisherService IPublisherService,
) IDocumentService {
	return &documentService{
		sessions:         sessions,
		extractions:      extractions,
		extractor:        extractor,
		publisherService: publisherService,
	}
}

// UploadPDF validates, extracts and caches one uploaded document, then
// replaces the session's document record. Every failure travels in-band:
// the response carries success=false and a descriptive message, never an
// error the transport would turn into a 4xx/5xx.
func (c *documentService) UploadPDF(ctx context.Context, sessionID string, filename string, content []byte) *dto.PDFUploadResponse {
	fail := func(message string) *dto.PDFUploadResponse {
		return &dto.PDFUploadResponse{
			Success:   false,
			Message:   message,
			SessionID: sessionID,
		}
	}

	// Validation runs on every upload. It is filename-dependent (extension
	// checks), so a cache hit on the bytes must not skip it.
	if err := c.extractor.Validate(content, filename); err != nil {
		return fail(uploadFailureMessage(err))
	}

	var text string
	var pages int
	var characters int

	key := memory.ContentKey(content)
	if cached, found := c.extractions.Get(key); found {
		log.Printf("[INFO] Extraction cache hit for %s (%d bytes)", filename, len(content))
		text = cached.Text
		pages = cached.Meta.Pages
		characters = cached.Meta.Characters
	} else {
		extraction, err := c.extractor.Extract(content, filename)
		if err != nil {
			return fail(uploadFailureMessage(err))
		}
		c.extractions.Save(key, extraction)
		text = extraction.Text
		pages = extraction.Meta.Pages
		characters = extraction.Meta.Characters
	}

	meta := store.DocumentMeta{
		Filename:   filename,
		Pages:      pages,
		Characters: characters,
		SizeBytes:  int64(len(content)),
		UploadedAt: time.Now(),
	}
	c.sessions.StoreDocument(sessionID, text, meta)

	preview := pdf.TextSummary(text, documentPreviewLength)
	publishActivity(ctx, c.publisherService, sessionID, events.NewDocumentStoredEvent(sessionID, filename, pages, characters, int64(len(content)), preview))

	return &dto.PDFUploadResponse{
		Success:   true,
		Message:   fmt.Sprintf("Successfully uploaded and parsed %s", filename),
		SessionID: sessionID,
		Metadata: &dto.DocumentMetadata{
			Filename:   filename,
			Pages:      pages,
			Characters: characters,
			SizeBytes:  int64(len(content)),
		},
	}
}

// uploadFailureMessage keeps extraction boundary messages verbatim and
// wraps anything unexpected.
func uploadFailureMessage(err error) string {
	var parseErr *pdf.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return fmt.Sprintf("Upload failed: %v", err)
}
