package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ParseError marks every recoverable failure of the extraction boundary:
// wrong type, size/page limits, corrupt content, no extractable text.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

func newParseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// Meta describes one extracted document.
type Meta struct {
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	Characters int       `json:"characters"`
	SizeBytes  int       `json:"size_bytes"`
	UploadedAt time.Time `json:"upload_time"`
}

// Extraction is the result of a successful parse. SkippedPages counts pages
// whose text could not be read; they are omitted from Text.
type Extraction struct {
	Text         string
	SkippedPages int
	Meta         Meta
}

type Extractor struct {
	maxSizeBytes int
	maxPages     int
}

func NewExtractor(maxSizeMB, maxPages int) *Extractor {
	return &Extractor{
		maxSizeBytes: maxSizeMB * 1024 * 1024,
		maxPages:     maxPages,
	}
}

// Validate rejects a file before any text is extracted. All failures are
// *ParseError with a message suitable for returning to the uploader as-is.
func (e *Extractor) Validate(content []byte, filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return newParseErrorf("File %s is not a PDF", filename)
	}

	if len(content) > e.maxSizeBytes {
		return newParseErrorf("File %s is too large. Maximum size: %dMB", filename, e.maxSizeBytes/(1024*1024))
	}

	if len(content) == 0 {
		return newParseErrorf("File %s is empty", filename)
	}

	reader, err := openReader(content)
	if err != nil {
		return newParseErrorf("File %s is corrupted or invalid: %v", filename, err)
	}

	pages := reader.NumPage()
	if pages == 0 {
		return newParseErrorf("File %s has no pages", filename)
	}
	if pages > e.maxPages {
		return newParseErrorf("File %s has too many pages. Maximum pages: %d", filename, e.maxPages)
	}

	return nil
}

// Extract validates and then pulls plain text out of every page. Pages that
// fail to decode are skipped and counted, not fatal. The cleaned text keeps
// non-empty lines only, joined with single newlines.
func (e *Extractor) Extract(content []byte, filename string) (*Extraction, error) {
	if err := e.Validate(content, filename); err != nil {
		return nil, err
	}

	reader, err := openReader(content)
	if err != nil {
		return nil, newParseErrorf("Failed to parse PDF %s: %v", filename, err)
	}

	totalPages := reader.NumPage()
	parts := make([]string, 0, totalPages)
	skipped := 0
	for num := 1; num <= totalPages; num++ {
		pageText, err := extractPage(reader, num)
		if err != nil {
			skipped++
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			parts = append(parts, pageText)
		}
	}

	fullText := cleanText(strings.Join(parts, "\n\n"))
	if strings.TrimSpace(fullText) == "" {
		return nil, newParseErrorf("No readable text found in %s", filename)
	}

	return &Extraction{
		Text:         fullText,
		SkippedPages: skipped,
		Meta: Meta{
			Filename:   filename,
			Pages:      totalPages,
			Characters: utf8.RuneCountInString(fullText),
			SizeBytes:  len(content),
			UploadedAt: time.Now(),
		},
	}, nil
}

// openReader wraps pdf.NewReader; the library panics on some malformed
// inputs, so panics become ordinary errors here.
func openReader(content []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

func extractPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
