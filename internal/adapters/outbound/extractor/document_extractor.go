package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"html"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// Extracted text is truncated to bound the moderation payload.
	maxTextChars = 10000
	// At most this many EPUB content files are scanned, for bounded latency.
	maxArchiveContentFiles = 10
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]+>`)
)

// ArchiveEntry is one file inside an EPUB container.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// ArchiveOpener is the optional EPUB unzip capability. When it is absent at
// configuration time, EPUB extraction returns an empty signal instead of
// failing.
type ArchiveOpener interface {
	Open(data []byte) ([]ArchiveEntry, error)
}

// ZipArchiveOpener opens EPUB containers with archive/zip, preserving
// archive order.
type ZipArchiveOpener struct{}

func (ZipArchiveOpener) Open(data []byte) ([]ArchiveEntry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	entries := make([]ArchiveEntry, 0, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{Name: f.Name, Data: content})
	}
	return entries, nil
}

// DocumentExtractor converts PDF and EPUB bytes to whitespace-normalized
// plain text. It never fails: any error, unknown mime type or missing
// capability yields "", which callers treat as "no signal".
type DocumentExtractor struct {
	archive ArchiveOpener
}

func NewDocumentExtractor(archive ArchiveOpener) *DocumentExtractor {
	return &DocumentExtractor{archive: archive}
}

func (d *DocumentExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return d.extractPDF(data)
	case "application/epub+zip":
		return d.extractEPUB(data)
	}
	return ""
}

func (d *DocumentExtractor) extractPDF(data []byte) (text string) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ PDF extraction panicked, returning empty text: %v", r)
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString(" ")
	}

	return normalizeText(sb.String())
}

func (d *DocumentExtractor) extractEPUB(data []byte) string {
	if d.archive == nil {
		log.Printf("⚠️ EPUB archive capability not configured, returning empty text")
		return ""
	}

	entries, err := d.archive.Open(data)
	if err != nil {
		log.Printf("⚠️ EPUB archive unreadable, returning empty text: %v", err)
		return ""
	}

	var sb strings.Builder
	scanned := 0
	for _, entry := range entries {
		if scanned >= maxArchiveContentFiles {
			break
		}
		if !isEpubContentFile(entry.Name) {
			continue
		}
		scanned++

		content := scriptStyleRe.ReplaceAllString(string(entry.Data), " ")
		content = tagRe.ReplaceAllString(content, " ")
		sb.WriteString(html.UnescapeString(content))
		sb.WriteString(" ")
	}

	return normalizeText(sb.String())
}

func isEpubContentFile(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "meta-inf/") || lower == "mimetype" {
		return false
	}
	return strings.HasSuffix(lower, ".html") ||
		strings.HasSuffix(lower, ".xhtml") ||
		strings.HasSuffix(lower, ".htm")
}

func normalizeText(s string) string {
	normalized := strings.Join(strings.Fields(s), " ")
	runes := []rune(normalized)
	if len(runes) > maxTextChars {
		return string(runes[:maxTextChars])
	}
	return normalized
}
