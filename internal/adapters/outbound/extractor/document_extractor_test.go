package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEpub(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDocumentExtractor_EPUB(t *testing.T) {
	ctx := context.Background()
	extractor := NewDocumentExtractor(ZipArchiveOpener{})

	t.Run("concatenates chapters in archive order with tags stripped", func(t *testing.T) {
		data := buildEpub(t, map[string]string{
			"mimetype":               "application/epub+zip",
			"META-INF/container.xml": "<container/>",
			"OEBPS/ch1.xhtml":        "<html><body><h1>Chapter One</h1><p>First chapter text.</p><script>var x = 1;</script></body></html>",
			"OEBPS/ch2.xhtml":        "<html><body><p>Second chapter text.</p><style>p { color: red }</style></body></html>",
		}, []string{"mimetype", "META-INF/container.xml", "OEBPS/ch1.xhtml", "OEBPS/ch2.xhtml"})

		text := extractor.ExtractText(ctx, data, "application/epub+zip")

		assert.Equal(t, "Chapter One First chapter text. Second chapter text.", text)
	})

	t.Run("archive with no qualifying content files yields empty text", func(t *testing.T) {
		data := buildEpub(t, map[string]string{
			"mimetype":               "application/epub+zip",
			"META-INF/container.xml": "<container/>",
			"cover.jpg":              "not html",
		}, []string{"mimetype", "META-INF/container.xml", "cover.jpg"})

		text := extractor.ExtractText(ctx, data, "application/epub+zip")

		assert.Empty(t, text)
	})

	t.Run("html entities are decoded", func(t *testing.T) {
		data := buildEpub(t, map[string]string{
			"ch1.html": "<p>Fish &amp; chips</p>",
		}, []string{"ch1.html"})

		text := extractor.ExtractText(ctx, data, "application/epub+zip")

		assert.Equal(t, "Fish & chips", text)
	})

	t.Run("scans at most ten content files", func(t *testing.T) {
		entries := map[string]string{}
		order := []string{}
		for i := 1; i <= 12; i++ {
			name := fmt.Sprintf("ch%02d.xhtml", i)
			entries[name] = fmt.Sprintf("<p>token%02d</p>", i)
			order = append(order, name)
		}
		data := buildEpub(t, entries, order)

		text := extractor.ExtractText(ctx, data, "application/epub+zip")

		assert.Contains(t, text, "token10")
		assert.NotContains(t, text, "token11")
		assert.NotContains(t, text, "token12")
	})

	t.Run("text is truncated to the payload bound", func(t *testing.T) {
		data := buildEpub(t, map[string]string{
			"ch1.xhtml": "<p>" + strings.Repeat("word ", 5000) + "</p>",
		}, []string{"ch1.xhtml"})

		text := extractor.ExtractText(ctx, data, "application/epub+zip")

		assert.Len(t, []rune(text), 10000)
	})

	t.Run("corrupt archive yields empty text, not an error", func(t *testing.T) {
		text := extractor.ExtractText(ctx, []byte("not a zip file"), "application/epub+zip")
		assert.Empty(t, text)
	})

	t.Run("absent archive capability yields empty text", func(t *testing.T) {
		noZip := NewDocumentExtractor(nil)
		data := buildEpub(t, map[string]string{"ch1.xhtml": "<p>hello</p>"}, []string{"ch1.xhtml"})

		text := noZip.ExtractText(ctx, data, "application/epub+zip")

		assert.Empty(t, text)
	})
}

func TestDocumentExtractor_PDF(t *testing.T) {
	ctx := context.Background()
	extractor := NewDocumentExtractor(ZipArchiveOpener{})

	t.Run("corrupt pdf yields empty text, not an error", func(t *testing.T) {
		text := extractor.ExtractText(ctx, []byte("%PDF-1.4 garbage"), "application/pdf")
		assert.Empty(t, text)
	})
}

func TestDocumentExtractor_UnknownMime(t *testing.T) {
	extractor := NewDocumentExtractor(ZipArchiveOpener{})
	text := extractor.ExtractText(context.Background(), []byte("plain text"), "text/plain")
	assert.Empty(t, text)
}
