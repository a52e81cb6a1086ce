// Package encoding provides binary-content detection and charset decoding for
// the textproc pipeline. Word counting only makes sense over text, so every
// file's content passes through a Handler before line splitting: binary data is
// rejected up front, and non-UTF-8 text is converted so ASCII and multi-byte
// content count identically.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes consumed by http.DetectContentType.
	sniffLen = 512
	// checkLen bounds the region examined by the null byte check.
	checkLen = 1024
	// nullThreshold is the null byte ratio above which content is binary.
	nullThreshold = 0.15
)

// Common text-based MIME type prefixes accepted by IsBinary.
var knownTextMIMEPrefixes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/yaml":       true,
	"application/toml":       true,
	"application/csv":        true,
	"application/markdown":   true,
	"image/svg+xml":          true,
}

// Handler detects binary content and converts raw file bytes to UTF-8.
type Handler interface {
	// DetectAndDecode attempts to detect the character encoding of content and
	// convert it to UTF-8. It returns the UTF-8 bytes, the detected encoding
	// name (IANA name), whether detection was certain, and any conversion
	// error. If detection is uncertain and a default encoding is configured,
	// the default is applied.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)

	// IsBinary reports whether content is likely binary data, based on MIME
	// type sniffing over the first 512 bytes and the null byte ratio over the
	// first 1024 bytes.
	IsBinary(content []byte) bool
}

// charsetHandler implements Handler using golang.org/x/net/html/charset and
// golang.org/x/text/transform.
type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler creates a Handler that falls back to defaultEncoding when
// charset detection is uncertain. An empty defaultEncoding keeps the detector's
// best guess.
func NewCharsetHandler(defaultEncoding string) Handler {
	return &charsetHandler{defaultEncoding: defaultEncoding}
}

// DetectAndDecode implements the Handler interface.
func (h *charsetHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	detected, name, certain := charset.DetermineEncoding(content, "")

	if !certain && h.defaultEncoding != "" {
		if enc, lookupName := charset.Lookup(h.defaultEncoding); enc != nil {
			detected = enc
			name = lookupName
			certain = true
		}
	}

	if detected == nil {
		// No encoding implementation resolved; pass content through untouched.
		if name == "" {
			name = "utf-8"
		}
		return trimBOM(content), name, certain, nil
	}

	reader := transform.NewReader(bytes.NewReader(content), detected.NewDecoder())
	utf8Content, err := io.ReadAll(reader)
	if err != nil {
		if name == "" {
			name = "unknown"
		}
		return content, name, certain, fmt.Errorf("failed to convert from %q: %w", name, err)
	}

	if name == "" {
		name = "unknown"
	}
	return trimBOM(utf8Content), name, certain, nil
}

// utf8BOM is the byte order mark as it appears after decoding to UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// trimBOM drops a leading byte order mark. The htmlindex decoders keep the
// BOM, and left in place it would count as a word on the first line.
func trimBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, utf8BOM)
}

// isMIMETextBased checks if a detected MIME type is likely text-based.
func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	if knownTextMIMEPrefixes[mimeType] {
		return true
	}
	if strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json") {
		return true
	}
	// octet-stream may still be text; the null byte check decides.
	return mimeType == "application/octet-stream"
}

// IsBinary implements the Handler interface.
func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	limit := len(content)
	if limit > sniffLen {
		limit = sniffLen
	}
	if !isMIMETextBased(http.DetectContentType(content[:limit])) {
		return true
	}

	limit = len(content)
	if limit > checkLen {
		limit = checkLen
	}
	nullCount := bytes.Count(content[:limit], []byte{0x00})
	return float64(nullCount)/float64(limit) > nullThreshold
}
