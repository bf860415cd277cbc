// Package extract provides text extraction from various document formats and
// sentence splitting/cleaning for the embedding pipeline.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// For plain text files (.txt, .md, .rst), content is returned as-is (UTF-8 validated).
// For PDF, DOCX, ODT, RTF, ODP, ODS, PPTX, XLSX, CSV, JSON, XML, and HTML, text is
// extracted from the format. Unknown extensions fall back to raw bytes treated as
// plain text.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".odt", ".rtf":
		return extractODT(content)
	case ".odp":
		return extractODP(content)
	case ".ods":
		return extractODS(content)
	case ".pptx":
		return extractPPTX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".csv":
		return extractCSV(content)
	case ".json":
		return extractJSON(content)
	case ".xml":
		return extractXML(content)
	case ".html", ".htm":
		return extractHTML(content)
	case ".txt", ".md", ".rst", "":
		return extractPlain(content)
	default:
		// Unknown extension: treat as plain text
		return extractPlain(content)
	}
}

// ExtractSentences extracts the document at path and returns its cleaned,
// non-empty sentences in document order. This is the input the embedding
// stage consumes.
func (e *Extractor) ExtractSentences(path string) ([]string, error) {
	text, err := e.Extract(path)
	if err != nil {
		return nil, err
	}
	return CleanSentences(SplitSentences(text)), nil
}
