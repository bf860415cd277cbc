package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// odContentPath is the path to the main content inside OpenDocument zips
// (.odp presentations, .ods spreadsheets).
const odContentPath = "content.xml"

// OpenDocument text elements, with optional attributes. Separate patterns so
// opening and closing tags match (e.g. <text:p>...</text:p> only).
var (
	odTextP    = regexp.MustCompile(`<text:p[^>]*>([^<]*)</text:p>`)
	odTextSpan = regexp.MustCompile(`<text:span[^>]*>([^<]*)</text:span>`)
	odTextH    = regexp.MustCompile(`<text:h[^>]*>([^<]*)</text:h>`)
)

// extractODP extracts text from .odp bytes: paragraph, span, and heading
// elements of the slides' content.xml.
func extractODP(content []byte) (string, error) {
	return extractOpenDocument(content, "ODP", odTextP, odTextSpan, odTextH)
}

// extractODS extracts text from .ods bytes: paragraph and span elements of
// the cells' content.xml. Spreadsheets have no heading elements.
func extractODS(content []byte) (string, error) {
	return extractOpenDocument(content, "ODS", odTextP, odTextSpan)
}

func extractOpenDocument(content []byte, format string, tags ...*regexp.Regexp) (string, error) {
	contentXML, err := zipEntry(content, odContentPath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}
	s := string(contentXML)
	var b strings.Builder
	for _, tag := range tags {
		for _, p := range tag.FindAllStringSubmatch(s, -1) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(p[1]))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// zipEntry returns the named file's bytes from a zip archive.
func zipEntry(content []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("not a zip: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
