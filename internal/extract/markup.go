package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// extractCSV joins each record's fields with spaces, one record per line.
func extractCSV(content []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	var b strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract CSV: %w", err)
		}
		b.WriteString(strings.Join(record, " "))
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), nil
}

// extractJSON collects every string value in the document, depth-first.
func extractJSON(content []byte) (string, error) {
	var root interface{}
	if err := json.Unmarshal(content, &root); err != nil {
		return "", fmt.Errorf("extract JSON: %w", err)
	}
	var b strings.Builder
	collectJSONStrings(root, &b)
	return strings.TrimSpace(b.String()), nil
}

func collectJSONStrings(v interface{}, b *strings.Builder) {
	switch x := v.(type) {
	case string:
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(x)
	case []interface{}:
		for _, item := range x {
			collectJSONStrings(item, b)
		}
	case map[string]interface{}:
		for _, item := range x {
			collectJSONStrings(item, b)
		}
	}
}

// extractXML concatenates all character data between tags.
func extractXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract XML: %w", err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			text := strings.TrimSpace(string(cd))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

// extractHTML walks the parse tree and collects text nodes, skipping script
// and style elements.
func extractHTML(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("extract HTML: %w", err)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}
