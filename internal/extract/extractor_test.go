package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	content := []byte("Hello world\nLine 2")
	got, err := e.ExtractBytes(content, ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Hello world\nLine 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	content := []byte("hello\x80world") // invalid UTF-8
	got, err := e.ExtractBytes(content, ".rst")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "hello�world" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_unknownExtensionFallsBack(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("raw bytes"), ".weird")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "raw bytes" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_csv(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("a,b,c\nd,\"e, with comma\"\n"), ".csv")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "a b c\nd e, with comma" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_json(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte(`{"title": "Doc", "tags": ["one", "two"], "n": 3}`), ".json")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	for _, want := range []string{"Doc", "one", "two"} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Errorf("got %q, missing %q", got, want)
		}
	}
}

func TestExtractBytes_xml(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("<doc><p>First</p><p>Second</p></doc>"), ".xml")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "First Second" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_html(t *testing.T) {
	e := NewExtractor()
	content := []byte("<html><head><script>var x=1;</script></head><body><h1>Title</h1><p>Body text</p></body></html>")
	got, err := e.ExtractBytes(content, ".html")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Title Body text" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(`<w:document><w:body><w:p w:rsidR="0"><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve">world</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("got %q", got)
	}
}

func zipWithEntry(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(content))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytes_odp(t *testing.T) {
	data := zipWithEntry(t, "content.xml",
		`<office:body><text:h text:style-name="T1">Slide title</text:h><text:p>First point</text:p><text:span text:style-name="S1">emphasis</text:span></office:body>`)

	e := NewExtractor()
	got, err := e.ExtractBytes(data, ".odp")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "First point emphasis Slide title" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_ods(t *testing.T) {
	data := zipWithEntry(t, "content.xml",
		`<table:table-cell><text:p>Cell one</text:p></table:table-cell><table:table-cell><text:p>Cell two</text:p></table:table-cell>`)

	e := NewExtractor()
	got, err := e.ExtractBytes(data, ".ods")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Cell one Cell two" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_odpMissingContent(t *testing.T) {
	data := zipWithEntry(t, "styles.xml", `<office:styles/>`)
	if _, err := NewExtractor().ExtractBytes(data, ".odp"); err == nil {
		t.Error("expected error when content.xml is absent")
	}
}

func TestExtractBytes_pptx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, slide := range []string{
		`<p:sld><a:t>Slide one title</a:t><a:t xml:space="preserve">body</a:t></p:sld>`,
		`<p:sld><a:t>Slide two</a:t></p:sld>`,
	} {
		w, err := zw.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		if err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write([]byte(slide))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".pptx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Slide one title body Slide two" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", "Value 1")
	f.SetCellValue("Sheet1", "B2", "Value 2")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Title\nValue 1\tValue 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractSentences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("First sentence. Second, with comma!  \n\nThird?"), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.ExtractSentences(path)
	if err != nil {
		t.Fatalf("ExtractSentences: %v", err)
	}
	want := []string{"first sentence", "second, with comma", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
