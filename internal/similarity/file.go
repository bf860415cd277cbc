package similarity

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// matrixHeader is the header line of a persisted similarity file.
const matrixHeader = "Index1,Index2,Word1,Word2,X_Position,Cosine_Similarity"

// WriteMatrix writes rows and the document-level similarity to path. Any
// pre-existing file is replaced, never appended to. The file is one header
// line, one line per row, and a terminal Document_Similarity line.
func WriteMatrix(path string, rows []Row, docSimilarity float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create similarity file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, matrixHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%d,%s\n",
			r.Index1, r.Index2, r.Text1, r.Text2, r.XPosition,
			strconv.FormatFloat(r.Similarity, 'f', -1, 64),
		)
		if err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "Document_Similarity --> %s\n",
		strconv.FormatFloat(docSimilarity, 'f', -1, 64)); err != nil {
		return fmt.Errorf("write document similarity: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush similarity file: %w", err)
	}
	return nil
}
