// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LayerReader extracts the embedded text layer with github.com/ledongthuc/pdf.
// Scanned pages without a text layer yield an empty string.
type LayerReader struct{}

// ReadText returns one string per page, in page order.
func (LayerReader) ReadText(pdfPath string) ([]string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", pdfPath, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	texts := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("reading text of page %d: %w", i, err)
		}
		texts = append(texts, text)
	}

	return texts, nil
}
