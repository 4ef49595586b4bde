// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package documenttest builds in-memory documents for tests in other packages.
package documenttest

import (
	"fmt"

	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/internal/render"
)

// StaticText returns canned page texts and counts calls.
type StaticText struct {
	Texts []string
	Err   error
	Calls int
}

// ReadText returns Texts, or Err when set.
func (s *StaticText) ReadText(string) ([]string, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Texts, nil
}

// StaticImages returns one fake image per page and counts calls.
type StaticImages struct {
	Images [][]byte
	Err    error
	Calls  int
}

// Rasterize returns Images, or Err when set.
func (s *StaticImages) Rasterize(string, int, render.Format) ([][]byte, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Images, nil
}

// Images returns n distinct placeholder images.
func Images(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("img%d", i+1))
	}
	return out
}

// New returns a document at path whose pages carry the given texts and one
// placeholder image each.
func New(path string, texts ...string) *document.Document {
	return document.New(path,
		document.WithTextReader(&StaticText{Texts: texts}),
		document.WithRasterizer(&StaticImages{Images: Images(len(texts))}),
	)
}
