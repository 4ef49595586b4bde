// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/internal/document/documenttest"
	"github.com/pdiddy/pdfctx/internal/render"
)

func TestPageHasText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"\n\t \r\n", false},
		{"Intro", true},
		{"  x  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, document.Page{Text: tt.text}.HasText())
		})
	}
}

func TestFileID(t *testing.T) {
	a := document.New("/tmp/one/report.pdf")
	b := document.New("other/report.pdf")
	assert.Equal(t, "report.pdf", a.FileID())
	assert.Equal(t, a.FileID(), b.FileID(), "same file name collides")
}

func TestDefaults(t *testing.T) {
	d := document.New("a.pdf")
	assert.Equal(t, 150, d.DPI())
	assert.Equal(t, render.FormatPNG, d.ImageFormat())

	d = document.New("a.pdf", document.WithDPI(300), document.WithImageFormat(render.FormatJPEG))
	assert.Equal(t, 300, d.DPI())
	assert.Equal(t, render.FormatJPEG, d.ImageFormat())

	d = document.New("a.pdf", document.WithDPI(-1))
	assert.Equal(t, 150, d.DPI())
}

func TestPagesZipsTextAndImages(t *testing.T) {
	d := documenttest.New("docs/a.pdf", "Intro", "")

	pages, err := d.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "Intro", pages[0].Text)
	assert.True(t, pages[0].HasText())
	assert.Equal(t, "a.pdf", pages[0].FileID)
	assert.Equal(t, "image/png", pages[0].MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("img1")), pages[0].ImageBase64)

	assert.Equal(t, 2, pages[1].Number)
	assert.False(t, pages[1].HasText())

	raw, err := pages[1].ImageData()
	require.NoError(t, err)
	assert.Equal(t, []byte("img2"), raw)
}

func TestPagesAreCached(t *testing.T) {
	text := &documenttest.StaticText{Texts: []string{"a", "b", "c"}}
	images := &documenttest.StaticImages{Images: documenttest.Images(3)}
	d := document.New("c.pdf", document.WithTextReader(text), document.WithRasterizer(images))

	for i := 0; i < 3; i++ {
		n, err := d.PageCount()
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		_, err = d.Pages()
		require.NoError(t, err)
		_, err = d.Page(2)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, text.Calls)
	assert.Equal(t, 1, images.Calls)
}

func TestFailedExtractionIsNotCached(t *testing.T) {
	text := &documenttest.StaticText{Err: errors.New("boom")}
	images := &documenttest.StaticImages{Images: documenttest.Images(1)}
	d := document.New("x.pdf", document.WithTextReader(text), document.WithRasterizer(images))

	_, err := d.Pages()
	require.Error(t, err)

	text.Err = nil
	text.Texts = []string{"ok"}
	pages, err := d.Pages()
	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, 2, text.Calls)
}

func TestPageRange(t *testing.T) {
	d := documenttest.New("r.pdf", "one", "two", "three")

	for n := 1; n <= 3; n++ {
		p, err := d.Page(n)
		require.NoError(t, err)
		assert.Equal(t, n, p.Number)
	}

	for _, n := range []int{0, 4, -1} {
		_, err := d.Page(n)
		require.Error(t, err)
		assert.ErrorIs(t, err, document.ErrPageOutOfRange)
		assert.Contains(t, err.Error(), "document has 3 pages")
	}
}

func TestPageCountMismatch(t *testing.T) {
	d := document.New("m.pdf",
		document.WithTextReader(&documenttest.StaticText{Texts: []string{"a", "b"}}),
		document.WithRasterizer(&documenttest.StaticImages{Images: documenttest.Images(3)}),
	)

	_, err := d.Pages()
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrPageCountMismatch)
	assert.Contains(t, err.Error(), "2 text pages and 3 images")
}

func TestUpstreamErrorsPropagate(t *testing.T) {
	cause := errors.New("pdftoppm crashed")
	d := document.New("u.pdf",
		document.WithTextReader(&documenttest.StaticText{Texts: []string{"a"}}),
		document.WithRasterizer(&documenttest.StaticImages{Err: cause}),
	)

	_, err := d.PageCount()
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestJPEGPagesCarryJPEGMIMEType(t *testing.T) {
	d := document.New("j.pdf",
		document.WithImageFormat(render.FormatJPEG),
		document.WithTextReader(&documenttest.StaticText{Texts: []string{""}}),
		document.WithRasterizer(&documenttest.StaticImages{Images: documenttest.Images(1)}),
	)
	p, err := d.Page(1)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", p.MIMEType)
}

func TestLayerReaderMissingFile(t *testing.T) {
	_, err := document.LayerReader{}.ReadText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestProbeRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := document.Probe(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)

	garbage := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf"), 0o644))
	_, err = document.Probe(garbage)
	require.Error(t, err)
}

// twoPages has "Intro" on page 1 and no text on page 2.
const twoPages = "testdata/two_pages.pdf"

func TestLayerReaderReadsEachPage(t *testing.T) {
	texts, err := document.LayerReader{}.ReadText(twoPages)
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "Intro", strings.TrimSpace(texts[0]))
	assert.Equal(t, "", strings.TrimSpace(texts[1]))
}

func TestProbeCountsPages(t *testing.T) {
	stat, err := os.Stat(twoPages)
	require.NoError(t, err)

	info, err := document.Probe(twoPages)
	require.NoError(t, err)
	assert.Equal(t, document.Info{
		FileID:    "two_pages.pdf",
		Path:      twoPages,
		Size:      stat.Size(),
		PageCount: 2,
	}, info)
}

func TestPagesFromRealTextLayer(t *testing.T) {
	d := document.New(twoPages,
		document.WithRasterizer(&documenttest.StaticImages{Images: documenttest.Images(2)}),
	)
	pages, err := d.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.True(t, pages[0].HasText())
	assert.False(t, pages[1].HasText())
	assert.Equal(t, 2, pages[1].Number)
}

func TestPagesWithPoppler(t *testing.T) {
	p, err := render.Detect()
	if err != nil {
		t.Skipf("pdftoppm not installed: %v", err)
	}

	d := document.New(twoPages, document.WithRasterizer(p), document.WithDPI(36))
	pages, err := d.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 2)
	for _, page := range pages {
		data, err := page.ImageData()
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "page %d is not a PNG", page.Number)
		assert.Equal(t, "image/png", page.MIMEType)
	}
	assert.Equal(t, "Intro", strings.TrimSpace(pages[0].Text))
}
