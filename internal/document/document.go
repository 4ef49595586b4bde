// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document loads a PDF and pairs each page's extracted text layer with
// a rendered image of the page.
package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdfctx/internal/render"
	"github.com/pdiddy/pdfctx/pkg/types"
)

var (
	// ErrPageOutOfRange is returned by Page for numbers outside 1..PageCount.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrPageCountMismatch is returned when the text layer and the renderer
	// disagree on the number of pages.
	ErrPageCountMismatch = errors.New("text and image page counts differ")
)

// TextReader extracts the text layer of every page, in page order.
type TextReader interface {
	ReadText(pdfPath string) ([]string, error)
}

// Rasterizer renders every page to an encoded image, in page order.
type Rasterizer interface {
	Rasterize(pdfPath string, dpi int, format render.Format) ([][]byte, error)
}

// Page is the content extracted from one PDF page.
type Page struct {
	// Number is 1-based.
	Number int `json:"page_number" yaml:"page_number"`

	// Text is the extracted text layer, possibly empty.
	Text string `json:"text" yaml:"text"`

	// ImageBase64 is the rendered page, standard base64 encoded.
	ImageBase64 string `json:"-" yaml:"-"`

	// MIMEType is the media type of the rendered image.
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// FileID is the owning document's FileID.
	FileID string `json:"file_id" yaml:"file_id"`
}

// HasText reports whether the page carries any non-whitespace text.
func (p Page) HasText() bool {
	return strings.TrimSpace(p.Text) != ""
}

// ImageData decodes ImageBase64 back into the raw image bytes.
func (p Page) ImageData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.ImageBase64)
}

// Document is a PDF file whose pages are extracted on first access and cached
// for the lifetime of the value.
//
// A Document is not safe for concurrent use until its pages are loaded: the
// first call to Pages, PageCount or Page must not race with another.
type Document struct {
	path   string
	dpi    int
	format render.Format
	text   TextReader
	raster Rasterizer

	pages  []Page
	loaded bool
}

// Option configures a Document.
type Option func(*Document)

// WithDPI sets the rendering resolution. Values <= 0 keep the default.
func WithDPI(dpi int) Option {
	return func(d *Document) {
		if dpi > 0 {
			d.dpi = dpi
		}
	}
}

// WithImageFormat sets the rendered image encoding.
func WithImageFormat(f render.Format) Option {
	return func(d *Document) {
		if f != "" {
			d.format = f
		}
	}
}

// WithTextReader replaces the text-layer extractor.
func WithTextReader(r TextReader) Option {
	return func(d *Document) { d.text = r }
}

// WithRasterizer replaces the page renderer.
func WithRasterizer(r Rasterizer) Option {
	return func(d *Document) { d.raster = r }
}

// New returns a Document for the PDF at path. No file access happens until
// the pages are first requested.
func New(path string, opts ...Option) *Document {
	d := &Document{
		path:   path,
		dpi:    types.DefaultDPI,
		format: render.FormatPNG,
		text:   &LayerReader{},
		raster: render.NewPoppler(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the file path the document was opened with.
func (d *Document) Path() string { return d.path }

// FileID returns the file name, which identifies the document. Two files with
// the same name in different directories share a FileID.
func (d *Document) FileID() string { return filepath.Base(d.path) }

// DPI returns the rendering resolution.
func (d *Document) DPI() int { return d.dpi }

// ImageFormat returns the rendered image encoding.
func (d *Document) ImageFormat() render.Format { return d.format }

// Pages returns every page in order, extracting them on the first call.
// A failed extraction is not cached; the next call retries.
func (d *Document) Pages() ([]Page, error) {
	if !d.loaded {
		pages, err := d.extractAll()
		if err != nil {
			return nil, err
		}
		d.pages = pages
		d.loaded = true
	}
	return d.pages, nil
}

// PageCount returns the number of pages, extracting them if needed.
func (d *Document) PageCount() (int, error) {
	pages, err := d.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// Page returns the page with the given 1-based number.
func (d *Document) Page(number int) (Page, error) {
	pages, err := d.Pages()
	if err != nil {
		return Page{}, err
	}
	if number < 1 || number > len(pages) {
		return Page{}, fmt.Errorf("%w: page %d, document has %d pages", ErrPageOutOfRange, number, len(pages))
	}
	return pages[number-1], nil
}

// extractAll runs the text and image passes and zips them by index.
func (d *Document) extractAll() ([]Page, error) {
	texts, err := d.text.ReadText(d.path)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", d.path, err)
	}

	images, err := d.raster.Rasterize(d.path, d.dpi, d.format)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", d.path, err)
	}

	if len(texts) != len(images) {
		return nil, fmt.Errorf("%w: %s has %d text pages and %d images",
			ErrPageCountMismatch, d.FileID(), len(texts), len(images))
	}

	fileID := d.FileID()
	mime := d.format.MIMEType()
	pages := make([]Page, len(texts))
	for i := range texts {
		pages[i] = Page{
			Number:      i + 1,
			Text:        texts[i],
			ImageBase64: base64.StdEncoding.EncodeToString(images[i]),
			MIMEType:    mime,
			FileID:      fileID,
		}
	}
	return pages, nil
}
