// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes PDF pages by shelling out to poppler's pdftoppm.
package render

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const binPdftoppm = "pdftoppm"

// outputPrefix is the file name root passed to pdftoppm; it appends
// "-<page>.<ext>" to it.
const outputPrefix = "page"

// Format is an output image encoding supported by pdftoppm.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
)

// ParseFormat accepts PNG, JPEG or JPG in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG", "":
		return FormatPNG, nil
	case "JPEG", "JPG":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q: want PNG or JPEG", s)
}

// MIMEType returns the media type used in data URLs for f.
func (f Format) MIMEType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

func (f Format) flag() string {
	if f == FormatJPEG {
		return "-jpeg"
	}
	return "-png"
}

func (f Format) ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var defaultExec = &osExecutor{}

// Poppler renders every page of a PDF to an image with pdftoppm.
type Poppler struct {
	bin  string
	exec executor
}

// NewPoppler returns a rasterizer using pdftoppm from PATH. It does not check
// that the binary exists; Detect does.
func NewPoppler() *Poppler {
	return newPoppler(defaultExec)
}

func newPoppler(exec executor) *Poppler {
	return &Poppler{bin: binPdftoppm, exec: exec}
}

// Detect returns a Poppler rasterizer when pdftoppm is on PATH.
func Detect() (*Poppler, error) {
	return detect(defaultExec)
}

func detect(exec executor) (*Poppler, error) {
	p := newPoppler(exec)
	if !p.Available() {
		return nil, fmt.Errorf("%s not found on PATH: install poppler-utils", binPdftoppm)
	}
	return p, nil
}

// Available reports whether the pdftoppm binary can be found.
func (p *Poppler) Available() bool {
	_, err := p.exec.LookPath(p.bin)
	return err == nil
}

// Rasterize renders all pages of the PDF at pdfPath and returns the encoded
// images in page order.
func (p *Poppler) Rasterize(pdfPath string, dpi int, format Format) ([][]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid dpi %d", dpi)
	}

	outDir, err := os.MkdirTemp("", "pdfctx-render-*")
	if err != nil {
		return nil, fmt.Errorf("creating render directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{"-r", strconv.Itoa(dpi), format.flag(), pdfPath, filepath.Join(outDir, outputPrefix)}
	if err := p.exec.Run(p.bin, args...); err != nil {
		return nil, fmt.Errorf("rendering %s with %s: %w", pdfPath, p.bin, err)
	}

	files, err := renderedFiles(outDir, format)
	if err != nil {
		return nil, err
	}

	images := make([][]byte, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading rendered page %s: %w", name, err)
		}
		images = append(images, data)
	}
	return images, nil
}

// renderedFiles lists the page images pdftoppm wrote to dir, ordered by page.
// pdftoppm zero-pads page numbers to the same width within one run, but the
// sort is numeric so it does not depend on that.
func renderedFiles(dir string, format Format) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading render directory: %w", err)
	}

	type pageFile struct {
		name string
		page int
	}
	var pages []pageFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, outputPrefix+"-") || filepath.Ext(name) != format.ext() {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, outputPrefix+"-"), format.ext())
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		pages = append(pages, pageFile{name: name, page: n})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })

	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.name
	}
	return names, nil
}
