// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info describes a PDF file without extracting its pages.
type Info struct {
	FileID    string `json:"file_id" yaml:"file_id"`
	Path      string `json:"path" yaml:"path"`
	Size      int64  `json:"size" yaml:"size"`
	PageCount int    `json:"page_count" yaml:"page_count"`
}

// Probe validates the file structure with pdfcpu in relaxed mode and reads
// its page count. It is cheap compared to Pages and catches malformed files
// before rendering starts.
func Probe(pdfPath string) (Info, error) {
	api.DisableConfigDir()

	stat, err := os.Stat(pdfPath)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", pdfPath, err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(pdfPath, conf); err != nil {
		return Info{}, fmt.Errorf("validating %s: %w", pdfPath, err)
	}

	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return Info{}, fmt.Errorf("counting pages of %s: %w", pdfPath, err)
	}

	return Info{
		FileID:    filepath.Base(pdfPath),
		Path:      pdfPath,
		Size:      stat.Size(),
		PageCount: count,
	}, nil
}
