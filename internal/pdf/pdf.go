// Package pdf renders markdown reports as PDF documents.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// Options controls the page layout of a generated PDF.
type Options struct {
	// Landscape renders wide tables on landscape pages.
	Landscape bool
	// PaperSize is a gofpdf paper size such as "A4" or "Letter". Empty means A4.
	PaperSize string
	Dark      bool
}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package.
// The PDF file is created next to the markdown file and its absolute path is returned.
func ConvertMarkdownToPDF(markdownPath string, opts Options) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	orientation := "P"
	if opts.Landscape {
		orientation = "L"
	}
	paperSize := opts.PaperSize
	if paperSize == "" {
		paperSize = "A4"
	}
	theme := mdtopdf.LIGHT
	if opts.Dark {
		theme = mdtopdf.DARK
	}

	renderer := mdtopdf.NewPdfRenderer(orientation, paperSize, pdfPath, "", nil, theme)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
