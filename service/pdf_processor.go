package service

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Aashish23092/form16-tax-advisor/dto"
)

// Rasterized pages are normalized to this resolution/quality tradeoff before
// OCR: Tesseract gains nothing from larger inputs and memory cost grows fast.
const (
	pageImageMaxEdge = 1500
	pageImageQuality = 85
)

type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	ExtractPageImages(pdfData []byte, destDir string, maxPages int) ([]string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText reads the native text layer. Password-protected and
// structurally broken documents fail with a classified error and must not
// fall through to OCR.
func (p *pdfProcessor) ExtractText(pdfData []byte) (text string, err error) {
	// The underlying parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = dto.NewProcessingError(dto.FailureCorrupted, fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", classifyOpenError(err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return dto.NewProcessingError(dto.FailurePasswordProtected, err)
	}
	return dto.NewProcessingError(dto.FailureCorrupted, err)
}

// ExtractPageImages renders the page images of the first maxPages pages into
// destDir, grayscaled, capped at pageImageMaxEdge on the longer side and
// re-encoded as JPEG. Returns the paths in page order.
func (p *pdfProcessor) ExtractPageImages(pdfData []byte, destDir string, maxPages int) ([]string, error) {
	tempPDF := filepath.Join(destDir, "source.pdf")
	if err := os.WriteFile(tempPDF, pdfData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage pdf: %w", err)
	}

	pageCount, err := api.PageCountFile(tempPDF)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if pageCount > maxPages {
		pageCount = maxPages
	}

	rawDir := filepath.Join(destDir, "raw")
	if err := os.MkdirAll(rawDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create raw image dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pages := []string{fmt.Sprintf("1-%d", pageCount)}
	if err := api.ExtractImagesFile(tempPDF, rawDir, pages, conf); err != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", err)
	}

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw image dir: %w", err)
	}

	var pagePaths []string
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}

		src := filepath.Join(rawDir, entry.Name())
		img, err := imaging.Open(src)
		if err != nil {
			log.Printf("Skipping unreadable page image %s: %v", entry.Name(), err)
			continue
		}

		processed := imaging.Grayscale(img)
		bounds := processed.Bounds()
		if bounds.Dx() > pageImageMaxEdge || bounds.Dy() > pageImageMaxEdge {
			processed = imaging.Fit(processed, pageImageMaxEdge, pageImageMaxEdge, imaging.Lanczos)
		}

		outPath := filepath.Join(destDir, fmt.Sprintf("page-%03d.jpg", i+1))
		if err := imaging.Save(processed, outPath, imaging.JPEGQuality(pageImageQuality)); err != nil {
			log.Printf("Failed to save normalized page image %s: %v", entry.Name(), err)
			continue
		}
		pagePaths = append(pagePaths, outPath)
	}

	if len(pagePaths) == 0 {
		return nil, fmt.Errorf("no page images could be produced")
	}
	return pagePaths, nil
}
