package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Aashish23092/form16-tax-advisor/config"
	"github.com/Aashish23092/form16-tax-advisor/dto"
	"github.com/Aashish23092/form16-tax-advisor/utils"
)

// OCREngine recognizes text in a single page image. Satisfied by
// client.TesseractClient.
type OCREngine interface {
	RecognizeFile(imagePath string) (string, float64, error)
}

// Image-based classification thresholds. A document is routed to OCR when it
// has almost no native text, or when its text is both sparse and free of any
// Form 16 anchor keyword. The keyword condition keeps short but valid
// documents off the expensive OCR path.
const (
	minNativeTextLength = 20
	minNativeWordCount  = 25
)

var anchorKeywords = []string{
	"form 16",
	"form no. 16",
	"pan",
	"assessment year",
	"gross salary",
	"tds",
	"taxable income",
	"salary",
}

type DocumentService struct {
	pdfProcessor PDFProcessor
	ocrEngine    OCREngine
	limiter      *OCRLimiter
	maxFileSize  int64
	ocrTimeout   time.Duration
	ocrMaxPages  int
}

func NewDocumentService(pdfProcessor PDFProcessor, ocrEngine OCREngine, limiter *OCRLimiter, cfg *config.Config) *DocumentService {
	return &DocumentService{
		pdfProcessor: pdfProcessor,
		ocrEngine:    ocrEngine,
		limiter:      limiter,
		maxFileSize:  cfg.MaxFileSize,
		ocrTimeout:   cfg.OCRTimeout,
		ocrMaxPages:  cfg.OCRMaxPages,
	}
}

// Analyze runs the full pipeline for one document: acquire text, extract
// Form 16 facts, compare tax regimes and generate suggestions. Any returned
// error is a *dto.ProcessingError carrying its failure reason.
func (s *DocumentService) Analyze(ctx context.Context, filename string, pdfData []byte, profile *dto.UserProfile) (*dto.Form16AnalysisResult, error) {
	log.Printf("Starting Form 16 analysis for file: %s (%d bytes)", filename, len(pdfData))

	text, err := s.AcquireText(ctx, pdfData)
	if err != nil {
		return nil, err
	}

	facts, err := utils.ParseForm16(text)
	if err != nil {
		return nil, dto.NewProcessingError(dto.FailureUnknown, err)
	}

	grossIncome := facts.GrossSalary
	if grossIncome == 0 {
		grossIncome = facts.GrossTotalIncome
	}

	comparison := CompareRegimes(grossIncome, facts.Deductions, false)
	suggestions := GenerateSuggestions(grossIncome, facts.Deductions, facts.AssessmentYear, profile, time.Now())

	log.Printf("Form 16 analysis done → PAN=%s AY=%s gross=%.0f recommended=%s",
		facts.PAN, facts.AssessmentYear, grossIncome, comparison.RecommendedRegime)

	return &dto.Form16AnalysisResult{
		ExtractedData: facts,
		Comparison:    comparison,
		Suggestions:   suggestions,
	}, nil
}

// AcquireText produces a best-effort plain-text transcript of the document.
// Native text layer first; image-based documents fall back to bounded OCR.
func (s *DocumentService) AcquireText(ctx context.Context, pdfData []byte) (string, error) {
	if int64(len(pdfData)) > s.maxFileSize {
		return "", dto.NewProcessingError(dto.FailureFileTooLarge,
			fmt.Errorf("file is %d bytes, limit is %d", len(pdfData), s.maxFileSize))
	}

	text, err := s.pdfProcessor.ExtractText(pdfData)
	if err != nil {
		var perr *dto.ProcessingError
		if errors.As(err, &perr) {
			return "", perr
		}
		return "", dto.NewProcessingError(dto.FailureCorrupted, err)
	}

	if !isImageBased(text) {
		return text, nil
	}

	log.Printf("Document has a weak text layer (%d chars), falling back to OCR",
		len(strings.TrimSpace(text)))
	return s.ocrText(ctx, pdfData)
}

func isImageBased(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minNativeTextLength {
		return true
	}
	if len(strings.Fields(trimmed)) >= minNativeWordCount {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, keyword := range anchorKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}

// ocrText rasterizes up to ocrMaxPages pages and recognizes them
// sequentially under the process-wide limiter and a hard timeout. A single
// failed page is skipped; the job succeeds if at least one page yields text.
// The job-scoped temp directory is removed on every exit path.
func (s *DocumentService) ocrText(ctx context.Context, pdfData []byte) (string, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return "", dto.NewProcessingError(dto.FailureTimeout, fmt.Errorf("waiting for OCR slot: %w", err))
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	tempDir, err := os.MkdirTemp("", "form16-ocr-*")
	if err != nil {
		return "", dto.NewProcessingError(dto.FailureUnknown, fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Printf("Warning: failed to remove temp dir %s: %v", tempDir, rmErr)
		}
	}()

	pagePaths, err := s.pdfProcessor.ExtractPageImages(pdfData, tempDir, s.ocrMaxPages)
	if err != nil {
		if ctx.Err() != nil {
			return "", dto.NewProcessingError(dto.FailureTimeout, ctx.Err())
		}
		return "", dto.NewProcessingError(dto.FailureOCR, err)
	}

	var combined strings.Builder
	var pagesRead int
	for i, pagePath := range pagePaths {
		// Cancellation is cooperative: checked between pages, never mid-page.
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return "", dto.NewProcessingError(dto.FailureTimeout, ctxErr)
			}
			return "", dto.NewProcessingError(dto.FailureUnknown, ctxErr)
		}

		pageText, confidence, ocrErr := s.ocrEngine.RecognizeFile(pagePath)
		if ocrErr != nil {
			log.Printf("OCR failed for page %d: %v", i+1, ocrErr)
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			log.Printf("OCR produced no text for page %d", i+1)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		pagesRead++
		log.Printf("OCR page %d: %d chars, confidence %.1f", i+1, len(pageText), confidence)
	}

	if pagesRead == 0 {
		return "", dto.NewProcessingError(dto.FailureOCR, errors.New("no page produced any text"))
	}
	return combined.String(), nil
}
