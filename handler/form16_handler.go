package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/form16-tax-advisor/dto"
	"github.com/Aashish23092/form16-tax-advisor/repository"
	"github.com/Aashish23092/form16-tax-advisor/service"
)

type Form16Handler struct {
	documentService *service.DocumentService
	repo            *repository.Repository
}

// NewForm16Handler wires the analyze endpoint. repo may be nil when
// persistence is disabled; analyses are then returned but not stored.
func NewForm16Handler(documentService *service.DocumentService, repo *repository.Repository) *Form16Handler {
	return &Form16Handler{
		documentService: documentService,
		repo:            repo,
	}
}

// Analyze handles POST /form16/analyze: a multipart PDF upload with an
// optional "profile" JSON form field.
func (h *Form16Handler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A PDF file is required in the 'file' field", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	pdfData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	var profile *dto.UserProfile
	if raw := c.PostForm("profile"); raw != "" {
		profile = &dto.UserProfile{}
		if err := json.Unmarshal([]byte(raw), profile); err != nil {
			h.sendError(c, http.StatusBadRequest, "Invalid profile JSON", err)
			return
		}
	}

	result, err := h.documentService.Analyze(c.Request.Context(), fileHeader.Filename, pdfData, profile)
	if err != nil {
		h.sendProcessingFailure(c, err)
		return
	}

	response := dto.Form16AnalysisResponse{
		Success:       true,
		Filename:      fileHeader.Filename,
		ExtractedData: result.ExtractedData,
		Comparison:    &result.Comparison,
		Suggestions:   result.Suggestions,
		ProcessedAt:   time.Now().Format(time.RFC3339),
	}

	if h.repo != nil {
		doc, saveErr := h.repo.SaveAnalysis(fileHeader.Filename, result)
		if saveErr != nil {
			// The analysis itself succeeded; losing the stored copy is not
			// worth failing the request over.
			log.Printf("Warning: failed to persist analysis: %v", saveErr)
		} else {
			response.DocumentID = doc.ID
		}
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /form16.
func (h *Form16Handler) List(c *gin.Context) {
	if h.repo == nil {
		h.sendError(c, http.StatusServiceUnavailable, "Persistence is not configured", nil)
		return
	}
	docs, err := h.repo.ListDocuments()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Get handles GET /form16/:id.
func (h *Form16Handler) Get(c *gin.Context) {
	if h.repo == nil {
		h.sendError(c, http.StatusServiceUnavailable, "Persistence is not configured", nil)
		return
	}
	doc, err := h.repo.GetDocument(c.Param("id"))
	if err != nil {
		h.sendError(c, http.StatusNotFound, "Document not found", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// sendProcessingFailure maps a classified pipeline failure to a status code
// and a remediation-oriented message.
func (h *Form16Handler) sendProcessingFailure(c *gin.Context, err error) {
	reason := dto.FailureUnknown
	var perr *dto.ProcessingError
	if errors.As(err, &perr) {
		reason = perr.Reason
	}
	log.Printf("Form 16 analysis failed: %s - %v", reason, err)

	status := http.StatusUnprocessableEntity
	switch reason {
	case dto.FailureFileTooLarge:
		status = http.StatusRequestEntityTooLarge
	case dto.FailurePasswordProtected, dto.FailureCorrupted:
		status = http.StatusBadRequest
	case dto.FailureTimeout:
		status = http.StatusGatewayTimeout
	case dto.FailureUnknown:
		status = http.StatusInternalServerError
	}

	c.JSON(status, dto.Form16AnalysisResponse{
		Success:       false,
		Error:         reason.RemediationHint(),
		FailureReason: reason,
	})
}

// sendError sends a structured error response
func (h *Form16Handler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "ANALYSIS_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
