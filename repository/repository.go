package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aashish23092/form16-tax-advisor/dto"
)

// Form16Document is the stored record of one successful analysis. The full
// extracted facts and the suggestion list are kept as JSON blobs; the
// frequently filtered columns are promoted to real fields.
type Form16Document struct {
	ID                string `gorm:"primaryKey"`
	Filename          string
	EmployeeName      string
	EmployerName      string
	PAN               string `gorm:"column:pan;index"`
	AssessmentYear    string `gorm:"index"`
	GrossSalary       float64
	NetTaxableIncome  float64
	TDS               float64 `gorm:"column:tds"`
	RecommendedRegime string
	Savings           float64
	ExtractedJSON     string `gorm:"type:text"`
	SuggestionsJSON   string `gorm:"type:text"`
	CreatedAt         time.Time
}

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Form16Document{})
}

// SaveAnalysis persists one analysis run and returns the stored record.
func (r *Repository) SaveAnalysis(filename string, result *dto.Form16AnalysisResult) (*Form16Document, error) {
	extracted, err := json.Marshal(result.ExtractedData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extracted data: %w", err)
	}
	suggestions, err := json.Marshal(result.Suggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestions: %w", err)
	}

	doc := &Form16Document{
		ID:                uuid.NewString(),
		Filename:          filename,
		EmployeeName:      result.ExtractedData.EmployeeName,
		EmployerName:      result.ExtractedData.EmployerName,
		PAN:               result.ExtractedData.PAN,
		AssessmentYear:    result.ExtractedData.AssessmentYear,
		GrossSalary:       result.ExtractedData.GrossSalary,
		NetTaxableIncome:  result.ExtractedData.NetTaxableIncome,
		TDS:               result.ExtractedData.TDS,
		RecommendedRegime: result.Comparison.RecommendedRegime,
		Savings:           result.Comparison.Savings,
		ExtractedJSON:     string(extracted),
		SuggestionsJSON:   string(suggestions),
	}

	if err := r.db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return doc, nil
}

// ListDocuments returns stored analyses, newest first.
func (r *Repository) ListDocuments() ([]Form16Document, error) {
	var docs []Form16Document
	if err := r.db.Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *Repository) GetDocument(id string) (*Form16Document, error) {
	var doc Form16Document
	if err := r.db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return &doc, nil
}
