package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Form16AnalysisResult bundles everything a single document run produces.
type Form16AnalysisResult struct {
	ExtractedData *Form16Data      `json:"extracted_data"`
	Comparison    RegimeComparison `json:"comparison"`
	Suggestions   []Suggestion     `json:"suggestions"`
}

// Form16AnalysisResponse is the caller-facing result of the end-to-end
// analyze operation. FailureReason is set only when Success is false.
type Form16AnalysisResponse struct {
	Success       bool             `json:"success"`
	DocumentID    string           `json:"document_id,omitempty"`
	Filename      string           `json:"filename,omitempty"`
	ExtractedData *Form16Data      `json:"extracted_data,omitempty"`
	Comparison    *RegimeComparison `json:"comparison,omitempty"`
	Suggestions   []Suggestion     `json:"suggestions,omitempty"`
	Error         string           `json:"error,omitempty"`
	FailureReason FailureReason    `json:"failure_reason,omitempty"`
	ProcessedAt   string           `json:"processed_at,omitempty"`
}
