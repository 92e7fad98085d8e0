package dto

import "fmt"

// FailureReason is the fixed vocabulary of terminal processing failures
// surfaced to callers of the document pipeline.
type FailureReason string

const (
	FailurePasswordProtected FailureReason = "PDF_PASSWORD_PROTECTED"
	FailureCorrupted         FailureReason = "PDF_CORRUPTED"
	FailureTimeout           FailureReason = "PROCESSING_TIMEOUT"
	FailureOCR               FailureReason = "OCR_FAILURE"
	FailureFileTooLarge      FailureReason = "FILE_TOO_LARGE"
	FailureUnknown           FailureReason = "UNKNOWN"
)

// RemediationHint returns the user-facing message for a failure reason.
// Messages are action-oriented rather than technical.
func (r FailureReason) RemediationHint() string {
	switch r {
	case FailurePasswordProtected:
		return "The PDF is password protected. Remove the password protection and upload it again."
	case FailureCorrupted:
		return "The PDF could not be read. Re-download the Form 16 from your employer and try again."
	case FailureTimeout:
		return "Processing took too long. Try a smaller or clearer scan of the document."
	case FailureOCR:
		return "No readable text was found in the document. Upload a clearer scan or the original digital PDF."
	case FailureFileTooLarge:
		return "The file is too large. Upload a PDF smaller than 50MB."
	default:
		return "The document could not be processed. Check that it is a valid Form 16 PDF and try again."
	}
}

// ProcessingError is a terminal pipeline failure carrying its classified
// reason. Field-level extraction misses are never ProcessingErrors; only
// acquisition failures abort a job.
type ProcessingError struct {
	Reason FailureReason
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return string(e.Reason)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// NewProcessingError wraps err with a classified failure reason.
func NewProcessingError(reason FailureReason, err error) *ProcessingError {
	return &ProcessingError{Reason: reason, Err: err}
}
