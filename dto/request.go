package dto

import "errors"

// TaxCalculationRequest is the JSON body for POST /tax/calculate.
type TaxCalculationRequest struct {
	GrossIncome float64            `json:"gross_income" binding:"required"`
	Deductions  map[string]float64 `json:"deductions"`
	Regime      string             `json:"regime"`
	NonResident bool               `json:"non_resident"`
}

// Validate performs basic validation on the request.
func (r *TaxCalculationRequest) Validate() error {
	if r.GrossIncome < 0 {
		return errors.New("gross_income must be non-negative")
	}
	if r.Regime != "" && r.Regime != RegimeOld && r.Regime != RegimeNew {
		return errors.New("regime must be 'old' or 'new'")
	}
	for section, amount := range r.Deductions {
		if amount < 0 {
			return errors.New("deduction amount for " + section + " must be non-negative")
		}
	}
	return nil
}

// RegimeComparisonRequest is the JSON body for POST /tax/compare.
type RegimeComparisonRequest struct {
	GrossIncome float64            `json:"gross_income" binding:"required"`
	Deductions  map[string]float64 `json:"deductions"`
	NonResident bool               `json:"non_resident"`
}

// SuggestionRequest is the JSON body for POST /tax/suggestions.
type SuggestionRequest struct {
	GrossIncome    float64            `json:"gross_income" binding:"required"`
	Deductions     map[string]float64 `json:"deductions"`
	AssessmentYear string             `json:"assessment_year"`
	Profile        *UserProfile       `json:"profile"`
}
