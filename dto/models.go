package dto

// Form16Data holds the fields recovered from a Form 16 transcript.
// Extraction is best-effort: a string field that could not be located stays
// empty and an amount that could not be parsed stays 0. Only the Deductions
// map follows presence semantics, it contains a section key only when a
// positive amount was matched for it.
type Form16Data struct {
	EmployerName    string `json:"employer_name,omitempty"`
	EmployerAddress string `json:"employer_address,omitempty"`
	EmployeeName    string `json:"employee_name,omitempty"`
	EmployeeAddress string `json:"employee_address,omitempty"`
	PAN             string `json:"pan,omitempty"`
	AssessmentYear  string `json:"assessment_year,omitempty"` // "YYYY-YY"

	GrossSalary       float64 `json:"gross_salary"`
	GrossTotalIncome  float64 `json:"gross_total_income"`
	TotalExemption    float64 `json:"total_exemption"`
	StandardDeduction float64 `json:"standard_deduction"`
	TotalDeduction    float64 `json:"total_deduction"`
	IncomeChargeable  float64 `json:"income_chargeable"`
	NetTaxableIncome  float64 `json:"net_taxable_income"`
	NetTaxPayable     float64 `json:"net_tax_payable"`
	TDS               float64 `json:"tds"`

	// Deductions maps a Chapter VI-A section code (e.g. "80C") to the claimed
	// amount. Sections that were absent or zero are omitted.
	Deductions map[string]float64 `json:"deductions,omitempty"`
}

// TaxSlabRate is a single progressive-tax bracket. Max is nil for the
// unbounded top bracket. Rate is a percentage.
type TaxSlabRate struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Rate float64  `json:"rate"`
}

// TaxCalculationResult is the outcome of a single-regime computation.
type TaxCalculationResult struct {
	GrossIncome     float64 `json:"gross_income"`
	TotalDeductions float64 `json:"total_deductions"`
	TaxableIncome   float64 `json:"taxable_income"`
	TaxLiability    float64 `json:"tax_liability"`
	Cess            float64 `json:"cess"`
	TotalTax        float64 `json:"total_tax"`
	EffectiveRate   float64 `json:"effective_rate"`
	MarginalRate    float64 `json:"marginal_rate"`
}

// Regime labels used in RegimeComparison and the calculate API.
const (
	RegimeOld = "old"
	RegimeNew = "new"
)

// RegimeComparison holds both regime results side by side.
// Savings is old total tax minus new total tax; a positive value means the
// new regime is cheaper. A tie recommends the old regime.
type RegimeComparison struct {
	OldRegime         TaxCalculationResult `json:"old_regime"`
	NewRegime         TaxCalculationResult `json:"new_regime"`
	Savings           float64              `json:"savings"`
	RecommendedRegime string               `json:"recommended_regime"`
}

// Suggestion categories.
const (
	CategoryInvestment = "investment"
	CategoryInsurance  = "insurance"
	CategoryLoan       = "loan"
	CategorySavings    = "savings"
	CategoryStrategy   = "strategy"
)

// Suggestion urgencies.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Suggestion is a single ranked tax-saving recommendation.
type Suggestion struct {
	Section         string  `json:"section"`
	SuggestionText  string  `json:"suggestion_text"`
	CurrentAmount   float64 `json:"current_amount"`
	MaxAmount       float64 `json:"max_amount"`
	PotentialSaving float64 `json:"potential_saving"`
	Priority        int     `json:"priority"` // lower = more important
	Category        string  `json:"category"`
	Urgency         string  `json:"urgency"`
}

// UserProfile carries the optional taxpayer attributes the suggestion engine
// scales its section limits by.
type UserProfile struct {
	Age                 int    `json:"age"`
	HasDependentParents bool   `json:"has_dependent_parents"`
	MetroCity           bool   `json:"metro_city"`
	HasHomeLoan         bool   `json:"has_home_loan"`
	RiskProfile         string `json:"risk_profile,omitempty"`
}
