package service

import (
	"math"

	"github.com/Aashish23092/form16-tax-advisor/dto"
)

// Tax constants for AY 2024-25.
const (
	cessRate                   = 0.04
	newRegimeStandardDeduction = 50000.0
	nonResidentFlatRate        = 30.0
)

func slabMax(v float64) *float64 { return &v }

// OldRegimeSlabs returns the old-regime brackets for AY 2024-25.
func OldRegimeSlabs() []dto.TaxSlabRate {
	return []dto.TaxSlabRate{
		{Min: 0, Max: slabMax(250000), Rate: 0},
		{Min: 250000, Max: slabMax(500000), Rate: 5},
		{Min: 500000, Max: slabMax(1000000), Rate: 20},
		{Min: 1000000, Max: nil, Rate: 30},
	}
}

// NewRegimeSlabs returns the new-regime brackets for AY 2024-25.
func NewRegimeSlabs() []dto.TaxSlabRate {
	return []dto.TaxSlabRate{
		{Min: 0, Max: slabMax(300000), Rate: 0},
		{Min: 300000, Max: slabMax(600000), Rate: 5},
		{Min: 600000, Max: slabMax(900000), Rate: 10},
		{Min: 900000, Max: slabMax(1200000), Rate: 15},
		{Min: 1200000, Max: slabMax(1500000), Rate: 20},
		{Min: 1500000, Max: nil, Rate: 30},
	}
}

// Non-residents forfeit the zero-rate threshold entirely.
func nonResidentSlabs() []dto.TaxSlabRate {
	return []dto.TaxSlabRate{
		{Min: 0, Max: nil, Rate: nonResidentFlatRate},
	}
}

// CalculateTax computes slab-based liability, cess, effective and marginal
// rates for one regime. Pure and safe to call concurrently.
func CalculateTax(grossIncome, totalDeductions float64, slabs []dto.TaxSlabRate, nonResident bool) dto.TaxCalculationResult {
	taxable := grossIncome - totalDeductions
	if taxable < 0 {
		taxable = 0
	}
	if nonResident {
		slabs = nonResidentSlabs()
	}

	var liability float64
	for _, slab := range slabs {
		if taxable <= slab.Min {
			break
		}
		upper := taxable
		if slab.Max != nil && upper > *slab.Max {
			upper = *slab.Max
		}
		liability += (upper - slab.Min) * slab.Rate / 100
	}
	liability = math.Round(liability)
	cess := math.Round(liability * cessRate)
	totalTax := liability + cess

	effectiveRate := 0.0
	if grossIncome > 0 {
		effectiveRate = totalTax / grossIncome * 100
	}

	return dto.TaxCalculationResult{
		GrossIncome:     grossIncome,
		TotalDeductions: totalDeductions,
		TaxableIncome:   taxable,
		TaxLiability:    liability,
		Cess:            cess,
		TotalTax:        totalTax,
		EffectiveRate:   effectiveRate,
		MarginalRate:    marginalRate(taxable, slabs),
	}
}

// marginalRate is the rate of the bracket containing the taxable income.
func marginalRate(taxable float64, slabs []dto.TaxSlabRate) float64 {
	if taxable <= 0 {
		return 0
	}
	for _, slab := range slabs {
		if taxable > slab.Min && (slab.Max == nil || taxable <= *slab.Max) {
			return slab.Rate
		}
	}
	return 0
}

// CalculateOldRegimeTax sums the claimed deductions and applies the old
// regime slabs.
func CalculateOldRegimeTax(grossIncome float64, deductions map[string]float64, nonResident bool) dto.TaxCalculationResult {
	return CalculateTax(grossIncome, SumDeductions(deductions), OldRegimeSlabs(), nonResident)
}

// CalculateNewRegimeTax applies the flat standard deduction (zero for
// non-residents) plus any explicitly permitted extra deduction.
func CalculateNewRegimeTax(grossIncome, extraDeduction float64, nonResident bool) dto.TaxCalculationResult {
	std := newRegimeStandardDeduction
	if nonResident {
		std = 0
	}
	return CalculateTax(grossIncome, std+extraDeduction, NewRegimeSlabs(), nonResident)
}

// CompareRegimes computes both regimes and recommends the cheaper one.
// Savings is old minus new; a tie keeps the old regime.
func CompareRegimes(grossIncome float64, deductions map[string]float64, nonResident bool) dto.RegimeComparison {
	oldResult := CalculateOldRegimeTax(grossIncome, deductions, nonResident)
	newResult := CalculateNewRegimeTax(grossIncome, 0, nonResident)

	savings := oldResult.TotalTax - newResult.TotalTax
	recommended := dto.RegimeOld
	if savings > 0 {
		recommended = dto.RegimeNew
	}

	return dto.RegimeComparison{
		OldRegime:         oldResult,
		NewRegime:         newResult,
		Savings:           savings,
		RecommendedRegime: recommended,
	}
}

// SumDeductions totals a section -> amount map.
func SumDeductions(deductions map[string]float64) float64 {
	var total float64
	for _, amount := range deductions {
		total += amount
	}
	return total
}

// HRAExemption returns the exempt portion of house rent allowance:
// the least of HRA received, rent paid minus 10% of basic salary, and
// 50% (metro) or 40% (non-metro) of basic salary. Intermediate values are
// deliberately not clamped; a negative result means no exemption and is for
// the caller to interpret.
func HRAExemption(hraReceived, rentPaid, basicSalary float64, metroCity bool) float64 {
	pct := 0.40
	if metroCity {
		pct = 0.50
	}
	rentExcess := rentPaid - 0.10*basicSalary
	return math.Min(hraReceived, math.Min(rentExcess, pct*basicSalary))
}
