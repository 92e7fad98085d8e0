package service

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Aashish23092/form16-tax-advisor/dto"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOldRegimeTax(t *testing.T) {
	deductions := map[string]float64{"80C": 150000}

	result := CalculateOldRegimeTax(1000000, deductions, false)

	assert.Equal(t, 850000.00, result.TaxableIncome)
	assert.Equal(t, 82500.00, result.TaxLiability)
	assert.Equal(t, 3300.00, result.Cess)
	assert.Equal(t, 85800.00, result.TotalTax)
	assert.Equal(t, 20.00, result.MarginalRate)
	assert.InDelta(t, 8.58, result.EffectiveRate, 0.001)
}

func TestCalculateNewRegimeTax(t *testing.T) {
	result := CalculateNewRegimeTax(1000000, 0, false)

	assert.Equal(t, 950000.00, result.TaxableIncome)
	assert.Equal(t, 52500.00, result.TaxLiability)
	assert.Equal(t, 2100.00, result.Cess)
	assert.Equal(t, 54600.00, result.TotalTax)
	assert.Equal(t, 15.00, result.MarginalRate)
}

func TestCompareRegimes(t *testing.T) {
	comparison := CompareRegimes(1000000, map[string]float64{"80C": 150000}, false)

	assert.Equal(t, 85800.00, comparison.OldRegime.TotalTax)
	assert.Equal(t, 54600.00, comparison.NewRegime.TotalTax)
	assert.Equal(t, 31200.00, comparison.Savings)
	assert.Equal(t, dto.RegimeNew, comparison.RecommendedRegime)
}

func TestCompareRegimesTieKeepsOld(t *testing.T) {
	comparison := CompareRegimes(0, nil, false)

	assert.Zero(t, comparison.Savings)
	assert.Equal(t, dto.RegimeOld, comparison.RecommendedRegime)
}

func TestCalculateTaxZeroIncome(t *testing.T) {
	result := CalculateTax(0, 0, OldRegimeSlabs(), false)

	assert.Zero(t, result.TaxLiability)
	assert.Zero(t, result.Cess)
	assert.Zero(t, result.TotalTax)
	assert.Zero(t, result.EffectiveRate)
	assert.Zero(t, result.MarginalRate)
}

func TestCalculateTaxDeductionsExceedIncome(t *testing.T) {
	result := CalculateTax(100000, 250000, OldRegimeSlabs(), false)

	assert.Zero(t, result.TaxableIncome)
	assert.Zero(t, result.TotalTax)
}

func TestCalculateTaxSlabBoundaries(t *testing.T) {
	// Income exactly at a bracket ceiling is taxed within that bracket.
	result := CalculateTax(250000, 0, OldRegimeSlabs(), false)
	assert.Zero(t, result.TaxLiability)
	assert.Zero(t, result.MarginalRate)

	result = CalculateTax(500000, 0, OldRegimeSlabs(), false)
	assert.Equal(t, 12500.00, result.TaxLiability)
	assert.Equal(t, 5.00, result.MarginalRate)

	result = CalculateTax(500001, 0, OldRegimeSlabs(), false)
	assert.Equal(t, 12500.00, result.TaxLiability)
	assert.Equal(t, 20.00, result.MarginalRate)
}

func TestCalculateTaxMonotonic(t *testing.T) {
	for _, slabs := range [][]dto.TaxSlabRate{OldRegimeSlabs(), NewRegimeSlabs()} {
		prev := 0.0
		for income := 0.0; income <= 5000000; income += 25000 {
			total := CalculateTax(income, 0, slabs, false).TotalTax
			assert.GreaterOrEqual(t, total, prev, "total tax decreased at income %.0f", income)
			prev = total
		}
	}
}

func TestCessIsFourPercentOfLiability(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		income := rng.Float64() * 10000000
		result := CalculateTax(income, 0, NewRegimeSlabs(), false)
		assert.Equal(t, math.Round(result.TaxLiability*0.04), result.Cess)
		assert.Equal(t, result.TaxLiability+result.Cess, result.TotalTax)
	}
}

func TestCompareRegimesSignConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		income := rng.Float64() * 10000000
		deductions := map[string]float64{"80C": rng.Float64() * 150000}

		comparison := CompareRegimes(income, deductions, false)

		assert.Equal(t, comparison.OldRegime.TotalTax-comparison.NewRegime.TotalTax, comparison.Savings)
		if comparison.Savings > 0 {
			assert.Equal(t, dto.RegimeNew, comparison.RecommendedRegime)
		} else {
			assert.Equal(t, dto.RegimeOld, comparison.RecommendedRegime)
		}
	}
}

func TestCalculateTaxNonResident(t *testing.T) {
	result := CalculateTax(1000000, 0, OldRegimeSlabs(), true)

	assert.Equal(t, 300000.00, result.TaxLiability)
	assert.Equal(t, 12000.00, result.Cess)
	assert.Equal(t, 312000.00, result.TotalTax)
	assert.Equal(t, 30.00, result.MarginalRate)
}

func TestCalculateNewRegimeTaxNonResidentNoStandardDeduction(t *testing.T) {
	result := CalculateNewRegimeTax(1000000, 0, true)

	assert.Equal(t, 1000000.00, result.TaxableIncome)
	assert.Equal(t, 300000.00, result.TaxLiability)
}

func TestSumDeductions(t *testing.T) {
	assert.Zero(t, SumDeductions(nil))
	assert.Equal(t, 175000.00, SumDeductions(map[string]float64{"80C": 150000, "80D": 25000}))
}

func TestHRAExemption(t *testing.T) {
	// Least of HRA received, rent minus 10% of basic, 50%/40% of basic.
	assert.Equal(t, 10000.00, HRAExemption(20000, 15000, 50000, true))
	assert.Equal(t, 20000.00, HRAExemption(20000, 40000, 80000, true))
	assert.Equal(t, 32000.00, HRAExemption(40000, 50000, 80000, false))

	// No clamping: zero rent drives the result negative.
	assert.Equal(t, -5000.00, HRAExemption(20000, 0, 50000, true))
}
