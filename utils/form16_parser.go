package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Aashish23092/form16-tax-advisor/dto"
)

// amountTail matches the monetary value that follows a field label on the
// same line. Parenthesized chunks (row references like "(12)", "(4-5)") and
// other non-digit characters between the label and the value are skipped.
const amountTail = `(?:\([^)]*\)|[^0-9])*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

// Gross salary amounts outside this band are treated as OCR misreads.
const (
	grossSalaryFloor   = 10000.0
	grossSalaryCeiling = 1000000000.0
)

var (
	panRe      = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	panLabelRe = regexp.MustCompile(`(?i)\bpan\b`)

	partBAnchorRe = regexp.MustCompile(`(?i)\bpart\s*[\-–]?\s*b\b|name\s+and\s+address\s+of\s+the\s+employ`)
	chapterVIARe  = regexp.MustCompile(`(?i)chapter\s*vi[\s\-–]*a|deduction[s]?\s+under\s+chapter`)

	employeeLabelRe = regexp.MustCompile(`(?i)name\s+and\s+address\s+of\s+the\s+employee`)
	employerLabelRe = regexp.MustCompile(`(?i)name\s+and\s+address\s+of\s+the\s+employer`)

	assessmentYearLabelRe = regexp.MustCompile(`(?i)assessment\s+year`)
	assessmentYearRe      = regexp.MustCompile(`(20[0-9]{2})\s*[\-–]\s*([0-9]{2})`)
)

// Per-field pattern chains, tried in priority order. The first pattern that
// matches a line inside the field's scope and yields a positive amount wins.
var (
	grossSalaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)gross\s+salary\s*(?:\(\s*total\s*\))?` + amountTail),
		regexp.MustCompile(`(?i)salary\s+as\s+per\s+provisions\s+contained\s+in\s+section\s+17\s*\(\s*1\s*\)` + amountTail),
		regexp.MustCompile(`(?i)total\s+salary\b` + amountTail),
	}
	totalExemptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)total\s+(?:amount\s+of\s+)?exemption(?:\s+claimed)?(?:\s+under\s+section\s+10)?` + amountTail),
		regexp.MustCompile(`(?i)allowances\s+to\s+the\s+extent\s+exempt\s+under\s+section\s+10` + amountTail),
	}
	standardDeductionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)standard\s+deduction(?:\s+under\s+section\s+16\s*\(\s*ia\s*\))?` + amountTail),
	}
	incomeChargeablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)income\s+chargeable\s+under\s+the\s+head\s*(?:["']?salaries["']?)?` + amountTail),
	}
	grossTotalIncomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)gross\s+total\s+income` + amountTail),
	}
	totalDeductionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)aggregate\s+of\s+deductible\s+amounts?(?:\s+under\s+chapter\s+vi[\s\-–]*a)?` + amountTail),
		regexp.MustCompile(`(?i)total\s+deductions?\b` + amountTail),
	}
	netTaxableIncomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:net|total)\s+taxable\s+income` + amountTail),
		regexp.MustCompile(`(?i)^[^a-z]*total\s+income\b` + amountTail),
	}
	netTaxPayablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)net\s+tax\s+payable` + amountTail),
		regexp.MustCompile(`(?i)tax\s+payable\b` + amountTail),
	}
	tdsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)total\s+(?:amount\s+of\s+)?tax\s+deducted(?:\s+at\s+source)?` + amountTail),
		regexp.MustCompile(`(?i)tax\s+deducted\s+at\s+source` + amountTail),
		regexp.MustCompile(`(?i)\btds\b` + amountTail),
	}
)

// deductionSectionPatterns attribute a line inside the Chapter VI-A block to
// a section code. Longer section codes come first so that e.g. 80CCD(1B) is
// never swallowed by the plain 80CCD pattern.
var deductionSectionPatterns = []struct {
	Section string
	re      *regexp.Regexp
}{
	{"80CCD(1B)", regexp.MustCompile(`(?i)80\s*CCD\s*\(\s*1B\s*\)` + amountTail)},
	{"80CCD(2)", regexp.MustCompile(`(?i)80\s*CCD\s*\(\s*2\s*\)` + amountTail)},
	{"80CCD", regexp.MustCompile(`(?i)80\s*CCD\b(?:\s*\(\s*1\s*\))?` + amountTail)},
	{"80CCC", regexp.MustCompile(`(?i)80\s*CCC\b` + amountTail)},
	{"80C", regexp.MustCompile(`(?i)80\s*C\b` + amountTail)},
	{"80DDB", regexp.MustCompile(`(?i)80\s*DDB\b` + amountTail)},
	{"80DD", regexp.MustCompile(`(?i)80\s*DD\b` + amountTail)},
	{"80D", regexp.MustCompile(`(?i)80\s*D\b` + amountTail)},
	{"80EE", regexp.MustCompile(`(?i)80\s*EE\b` + amountTail)},
	{"80E", regexp.MustCompile(`(?i)80\s*E\b` + amountTail)},
	{"80GG", regexp.MustCompile(`(?i)80\s*GG\b` + amountTail)},
	{"80G", regexp.MustCompile(`(?i)80\s*G\b` + amountTail)},
	{"80TTB", regexp.MustCompile(`(?i)80\s*TTB\b` + amountTail)},
	{"80TTA", regexp.MustCompile(`(?i)80\s*TTA\b` + amountTail)},
	{"80U", regexp.MustCompile(`(?i)80\s*U\b` + amountTail)},
}

// nameNoiseWords disqualify a candidate line from being read as a person or
// company name inside a label window.
var nameNoiseWords = map[string]bool{
	"FORM":        true,
	"PART":        true,
	"CERTIFICATE": true,
	"PAN":         true,
	"TAN":         true,
	"ASSESSMENT":  true,
	"ADDRESS":     true,
	"EMPLOYEE":    true,
	"EMPLOYER":    true,
	"DEDUCTOR":    true,
	"DEDUCTEE":    true,
	"SIGNATURE":   true,
	"VERIFICATION": true,
}

type span struct {
	start, end int
}

type form16Parser struct {
	lines      []string
	details    span
	deductions span
}

// ParseForm16 extracts structured Form 16 facts from a plain-text transcript.
// A field that cannot be located is simply absent in the result; the only
// error case is text with no content at all.
func ParseForm16(text string) (*dto.Form16Data, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty document text")
	}

	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, strings.TrimSpace(l))
	}

	p := &form16Parser{lines: lines}
	p.locateSections()

	doc := &dto.Form16Data{}
	doc.PAN = p.extractPAN()
	doc.AssessmentYear = p.extractAssessmentYear()
	doc.EmployeeName, doc.EmployeeAddress = p.extractParty(employeeLabelRe)
	doc.EmployerName, doc.EmployerAddress = p.extractParty(employerLabelRe)

	doc.GrossSalary = p.findAmountInBand(grossSalaryPatterns, grossSalaryFloor, grossSalaryCeiling)
	doc.TotalExemption = p.findAmount(totalExemptionPatterns)
	doc.StandardDeduction = p.findAmount(standardDeductionPatterns)
	doc.IncomeChargeable = p.findAmount(incomeChargeablePatterns)
	doc.GrossTotalIncome = p.findAmount(grossTotalIncomePatterns)
	doc.TotalDeduction = p.findAmount(totalDeductionPatterns)
	doc.NetTaxableIncome = p.findAmount(netTaxableIncomePatterns)
	doc.NetTaxPayable = p.findAmount(netTaxPayablePatterns)
	doc.TDS = p.findAmount(tdsPatterns)

	if deductions := p.extractDeductions(); len(deductions) > 0 {
		doc.Deductions = deductions
	}

	return doc, nil
}

// locateSections scans for the Part B heading and the Chapter VI-A heading.
// When a heading is missing the corresponding search range falls back to the
// whole document, trading some precision for recall on noisy OCR output.
func (p *form16Parser) locateSections() {
	p.details = span{0, len(p.lines)}
	p.deductions = span{0, len(p.lines)}

	partB, chapterVIA := -1, -1
	for i, line := range p.lines {
		if partB == -1 && partBAnchorRe.MatchString(line) {
			partB = i
		}
		if chapterVIA == -1 && chapterVIARe.MatchString(line) {
			chapterVIA = i
		}
	}

	if partB >= 0 {
		p.details.start = partB
		if chapterVIA > partB {
			p.details.end = chapterVIA
		}
	}
	if chapterVIA >= 0 {
		p.deductions.start = chapterVIA
	}
}

// extractPAN prefers a PAN that appears in employee/deductee context; the
// value is often on the line after the label. Falls back to the first
// PAN-shaped token anywhere in the document.
func (p *form16Parser) extractPAN() string {
	for i, line := range p.lines {
		lower := strings.ToLower(line)
		if !panLabelRe.MatchString(line) {
			continue
		}
		if !strings.Contains(lower, "employee") && !strings.Contains(lower, "deductee") {
			continue
		}
		if pan := panRe.FindString(strings.ToUpper(line)); pan != "" {
			return pan
		}
		for j := i + 1; j <= i+2 && j < len(p.lines); j++ {
			if pan := panRe.FindString(strings.ToUpper(p.lines[j])); pan != "" {
				return pan
			}
		}
	}

	for _, line := range p.lines {
		if pan := panRe.FindString(strings.ToUpper(line)); pan != "" {
			return pan
		}
	}
	return ""
}

func (p *form16Parser) extractAssessmentYear() string {
	for i, line := range p.lines {
		if !assessmentYearLabelRe.MatchString(line) {
			continue
		}
		for j := i; j <= i+1 && j < len(p.lines); j++ {
			if m := assessmentYearRe.FindStringSubmatch(p.lines[j]); m != nil {
				return m[1] + "-" + m[2]
			}
		}
	}
	return ""
}

// extractParty finds the labeled header line and scans a bounded window of
// following lines for the first name-looking line. Real layouts wrap the
// value onto the lines after the label, never reliably the same line.
func (p *form16Parser) extractParty(label *regexp.Regexp) (string, string) {
	for i := p.details.start; i < p.details.end; i++ {
		if !label.MatchString(p.lines[i]) {
			continue
		}
		for j := i + 1; j <= i+10 && j < p.details.end; j++ {
			if !looksLikeEntityName(p.lines[j]) {
				continue
			}
			name := strings.TrimSpace(p.lines[j])
			return name, p.collectAddress(j + 1)
		}
		return "", ""
	}
	return "", ""
}

// collectAddress gathers up to three lines following a name line that look
// like address content.
func (p *form16Parser) collectAddress(from int) string {
	var parts []string
	for j := from; j < from+3 && j < p.details.end; j++ {
		line := p.lines[j]
		if line == "" || panLabelRe.MatchString(line) ||
			employeeLabelRe.MatchString(line) || employerLabelRe.MatchString(line) {
			break
		}
		if !looksLikeAddress(line) {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, ", ")
}

func looksLikeEntityName(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 4 || len(trimmed) > 80 {
		return false
	}
	if strings.ContainsAny(trimmed, "0123456789") {
		return false
	}
	// Names on Form 16 are printed in capitals.
	if strings.ToUpper(trimmed) != trimmed {
		return false
	}
	letters := 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters*2 < len(trimmed) {
		return false
	}
	for _, w := range strings.Fields(trimmed) {
		if nameNoiseWords[strings.Trim(w, ".,():")] {
			return false
		}
	}
	return true
}

func looksLikeAddress(line string) bool {
	if len(line) < 6 {
		return false
	}
	return strings.ContainsAny(line, "0123456789,")
}

func (p *form16Parser) findAmount(patterns []*regexp.Regexp) float64 {
	return p.findAmountInBand(patterns, 0, 0)
}

// findAmountInBand tries each pattern in priority order over every line;
// the first positive amount wins. A non-zero hi bound rejects amounts
// outside [lo, hi].
func (p *form16Parser) findAmountInBand(patterns []*regexp.Regexp, lo, hi float64) float64 {
	for _, re := range patterns {
		for _, line := range p.lines {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			amount := ParseAmount(m[1])
			if amount <= 0 {
				continue
			}
			if hi > 0 && (amount < lo || amount > hi) {
				continue
			}
			return amount
		}
	}
	return 0
}

// extractDeductions builds the section -> amount map from the Chapter VI-A
// block. Each line is attributed to at most one section (first pattern in
// order wins) and only positive amounts are kept.
func (p *form16Parser) extractDeductions() map[string]float64 {
	out := make(map[string]float64)
	for i := p.deductions.start; i < p.deductions.end; i++ {
		line := p.lines[i]
		if line == "" {
			continue
		}
		for _, sp := range deductionSectionPatterns {
			m := sp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if amount := ParseAmount(m[1]); amount > 0 && out[sp.Section] == 0 {
				out[sp.Section] = amount
			}
			break
		}
	}
	return out
}

// ParseAmount normalizes a currency-formatted string to a number.
// Unparseable input yields 0, never an error: quantity fields default to
// zero while presence fields default to absent.
func ParseAmount(raw string) float64 {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, "rs.", "")
	cleaned = strings.ReplaceAll(cleaned, "rs", "")
	cleaned = strings.ReplaceAll(cleaned, "inr", "")
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
