package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Length bounds per field class.
const (
	maxCriteriaLen   = 500
	maxNameLen       = 100
	maxIdentifierLen = 20
	maxCodeLen       = 15
	maxUnitLen       = 4
)

// Allowed character sets. Reserved query syntax (colons, quotes, brackets,
// dashes) is permitted where the emitted clause gives it structural meaning.
var (
	criteriaChars   = regexp.MustCompile(`^[A-Za-z0-9 :"\[\]().,/'*?-]+$`)
	nameChars       = regexp.MustCompile(`^[A-Za-z0-9 .,'&-]+$`)
	identifierChars = regexp.MustCompile(`^[A-Za-z0-9/,.-]+$`)
	unitChars       = regexp.MustCompile(`^[0-9]+$`)
	codeChars       = regexp.MustCompile(`^[A-Za-z0-9/.-]+$`)
)

// Build assembles a validated query expression from p.
//
// Validation order is fixed: criteria, applicant name, identifiers,
// classification fields, date range, boolean flags. Warning order follows
// validation order and is reproducible. Build fails only with ErrNoCriteria,
// when nothing survives validation; the returned result still carries the
// warnings accumulated on the way there.
func Build(p Params) (BuildResult, error) {
	res := BuildResult{ParamsUsed: make(map[string]string)}
	var clauses []string

	use := func(field, value, clause string) {
		res.ParamsUsed[field] = value
		clauses = append(clauses, clause)
	}

	if v, ok := validateText(&res, "criteria", p.Criteria, maxCriteriaLen, criteriaChars); ok {
		use("criteria", v, "("+v+")")
	}
	if v, ok := validateText(&res, "applicant_name", p.ApplicantName, maxNameLen, nameChars); ok {
		use("applicant_name", v, `applicant:"`+v+`"`)
	}
	if v, ok := validateText(&res, "application_number", p.ApplicationNumber, maxIdentifierLen, identifierChars); ok {
		use("application_number", v, "applicationNumber:"+v)
	}
	if v, ok := validateText(&res, "patent_number", p.PatentNumber, maxIdentifierLen, identifierChars); ok {
		use("patent_number", v, "patentNumber:"+v)
	}
	if v, ok := validateText(&res, "tech_center", p.TechCenter, maxUnitLen, unitChars); ok {
		use("tech_center", v, "techCenter:"+v)
	}
	if v, ok := validateText(&res, "art_unit", p.ArtUnit, maxUnitLen, unitChars); ok {
		use("art_unit", v, "artUnit:"+v)
	}
	if v, ok := validateText(&res, "class_code", p.ClassCode, maxCodeLen, codeChars); ok {
		use("class_code", v, "cpcClassification:"+v)
	}

	if clause, ok := buildDateRange(&res, p.FiledAfter, p.FiledBefore); ok {
		clauses = append(clauses, clause)
	}

	if p.Granted != nil {
		v := strconv.FormatBool(*p.Granted)
		use("granted", v, "granted:"+v)
	}

	if len(clauses) == 0 {
		return res, ErrNoCriteria
	}

	res.Query = strings.Join(clauses, " AND ")
	return res, nil
}

// validateText trims and checks one string field. An empty-after-trim value
// is dropped silently; an over-length or disallowed value is dropped with
// exactly one warning naming the field.
func validateText(res *BuildResult, field, raw string, maxLen int, allowed *regexp.Regexp) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if len(v) > maxLen {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s dropped: exceeds %d characters", field, maxLen))
		return "", false
	}
	if !allowed.MatchString(v) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s dropped: contains disallowed characters", field))
		return "", false
	}
	return v, true
}

// buildDateRange validates the filing-date bounds and emits an inclusive
// range clause. Either side may be open. An inverted range drops both
// bounds with a single warning; it is not a hard failure.
func buildDateRange(res *BuildResult, afterRaw, beforeRaw string) (string, bool) {
	after, afterStr, afterOK := validateDate(res, "date_start", afterRaw)
	before, beforeStr, beforeOK := validateDate(res, "date_end", beforeRaw)

	if afterOK && beforeOK && after.After(before) {
		res.Warnings = append(res.Warnings,
			"date range dropped: date_start is after date_end")
		return "", false
	}
	if !afterOK && !beforeOK {
		return "", false
	}

	lo, hi := "*", "*"
	if afterOK {
		lo = afterStr
		res.ParamsUsed["date_start"] = afterStr
	}
	if beforeOK {
		hi = beforeStr
		res.ParamsUsed["date_end"] = beforeStr
	}
	return "filingDate:[" + lo + " TO " + hi + "]", true
}

func validateDate(res *BuildResult, field, raw string) (time.Time, string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, "", false
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s dropped: not a valid YYYY-MM-DD date", field))
		return time.Time{}, "", false
	}
	return t, t.Format(time.DateOnly), true
}
