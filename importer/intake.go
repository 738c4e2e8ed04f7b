package importer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// cutoffYear: records whose next earliest intake falls before this year are
// considered inactive and never imported.
const cutoffYear = 2025

var (
	// Intake offers sometimes arrive as stringified dict dumps rather than
	// JSON objects, e.g. "{'YEAR': 2026, 'MONTH': 'SEP'}". These pull the
	// year and three-letter month code out of either quoting style.
	intakeYearRe  = regexp.MustCompile(`['"]YEAR['"]\s*:\s*"?(\d{4})`)
	intakeMonthRe = regexp.MustCompile(`['"]MONTH['"]\s*:\s*['"]([A-Z]{3})`)

	monthCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

// intakeOffer is the well-formed object variant of an intake entry.
type intakeOffer struct {
	Year  int    `json:"YEAR"`
	Month string `json:"MONTH"`
}

// isActive reports whether the record's next earliest intake parses to a
// year at or after the cutoff. Unparseable or missing intakes are inactive.
func isActive(c *SourceCourse) bool {
	fields := strings.Fields(strings.TrimSpace(c.NextEarliestIntake))
	if len(fields) == 0 {
		return false
	}
	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || year == 0 {
		return false
	}
	return year >= cutoffYear
}

// hasEnoughDetails requires the fields the frontend cannot render without.
func hasEnoughDetails(c *SourceCourse) bool {
	return c.CourseName != "" &&
		c.UniversityID != "" &&
		c.TuitionFee != nil &&
		c.TuitionFee.AmountGBP != nil &&
		c.DegreeLevel != "" &&
		c.Category != "" &&
		c.CourseURL != ""
}

// buildField derives the field-of-study label: first sub-stream name, else
// the first comma-separated token of the category, else empty.
func buildField(c *SourceCourse) string {
	if len(c.SubStreams) > 0 && c.SubStreams[0].Name != "" {
		return c.SubStreams[0].Name
	}
	if c.Category != "" {
		return strings.TrimSpace(strings.SplitN(c.Category, ",", 2)[0])
	}
	return ""
}

// buildIntakeTerms derives deduplicated "MON YYYY" labels from the intake
// offers, preserving the order they appear in. When no offer parses, the
// raw next earliest intake string stands in.
func buildIntakeTerms(c *SourceCourse) []string {
	if c.IntakesOffered == nil {
		if c.NextEarliestIntake != "" {
			return []string{c.NextEarliestIntake}
		}
		return nil
	}

	seen := make(map[string]bool)
	var terms []string
	add := func(month string, year int) {
		term := fmt.Sprintf("%s %d", month, year)
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, raw := range c.IntakesOffered {
		var offer intakeOffer
		if err := json.Unmarshal(raw, &offer); err == nil &&
			offer.Year >= 1000 && offer.Year <= 9999 &&
			monthCodeRe.MatchString(offer.Month) {
			add(offer.Month, offer.Year)
			continue
		}

		s := string(raw)
		ym := intakeYearRe.FindStringSubmatch(s)
		mm := intakeMonthRe.FindStringSubmatch(s)
		if ym != nil && mm != nil {
			year, err := strconv.Atoi(ym[1])
			if err == nil {
				add(mm[1], year)
			}
		}
	}

	if len(terms) == 0 && c.NextEarliestIntake != "" {
		terms = []string{c.NextEarliestIntake}
	}
	return terms
}
