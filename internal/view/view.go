// Package view derives display data from the record list. Every function is
// pure: the same records and query always produce the same output.
package view

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

// Placeholder is shown for absent scores and dates.
const Placeholder = "-"

const emptyAverage = "0.0"

// ComputeStats counts the records and averages each subject over its non-null scores.
func ComputeStats(records []models.Student) models.Stats {
	return models.Stats{
		Total:      len(records),
		Math:       Average(records, models.SubjectMath),
		Literature: Average(records, models.SubjectLiterature),
		English:    Average(records, models.SubjectEnglish),
	}
}

// Average returns the mean of the non-null scores of subject with one
// decimal, or "0.0" when no record has a score for it.
func Average(records []models.Student, subject models.Subject) string {
	var sum float64
	var count int
	for _, r := range records {
		if score := r.Score(subject); score != nil {
			sum += *score
			count++
		}
	}
	if count == 0 {
		return emptyAverage
	}
	return formatOneDecimal(sum / float64(count))
}

// Filter keeps the records whose name, email or home town contain query,
// ignoring case and surrounding whitespace. Input order is preserved.
func Filter(records []models.Student, query string) []models.Student {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	out := make([]models.Student, 0, len(records))
	for _, r := range records {
		if strings.Contains(searchText(r), q) {
			out = append(out, r)
		}
	}
	return out
}

func searchText(r models.Student) string {
	return strings.ToLower(strings.Join([]string{r.FirstName, r.LastName, r.Email, r.HomeTown}, " "))
}

// FormatScore renders a score with one decimal, or "-" when absent.
func FormatScore(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return formatOneDecimal(*value)
}

// FormatDate passes a date through unchanged, or "-" when empty.
func FormatDate(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}

// Rows converts records to display rows.
func Rows(records []models.Student) []models.Row {
	rows := make([]models.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.Row{
			ID:              r.ID,
			FullName:        r.FullName(),
			Email:           r.Email,
			DateOfBirth:     FormatDate(r.DateOfBirth),
			HomeTown:        r.HomeTown,
			MathScore:       FormatScore(r.MathScore),
			LiteratureScore: FormatScore(r.LiteratureScore),
			EnglishScore:    FormatScore(r.EnglishScore),
		})
	}
	return rows
}

// formatOneDecimal rounds halves away from zero on the exact binary value,
// so 7.25 renders as 7.3 and 0.15 (stored just below 0.15) as 0.1.
func formatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, big.NewRat(10, 1))
	neg := r.Sign() < 0
	r.Abs(r)
	r.Add(r, big.NewRat(1, 2))

	tenths := new(big.Int).Quo(r.Num(), r.Denom())
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))

	out := whole.String() + "." + frac.String()
	if neg && tenths.Sign() != 0 {
		out = "-" + out
	}
	return out
}
