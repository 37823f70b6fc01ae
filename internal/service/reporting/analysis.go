package reporting

import (
	"sort"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

const (
	metricAvg = "avg"
	metricMin = "min"
	metricMax = "max"
)

// BuildAnalysis produces avg, min and max of every subject, first over all
// records and then per home town (sorted by name). Absent scores are
// skipped; a subject with no score in a scope yields no rows for it.
func BuildAnalysis(records []models.Student) []models.AnalysisRow {
	rows := make([]models.AnalysisRow, 0)
	if len(records) == 0 {
		return rows
	}

	for _, subject := range models.Subjects {
		rows = appendAggregates(rows, models.ScopeOverall, "", subject, records)
	}

	groups := make(map[string][]models.Student)
	for _, r := range records {
		groups[r.HomeTown] = append(groups[r.HomeTown], r)
	}
	towns := make([]string, 0, len(groups))
	for town := range groups {
		towns = append(towns, town)
	}
	sort.Strings(towns)

	for _, town := range towns {
		for _, subject := range models.Subjects {
			rows = appendAggregates(rows, models.ScopeHomeTown, town, subject, groups[town])
		}
	}

	return rows
}

func appendAggregates(rows []models.AnalysisRow, scope models.AnalysisScope, town string, subject models.Subject, records []models.Student) []models.AnalysisRow {
	var sum, lo, hi float64
	var count int
	for _, r := range records {
		score := r.Score(subject)
		if score == nil {
			continue
		}
		if count == 0 || *score < lo {
			lo = *score
		}
		if count == 0 || *score > hi {
			hi = *score
		}
		sum += *score
		count++
	}
	if count == 0 {
		return rows
	}

	base := models.AnalysisRow{Scope: scope, HomeTown: town, Subject: subject}
	avgRow, minRow, maxRow := base, base, base
	avgRow.Metric, avgRow.Value = metricAvg, sum/float64(count)
	minRow.Metric, minRow.Value = metricMin, lo
	maxRow.Metric, maxRow.Value = metricMax, hi
	return append(rows, avgRow, minRow, maxRow)
}
