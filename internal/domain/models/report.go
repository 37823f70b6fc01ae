package models

import "time"

// StatsSnapshot is a point-in-time copy of the aggregate statistics stored in MongoDB.
type StatsSnapshot struct {
	ID         string    `bson:"_id" json:"id"`
	Total      int       `bson:"total" json:"total"`
	Math       string    `bson:"math" json:"math"`
	Literature string    `bson:"literature" json:"literature"`
	English    string    `bson:"english" json:"english"`
	TakenAt    time.Time `bson:"taken_at" json:"taken_at"`
}

// AnalysisScope distinguishes overall aggregates from per-hometown ones.
type AnalysisScope string

const (
	ScopeOverall  AnalysisScope = "overall"
	ScopeHomeTown AnalysisScope = "hometown"
)

// AnalysisRow is one aggregate (avg, min or max) of a subject within a scope.
type AnalysisRow struct {
	Scope    AnalysisScope `json:"scope"`
	HomeTown string        `json:"home_town"`
	Subject  Subject       `json:"subject"`
	Metric   string        `json:"metric"`
	Value    float64       `json:"value"`
}
