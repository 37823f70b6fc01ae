package models

// ImportRowError describes why a single CSV row was not imported.
type ImportRowError struct {
	Row   int               `json:"row"`
	Data  map[string]string `json:"data"`
	Error string            `json:"error"`
}

// ImportResult summarizes a CSV import run.
type ImportResult struct {
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Success      []Student        `json:"success"`
	Failed       []ImportRowError `json:"failed"`
}
