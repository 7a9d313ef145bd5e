package entity

import "time"

// Analyzer is an uploaded code-analysis tool. The binary itself lives in the
// blob store under StorageKey; only metadata is kept in the database.
type Analyzer struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"` // Globally unique analyzer name.
	Description   string `json:"description"`
	FileName      string `json:"analyzerFileName"`
	FileExtension string `json:"analyzerFileExtension"`
	FileSize      int64  `json:"analyzerFileSize"`
	StorageKey    string `json:"-"` // Object key in the analyzer bucket.
	DeveloperID   int64  `json:"developerId"`
	Developer     *User  `json:"-"`
}

// LocalizationReport is the output of running an analyzer against a
// submission. Reports are produced by the external analysis pipeline; this
// service only reads them.
type LocalizationReport struct {
	ID                  int64     `json:"id"`
	StudentAssignmentID int64     `json:"studentAssignmentId"`
	AnalyzerID          int64     `json:"analyzerId"`
	Content             string    `json:"content"`
	Score               float64   `json:"score"`
	CreatedOn           time.Time `json:"createdOn"`
}
