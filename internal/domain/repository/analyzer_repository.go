package repository

import (
	"context"
	"errors"

	"classroom/internal/domain/entity"
)

// Domain-specific errors for analyzer and report persistence.
var (
	// ErrAnalyzerNotFound is returned when an analyzer is not found.
	ErrAnalyzerNotFound = errors.New("analyzer not found")
	// ErrReportNotFound is returned when a localization report is not found.
	ErrReportNotFound = errors.New("localization report not found")
)

// AnalyzerRepository defines the operations for analyzer metadata. The
// binaries themselves live in the blob store.
type AnalyzerRepository interface {
	// FindByID retrieves an analyzer with its developer loaded.
	FindByID(ctx context.Context, id int64) (*entity.Analyzer, error)

	// List retrieves analyzers ordered by name with developers loaded.
	List(ctx context.Context) ([]*entity.Analyzer, error)

	// Upsert creates the analyzer when ID is zero, otherwise updates it.
	Upsert(ctx context.Context, analyzer *entity.Analyzer) error
}

// ReportRepository defines read access to localization reports. Reports are
// written by the analysis pipeline, never by this service.
type ReportRepository interface {
	// FindByID retrieves a single report.
	FindByID(ctx context.Context, id int64) (*entity.LocalizationReport, error)

	// List retrieves all reports.
	List(ctx context.Context) ([]*entity.LocalizationReport, error)

	// ListByStudentAssignment retrieves the reports produced for one submission.
	ListByStudentAssignment(ctx context.Context, studentAssignmentID int64) ([]*entity.LocalizationReport, error)
}
