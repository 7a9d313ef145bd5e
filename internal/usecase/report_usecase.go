package usecase

import (
	"context"

	"classroom/internal/domain/entity"
)

// ReportUsecase defines read access to localization reports produced by the
// analysis pipeline.
type ReportUsecase interface {
	// GetReportByID retrieves a single report.
	GetReportByID(ctx context.Context, id int64) (*entity.LocalizationReport, error)

	// AllReports lists all reports, newest first.
	AllReports(ctx context.Context) ([]*entity.LocalizationReport, error)

	// AllReportsByStudentAssignment lists the reports for one submission.
	AllReportsByStudentAssignment(ctx context.Context, studentAssignmentID int64) ([]*entity.LocalizationReport, error)
}
