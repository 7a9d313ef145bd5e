package impl

import (
	"context"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reportService implements the ReportUsecase interface. Reports are produced
// by the analysis pipeline; this service only reads them.
type reportService struct {
	reportRepo repository.ReportRepository
}

// ReportServiceParams holds dependencies for reportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	ReportRepo repository.ReportRepository
}

// NewReportService is the constructor for reportService.
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{reportRepo: params.ReportRepo}
}

// GetReportByID retrieves a single report.
func (srv *reportService) GetReportByID(ctx context.Context, id int64) (*entity.LocalizationReport, error) {
	report, err := srv.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, domainerrors.ErrReportNotFound
		}

		return nil, errors.Wrap(err, "failed to find report")
	}

	return report, nil
}

// AllReports lists all reports, newest first.
func (srv *reportService) AllReports(ctx context.Context) ([]*entity.LocalizationReport, error) {
	reports, err := srv.reportRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}

	return reports, nil
}

// AllReportsByStudentAssignment lists the reports for one submission.
func (srv *reportService) AllReportsByStudentAssignment(ctx context.Context, studentAssignmentID int64) ([]*entity.LocalizationReport, error) {
	reports, err := srv.reportRepo.ListByStudentAssignment(ctx, studentAssignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports for student assignment")
	}

	return reports, nil
}
