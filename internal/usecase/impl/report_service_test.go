package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
)

// fakeReportRepo is an in-memory ReportRepository.
type fakeReportRepo struct {
	reports map[int64]*entity.LocalizationReport
}

func (r *fakeReportRepo) FindByID(_ context.Context, id int64) (*entity.LocalizationReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	clone := *report

	return &clone, nil
}

func (r *fakeReportRepo) List(_ context.Context) ([]*entity.LocalizationReport, error) {
	out := make([]*entity.LocalizationReport, 0, len(r.reports))
	for _, report := range r.reports {
		clone := *report
		out = append(out, &clone)
	}

	return out, nil
}

func (r *fakeReportRepo) ListByStudentAssignment(_ context.Context, studentAssignmentID int64) ([]*entity.LocalizationReport, error) {
	var out []*entity.LocalizationReport
	for _, report := range r.reports {
		if report.StudentAssignmentID == studentAssignmentID {
			clone := *report
			out = append(out, &clone)
		}
	}

	return out, nil
}

func TestReportService(t *testing.T) {
	repo := &fakeReportRepo{reports: map[int64]*entity.LocalizationReport{
		1: {ID: 1, StudentAssignmentID: 7, AnalyzerID: 2, Score: 0.82},
		2: {ID: 2, StudentAssignmentID: 7, AnalyzerID: 3, Score: 0.4},
		3: {ID: 3, StudentAssignmentID: 8, AnalyzerID: 2, Score: 0.9},
	}}
	service := NewReportService(ReportServiceParams{ReportRepo: repo})
	ctx := context.Background()

	report, err := service.GetReportByID(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.82, report.Score, 1e-9)

	_, err = service.GetReportByID(ctx, 404)
	require.ErrorIs(t, err, domainerrors.ErrReportNotFound)

	all, err := service.AllReports(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySubmission, err := service.AllReportsByStudentAssignment(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, bySubmission, 2)
}
