package postgres

import (
	"context"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// analyzerRepository implements the domain.AnalyzerRepository interface using GORM.
type analyzerRepository struct {
	db *gorm.DB
}

// NewAnalyzerRepository is the constructor for analyzerRepository.
func NewAnalyzerRepository(db *gorm.DB) repository.AnalyzerRepository {
	return &analyzerRepository{db: db}
}

// FindByID retrieves an analyzer with its developer loaded.
func (repo *analyzerRepository) FindByID(ctx context.Context, id int64) (*entity.Analyzer, error) {
	var analyzerM model.AnalyzerModel
	err := repo.db.WithContext(ctx).
		Preload("Developer.Role").
		First(&analyzerM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAnalyzerNotFound
		}

		return nil, errors.Wrap(err, "failed to find analyzer by id")
	}

	return toAnalyzerDomain(&analyzerM), nil
}

// List retrieves analyzers ordered by name with developers loaded.
func (repo *analyzerRepository) List(ctx context.Context) ([]*entity.Analyzer, error) {
	var analyzerMs []*model.AnalyzerModel
	err := repo.db.WithContext(ctx).
		Preload("Developer.Role").
		Order("name").
		Find(&analyzerMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analyzers")
	}

	analyzers := make([]*entity.Analyzer, 0, len(analyzerMs))
	for _, analyzerM := range analyzerMs {
		analyzers = append(analyzers, toAnalyzerDomain(analyzerM))
	}

	return analyzers, nil
}

// Upsert creates the analyzer when ID is zero, otherwise updates it.
func (repo *analyzerRepository) Upsert(ctx context.Context, analyzer *entity.Analyzer) error {
	analyzerM := fromAnalyzerDomain(analyzer)

	var err error
	if analyzerM.ID == 0 {
		err = repo.db.WithContext(ctx).Create(analyzerM).Error
	} else {
		err = repo.db.WithContext(ctx).
			Model(&model.AnalyzerModel{}).
			Where("id = ?", analyzerM.ID).
			Updates(map[string]any{
				"name":           analyzerM.Name,
				"description":    analyzerM.Description,
				"file_name":      analyzerM.FileName,
				"file_extension": analyzerM.FileExtension,
				"file_size":      analyzerM.FileSize,
				"storage_key":    analyzerM.StorageKey,
			}).Error
	}
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("analyzer name already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert analyzer")
	}

	analyzer.ID = analyzerM.ID

	return nil
}

// reportRepository implements the domain.ReportRepository interface using GORM.
// Reports are written by the analysis pipeline, this service only reads them.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// FindByID retrieves a single report.
func (repo *reportRepository) FindByID(ctx context.Context, id int64) (*entity.LocalizationReport, error) {
	var reportM model.LocalizationReportModel
	err := repo.db.WithContext(ctx).First(&reportM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReportNotFound
		}

		return nil, errors.Wrap(err, "failed to find report by id")
	}

	return toReportDomain(&reportM), nil
}

// List retrieves all reports ordered by creation time, newest first.
func (repo *reportRepository) List(ctx context.Context) ([]*entity.LocalizationReport, error) {
	var reportMs []*model.LocalizationReportModel
	err := repo.db.WithContext(ctx).
		Order("created_on DESC").
		Find(&reportMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}

	return toReportDomains(reportMs), nil
}

// ListByStudentAssignment retrieves the reports produced for one submission.
func (repo *reportRepository) ListByStudentAssignment(ctx context.Context, studentAssignmentID int64) ([]*entity.LocalizationReport, error) {
	var reportMs []*model.LocalizationReportModel
	err := repo.db.WithContext(ctx).
		Where("student_assignment_id = ?", studentAssignmentID).
		Order("created_on DESC").
		Find(&reportMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports for student assignment")
	}

	return toReportDomains(reportMs), nil
}

func toReportDomains(ms []*model.LocalizationReportModel) []*entity.LocalizationReport {
	reports := make([]*entity.LocalizationReport, 0, len(ms))
	for _, m := range ms {
		reports = append(reports, toReportDomain(m))
	}

	return reports
}
