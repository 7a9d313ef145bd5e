package usecase

import (
	"context"

	"classroom/internal/domain/entity"
)

// UpsertAnalyzerInput creates an analyzer when ID is nil, otherwise updates
// one. The binary travels inline as base64 and lands in the blob bucket.
type UpsertAnalyzerInput struct {
	ID            *int64
	Name          string `validate:"required,max=255"`
	Description   string `validate:"max=4096"`
	FileName      string `validate:"required,max=255"`
	FileExtension string
	FileBase64    string `validate:"required"`
}

// AnalyzerUsecase defines the analyzer management operations.
type AnalyzerUsecase interface {
	// UpsertAnalyzer stores the decoded binary and upserts the metadata.
	// Learners may not upload analyzers. Publishes an analyzer-updated
	// event on success.
	UpsertAnalyzer(ctx context.Context, actor Actor, input *UpsertAnalyzerInput) (*entity.Analyzer, error)

	// GetAnalyzerByID retrieves one analyzer's metadata.
	GetAnalyzerByID(ctx context.Context, id int64) (*entity.Analyzer, error)

	// AllAnalyzers lists all analyzers.
	AllAnalyzers(ctx context.Context) ([]*entity.Analyzer, error)
}
