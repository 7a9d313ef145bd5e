package impl

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// analyzerService implements the AnalyzerUsecase interface. Binaries land in
// the blob bucket, metadata in the database.
type analyzerService struct {
	analyzerRepo repository.AnalyzerRepository
	store        service.BinaryStore
	publisher    service.EventPublisher
	guard        *service.Guard
	logger       *slog.Logger
}

// AnalyzerServiceParams holds dependencies for analyzerService, injected by Fx.
type AnalyzerServiceParams struct {
	fx.In

	AnalyzerRepo repository.AnalyzerRepository
	Store        service.BinaryStore
	Publisher    service.EventPublisher
	Guard        *service.Guard
	Logger       *slog.Logger
}

// NewAnalyzerService is the constructor for analyzerService.
func NewAnalyzerService(params AnalyzerServiceParams) usecase.AnalyzerUsecase {
	return &analyzerService{
		analyzerRepo: params.AnalyzerRepo,
		store:        params.Store,
		publisher:    params.Publisher,
		guard:        params.Guard,
		logger:       params.Logger,
	}
}

func (srv *analyzerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpsertAnalyzer stores the decoded binary and upserts the metadata.
// Learners may not upload analyzers. On replace, the previous object is
// deleted after the metadata write succeeds.
func (srv *analyzerService) UpsertAnalyzer(ctx context.Context, actor usecase.Actor, input *usecase.UpsertAnalyzerInput) (*entity.Analyzer, error) {
	if !srv.guard.CanUploadAnalyzer(actor.RoleID) {
		return nil, domainerrors.ErrPermissionDenied
	}

	binary, err := base64.StdEncoding.DecodeString(input.FileBase64)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("analyzer file is not valid base64")
	}

	analyzer := &entity.Analyzer{
		Name:          input.Name,
		Description:   input.Description,
		FileName:      input.FileName,
		FileExtension: input.FileExtension,
		FileSize:      int64(len(binary)),
		DeveloperID:   actor.UserID,
	}

	var previousKey string
	if input.ID != nil {
		existing, err := srv.analyzerRepo.FindByID(ctx, *input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrAnalyzerNotFound) {
				return nil, domainerrors.ErrAnalyzerNotFound
			}

			return nil, errors.Wrap(err, "failed to look up analyzer for update")
		}

		analyzer.ID = existing.ID
		analyzer.DeveloperID = existing.DeveloperID
		previousKey = existing.StorageKey
	}

	analyzer.StorageKey = analyzerObjectKey(input.FileExtension)
	if err := srv.store.Write(ctx, analyzer.StorageKey, binary); err != nil {
		srv.log(ctx).Error("Failed to store analyzer binary",
			slog.String("key", analyzer.StorageKey),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrAnalyzerWriteFailed
	}

	if err := srv.analyzerRepo.Upsert(ctx, analyzer); err != nil {
		// The metadata write failed, so the fresh object is orphaned. Clean it up.
		if delErr := srv.store.Delete(ctx, analyzer.StorageKey); delErr != nil {
			srv.log(ctx).Warn("Failed to clean up orphaned analyzer binary",
				slog.String("key", analyzer.StorageKey),
				slog.Any("error", delErr),
			)
		}

		return nil, err
	}

	if previousKey != "" && previousKey != analyzer.StorageKey {
		if err := srv.store.Delete(ctx, previousKey); err != nil {
			srv.log(ctx).Warn("Failed to delete replaced analyzer binary",
				slog.String("key", previousKey),
				slog.Any("error", err),
			)
		}
	}

	srv.log(ctx).Info("Analyzer upserted",
		slog.Int64("analyzerID", analyzer.ID),
		slog.Int64("by", actor.UserID),
	)

	srv.publishEvent(ctx, &service.CourseEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Kind:       service.EventAnalyzerUpdated,
		AnalyzerID: analyzer.ID,
		OccurredAt: time.Now().UTC(),
	})

	return srv.GetAnalyzerByID(ctx, analyzer.ID)
}

// GetAnalyzerByID retrieves one analyzer's metadata.
func (srv *analyzerService) GetAnalyzerByID(ctx context.Context, id int64) (*entity.Analyzer, error) {
	analyzer, err := srv.analyzerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnalyzerNotFound) {
			return nil, domainerrors.ErrAnalyzerNotFound
		}

		return nil, errors.Wrap(err, "failed to find analyzer")
	}

	return analyzer, nil
}

// AllAnalyzers lists all analyzers.
func (srv *analyzerService) AllAnalyzers(ctx context.Context) ([]*entity.Analyzer, error) {
	analyzers, err := srv.analyzerRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analyzers")
	}

	return analyzers, nil
}

func (srv *analyzerService) publishEvent(ctx context.Context, event *service.CourseEvent) {
	if err := srv.publisher.PublishCourseEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish course event",
			slog.String("kind", event.Kind),
			slog.Any("error", err),
		)
	}
}

// analyzerObjectKey builds a fresh bucket key so replaced binaries never
// overwrite each other mid-download.
func analyzerObjectKey(extension string) string {
	key := fmt.Sprintf("analyzers/%s", uuid.NewString())
	if extension != "" {
		key += "." + extension
	}

	return key
}
