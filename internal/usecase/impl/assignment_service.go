package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// assignmentService implements the AssignmentUsecase interface.
type assignmentService struct {
	txManager      repository.TransactionManager
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	guard          *service.Guard
	publisher      service.EventPublisher
	logger         *slog.Logger
}

// AssignmentServiceParams holds dependencies for assignmentService, injected by Fx.
type AssignmentServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	AssignmentRepo repository.AssignmentRepository
	CourseRepo     repository.CourseRepository
	Guard          *service.Guard
	Publisher      service.EventPublisher
	Logger         *slog.Logger
}

// NewAssignmentService is the constructor for assignmentService.
func NewAssignmentService(params AssignmentServiceParams) usecase.AssignmentUsecase {
	return &assignmentService{
		txManager:      params.TxManager,
		assignmentRepo: params.AssignmentRepo,
		courseRepo:     params.CourseRepo,
		guard:          params.Guard,
		publisher:      params.Publisher,
		logger:         params.Logger,
	}
}

func (srv *assignmentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpsertAssignment creates or updates an assignment. The caller must be the
// course's instructor or an admin. Attachments are replaced wholesale.
func (srv *assignmentService) UpsertAssignment(ctx context.Context, actor usecase.Actor, input *usecase.UpsertAssignmentInput) (*entity.Assignment, error) {
	course, err := srv.courseRepo.FindByID(ctx, input.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, domainerrors.ErrCourseNotFound
		}

		return nil, errors.Wrap(err, "failed to look up course for assignment")
	}

	if !srv.guard.CanEditAssignment(actor.UserID, actor.RoleID, course.InstructedBy) {
		return nil, domainerrors.ErrPermissionDenied
	}

	assignment := &entity.Assignment{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
		CourseID:    input.CourseID,
	}
	if input.ID != nil {
		assignment.ID = *input.ID
	}

	attachments := make([]*entity.Attachment, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		attachments = append(attachments, &entity.Attachment{
			Name:          att.Name,
			Extension:     att.Extension,
			Size:          att.Size,
			ContentBase64: att.ContentBase64,
		})
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		assignmentRepo := repoFactory.AssignmentRepo()

		if assignment.ID != 0 {
			if _, err := assignmentRepo.FindByID(ctx, assignment.ID); err != nil {
				if errors.Is(err, repository.ErrAssignmentNotFound) {
					return domainerrors.ErrAssignmentNotFound
				}

				return errors.Wrap(err, "failed to look up assignment for update")
			}
		}

		if err := assignmentRepo.Upsert(ctx, assignment); err != nil {
			return err
		}

		return assignmentRepo.ReplaceAttachments(ctx, assignment.ID, attachments)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Assignment upserted",
		slog.Int64("assignmentID", assignment.ID),
		slog.Int64("by", actor.UserID),
	)

	full, err := srv.assignmentRepo.FindByID(ctx, assignment.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload assignment")
	}

	return full, nil
}

// AssignAssignment hands the assignment to groups. Groups already holding a
// copy reject the whole batch.
func (srv *assignmentService) AssignAssignment(ctx context.Context, actor usecase.Actor, input *usecase.AssignAssignmentInput) ([]*entity.StudentAssignment, error) {
	items := make([]*entity.StudentAssignment, 0, len(input.GroupIDs))
	for _, groupID := range uniqueIDs(input.GroupIDs) {
		items = append(items, &entity.StudentAssignment{
			AssignmentID: input.AssignmentID,
			AssignedFor:  groupID,
			AssignedBy:   actor.UserID,
			Status:       entity.StatusAssigned,
		})
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		assignmentRepo := repoFactory.AssignmentRepo()

		if _, err := assignmentRepo.FindByID(ctx, input.AssignmentID); err != nil {
			if errors.Is(err, repository.ErrAssignmentNotFound) {
				return domainerrors.ErrAssignmentNotFound
			}

			return errors.Wrap(err, "failed to look up assignment")
		}

		existing, err := assignmentRepo.FindStudentAssignmentsByGroups(ctx, input.AssignmentID, input.GroupIDs)
		if err != nil {
			return errors.Wrap(err, "failed to check existing group assignments")
		}
		if len(existing) > 0 {
			return domainerrors.ErrGroupAlreadyAssigned
		}

		return assignmentRepo.CreateStudentAssignments(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Assignment handed to groups",
		slog.Int64("assignmentID", input.AssignmentID),
		slog.Int("groups", len(items)),
		slog.Int64("by", actor.UserID),
	)

	return items, nil
}

// SubmitAssignment marks the group's copy submitted and hands a submission
// event to the analysis pipeline.
func (srv *assignmentService) SubmitAssignment(ctx context.Context, actor usecase.Actor, input *usecase.SubmitAssignmentInput) (*entity.StudentAssignment, error) {
	if _, err := srv.assignmentRepo.FindStudentAssignmentByID(ctx, input.StudentAssignmentID); err != nil {
		if errors.Is(err, repository.ErrStudentAssignmentNotFound) {
			return nil, domainerrors.ErrAssignmentNotFound
		}

		return nil, errors.Wrap(err, "failed to look up student assignment")
	}

	now := time.Now().UTC()
	if err := srv.assignmentRepo.Submit(ctx, input.StudentAssignmentID, input.URL, now); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Assignment submitted",
		slog.Int64("studentAssignmentID", input.StudentAssignmentID),
		slog.Int64("by", actor.UserID),
	)

	srv.publishEvent(ctx, &service.CourseEvent{
		RequestID:           deliverycontext.GetRequestIDFromContext(ctx),
		Kind:                service.EventSubmissionReceived,
		StudentAssignmentID: input.StudentAssignmentID,
		SubmissionURL:       input.URL,
		OccurredAt:          now,
	})

	return srv.GetStudentAssignmentByID(ctx, input.StudentAssignmentID)
}

// AssignQuestion marks a review question as assigned, optionally overwriting
// its text. Learners cannot assign questions.
func (srv *assignmentService) AssignQuestion(ctx context.Context, actor usecase.Actor, input *usecase.AssignQuestionInput) (bool, error) {
	if srv.guard.IsLearnerRole(actor.RoleID) {
		return false, domainerrors.ErrPermissionDenied
	}

	now := time.Now().UTC()
	err := srv.assignmentRepo.AssignQuestion(ctx, input.QuestionID, input.OverwriteText, actor.UserID, now)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return false, domainerrors.ErrNotFound
		}

		return false, err
	}

	srv.log(ctx).Info("Question assigned",
		slog.Int64("questionID", input.QuestionID),
		slog.Int64("by", actor.UserID),
	)

	return true, nil
}

// PostComment appends a comment to a question thread.
func (srv *assignmentService) PostComment(ctx context.Context, actor usecase.Actor, input *usecase.PostCommentInput) (*entity.QuestionComment, error) {
	comment := &entity.QuestionComment{
		Text:                 input.Text,
		CreatedOn:            time.Now().UTC(),
		CreatedBy:            actor.UserID,
		AssignmentQuestionID: input.QuestionID,
	}

	if err := srv.assignmentRepo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, err
	}

	return comment, nil
}

// GetAssignmentByID retrieves an assignment with attachments, course and all
// per-group copies.
func (srv *assignmentService) GetAssignmentByID(ctx context.Context, id int64) (*entity.Assignment, []*entity.StudentAssignment, error) {
	assignment, err := srv.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return nil, nil, domainerrors.ErrAssignmentNotFound
		}

		return nil, nil, errors.Wrap(err, "failed to find assignment")
	}

	copies, err := srv.assignmentRepo.ListStudentAssignmentsForAssignment(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load group copies")
	}

	return assignment, copies, nil
}

// AllAssignments lists assignments matching the filter.
func (srv *assignmentService) AllAssignments(ctx context.Context, filter *usecase.AssignmentListFilter) ([]*entity.Assignment, error) {
	assignments, err := srv.assignmentRepo.List(ctx, toAssignmentRepoFilter(filter))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignments")
	}

	return assignments, nil
}

// GetStudentAssignmentByID retrieves one group's copy.
func (srv *assignmentService) GetStudentAssignmentByID(ctx context.Context, id int64) (*entity.StudentAssignment, error) {
	item, err := srv.assignmentRepo.FindStudentAssignmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentAssignmentNotFound) {
			return nil, domainerrors.ErrAssignmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find student assignment")
	}

	return item, nil
}

// AllStudentAssignments lists per-group copies matching the filter.
func (srv *assignmentService) AllStudentAssignments(ctx context.Context, filter *usecase.AssignmentListFilter) ([]*entity.StudentAssignment, error) {
	items, err := srv.assignmentRepo.ListStudentAssignments(ctx, toAssignmentRepoFilter(filter))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student assignments")
	}

	return items, nil
}

// AllAssignmentQuestions lists a submission's review questions with threads.
func (srv *assignmentService) AllAssignmentQuestions(ctx context.Context, studentAssignmentID int64) ([]*entity.AssignmentQuestion, error) {
	questions, err := srv.assignmentRepo.ListQuestions(ctx, studentAssignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignment questions")
	}

	return questions, nil
}

// publishEvent hands an event to the pipeline. Publishing is best effort, a
// broker failure never rolls back the write that triggered it.
func (srv *assignmentService) publishEvent(ctx context.Context, event *service.CourseEvent) {
	if err := srv.publisher.PublishCourseEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish course event",
			slog.String("kind", event.Kind),
			slog.Any("error", err),
		)
	}
}

func toAssignmentRepoFilter(filter *usecase.AssignmentListFilter) *repository.AssignmentListFilter {
	if filter == nil {
		return nil
	}

	return &repository.AssignmentListFilter{
		AssignmentName: filter.AssignmentName,
		CourseName:     filter.CourseName,
		DueAfter:       filter.DueAfter,
	}
}
