package impl

import (
	"context"
	"log/slog"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// courseService implements the CourseUsecase interface.
type courseService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	groupRepo  repository.GroupRepository
	guard      *service.Guard
	logger     *slog.Logger
}

// CourseServiceParams holds dependencies for courseService, injected by Fx.
type CourseServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	CourseRepo repository.CourseRepository
	GroupRepo  repository.GroupRepository
	Guard      *service.Guard
	Logger     *slog.Logger
}

// NewCourseService is the constructor for courseService.
func NewCourseService(params CourseServiceParams) usecase.CourseUsecase {
	return &courseService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		courseRepo: params.CourseRepo,
		groupRepo:  params.GroupRepo,
		guard:      params.Guard,
		logger:     params.Logger,
	}
}

func (srv *courseService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpsertCourse creates or updates a course. Admin only; the named instructor
// must hold the instructor role. The name pre-check is best effort, the
// unique index on the courses table is the final arbiter.
func (srv *courseService) UpsertCourse(ctx context.Context, actor usecase.Actor, input *usecase.UpsertCourseInput) (*entity.CourseView, error) {
	if !srv.guard.CanManageCourses(actor.RoleID) {
		return nil, domainerrors.ErrPermissionDenied
	}

	course := &entity.Course{
		Name:         input.Name,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		InstructedBy: input.InstructedBy,
	}
	if input.ID != nil {
		course.ID = *input.ID
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		courseRepo := repoFactory.CourseRepo()

		if err := srv.ensureInstructor(ctx, userRepo, input.InstructedBy); err != nil {
			return err
		}

		if course.ID == 0 {
			if err := ensureCourseNameFree(ctx, courseRepo, input.Name); err != nil {
				return err
			}
		} else if _, err := courseRepo.FindByID(ctx, course.ID); err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				return domainerrors.ErrCourseNotFound
			}

			return errors.Wrap(err, "failed to look up course for update")
		}

		return courseRepo.Upsert(ctx, course)
	})
	if err != nil {
		srv.log(ctx).Warn("Course upsert rejected",
			slog.String("name", input.Name),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Course upserted",
		slog.Int64("courseID", course.ID),
		slog.Int64("by", actor.UserID),
	)

	return srv.GetCourseByID(ctx, course.ID)
}

// RegisterCourse enrolls the named students, all of whom must exist with the
// learner role. The whole batch is rejected when any student fails the check.
func (srv *courseService) RegisterCourse(ctx context.Context, actor usecase.Actor, input *usecase.RegisterCourseInput) (*entity.CourseView, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		courseRepo := repoFactory.CourseRepo()

		if _, err := courseRepo.FindByID(ctx, input.CourseID); err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				return domainerrors.ErrCourseNotFound
			}

			return errors.Wrap(err, "failed to look up course for registration")
		}

		if err := srv.ensureLearners(ctx, repoFactory.UserRepo(), input.StudentIDs); err != nil {
			return err
		}

		return courseRepo.Enroll(ctx, input.CourseID, input.StudentIDs)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Students enrolled",
		slog.Int64("courseID", input.CourseID),
		slog.Int("count", len(input.StudentIDs)),
		slog.Int64("by", actor.UserID),
	)

	return srv.GetCourseByID(ctx, input.CourseID)
}

// UnregisterCourse removes one student's enrollment.
func (srv *courseService) UnregisterCourse(ctx context.Context, actor usecase.Actor, input *usecase.UnregisterCourseInput) (bool, error) {
	if _, err := srv.courseRepo.FindByID(ctx, input.CourseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return false, domainerrors.ErrCourseNotFound
		}

		return false, errors.Wrap(err, "failed to look up course for unregistration")
	}

	if err := srv.courseRepo.Unenroll(ctx, input.CourseID, input.StudentID); err != nil {
		return false, err
	}

	srv.log(ctx).Info("Student unenrolled",
		slog.Int64("courseID", input.CourseID),
		slog.Int64("studentID", input.StudentID),
		slog.Int64("by", actor.UserID),
	)

	return true, nil
}

// RegisterGroup creates a group within a course. The students must be
// learners, and none of them may already sit in another group of the course.
func (srv *courseService) RegisterGroup(ctx context.Context, actor usecase.Actor, input *usecase.RegisterGroupInput) (*entity.GroupView, error) {
	group := &entity.Group{
		Name:     input.Name,
		CourseID: input.CourseID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		courseRepo := repoFactory.CourseRepo()
		groupRepo := repoFactory.GroupRepo()

		if err := ensureGroupNameFree(ctx, groupRepo, input.Name); err != nil {
			return err
		}

		if _, err := courseRepo.FindByID(ctx, input.CourseID); err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				return domainerrors.ErrCourseNotFound
			}

			return errors.Wrap(err, "failed to look up course for group")
		}

		if err := srv.ensureLearners(ctx, repoFactory.UserRepo(), input.StudentIDs); err != nil {
			return err
		}

		if err := ensureStudentsUngrouped(ctx, groupRepo, input.CourseID, input.StudentIDs); err != nil {
			return err
		}

		if err := groupRepo.Create(ctx, group); err != nil {
			return err
		}

		return groupRepo.AddStudents(ctx, group.ID, input.StudentIDs)
	})
	if err != nil {
		srv.log(ctx).Warn("Group registration rejected",
			slog.String("name", input.Name),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Group registered",
		slog.Int64("groupID", group.ID),
		slog.Int64("courseID", input.CourseID),
		slog.Int64("by", actor.UserID),
	)

	students, err := srv.userRepo.FindByIDsWithRole(ctx, input.StudentIDs, srv.guard.LearnerRoleID())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load group members")
	}
	group.Students = students

	return group.View(), nil
}

// GetCourseByID retrieves a course with its students and groups.
func (srv *courseService) GetCourseByID(ctx context.Context, id int64) (*entity.CourseView, error) {
	course, err := srv.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, domainerrors.ErrCourseNotFound
		}

		return nil, errors.Wrap(err, "failed to find course")
	}

	view := course.View()

	students, err := srv.courseRepo.ListStudents(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load course students")
	}
	for _, student := range students {
		view.Students = append(view.Students, student.Public())
	}

	groups, err := srv.groupRepo.ListByCourse(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load course groups")
	}
	for _, group := range groups {
		view.Groups = append(view.Groups, group.View())
	}

	return view, nil
}

// AllCourses lists courses, optionally filtered by instructor.
func (srv *courseService) AllCourses(ctx context.Context, filter *usecase.CourseListFilter) ([]*entity.CourseView, error) {
	var repoFilter *repository.CourseListFilter
	if filter != nil {
		repoFilter = &repository.CourseListFilter{InstructedBy: filter.InstructedBy}
	}

	courses, err := srv.courseRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list courses")
	}

	views := make([]*entity.CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, course.View())
	}

	return views, nil
}

// ensureInstructor verifies the named user exists and holds the instructor role.
func (srv *courseService) ensureInstructor(ctx context.Context, userRepo repository.UserRepository, userID int64) error {
	instructor, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to look up instructor")
	}
	if !srv.guard.IsInstructorRole(instructor.RoleID) {
		return domainerrors.ErrNotInstructor
	}

	return nil
}

// ensureLearners verifies every named student exists with the learner role.
func (srv *courseService) ensureLearners(ctx context.Context, userRepo repository.UserRepository, studentIDs []int64) error {
	learners, err := userRepo.FindByIDsWithRole(ctx, studentIDs, srv.guard.LearnerRoleID())
	if err != nil {
		return errors.Wrap(err, "failed to look up students")
	}
	if len(learners) != len(uniqueIDs(studentIDs)) {
		return domainerrors.ErrStudentsNotFound
	}

	return nil
}

func ensureCourseNameFree(ctx context.Context, courseRepo repository.CourseRepository, name string) error {
	_, err := courseRepo.FindByName(ctx, name)
	if err == nil {
		return domainerrors.ErrCourseNameTaken
	}
	if !errors.Is(err, repository.ErrCourseNotFound) {
		return errors.Wrap(err, "failed to check course name uniqueness")
	}

	return nil
}

func ensureGroupNameFree(ctx context.Context, groupRepo repository.GroupRepository, name string) error {
	_, err := groupRepo.FindByName(ctx, name)
	if err == nil {
		return domainerrors.ErrGroupNameTaken
	}
	if !errors.Is(err, repository.ErrGroupNotFound) {
		return errors.Wrap(err, "failed to check group name uniqueness")
	}

	return nil
}

// ensureStudentsUngrouped rejects students already sitting in another group
// of the same course.
func ensureStudentsUngrouped(ctx context.Context, groupRepo repository.GroupRepository, courseID int64, studentIDs []int64) error {
	groups, err := groupRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return errors.Wrap(err, "failed to load course groups")
	}

	grouped := make(map[int64]struct{})
	for _, group := range groups {
		for _, member := range group.Students {
			grouped[member.ID] = struct{}{}
		}
	}

	for _, studentID := range studentIDs {
		if _, ok := grouped[studentID]; ok {
			return domainerrors.ErrValidationFailed.WrapMessage("some students already belong to a group of this course")
		}
	}

	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
