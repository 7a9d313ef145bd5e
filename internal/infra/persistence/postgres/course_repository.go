package postgres

import (
	"context"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courseRepository implements the domain.CourseRepository interface using GORM.
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository is the constructor for courseRepository.
func NewCourseRepository(db *gorm.DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

// FindByID retrieves a course with its instructor loaded.
func (repo *courseRepository) FindByID(ctx context.Context, id int64) (*entity.Course, error) {
	var courseM model.CourseModel
	err := repo.db.WithContext(ctx).
		Preload("Instructor.Role").
		First(&courseM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCourseNotFound
		}

		return nil, errors.Wrap(err, "failed to find course by id")
	}

	return toCourseDomain(&courseM), nil
}

// FindByName retrieves a course by its unique name.
func (repo *courseRepository) FindByName(ctx context.Context, name string) (*entity.Course, error) {
	var courseM model.CourseModel
	err := repo.db.WithContext(ctx).
		Preload("Instructor.Role").
		First(&courseM, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCourseNotFound
		}

		return nil, errors.Wrap(err, "failed to find course by name")
	}

	return toCourseDomain(&courseM), nil
}

// List retrieves courses ordered by name, optionally filtered by instructor.
func (repo *courseRepository) List(ctx context.Context, filter *repository.CourseListFilter) ([]*entity.Course, error) {
	tx := repo.db.WithContext(ctx).Preload("Instructor.Role").Order("name")
	if filter != nil && filter.InstructedBy != nil {
		tx = tx.Where("instructed_by = ?", *filter.InstructedBy)
	}

	var courseMs []*model.CourseModel
	if err := tx.Find(&courseMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list courses")
	}

	courses := make([]*entity.Course, 0, len(courseMs))
	for _, courseM := range courseMs {
		courses = append(courses, toCourseDomain(courseM))
	}

	return courses, nil
}

// Upsert creates the course when ID is zero, otherwise updates it. The unique
// index on name is the final arbiter of the service-layer pre-check.
func (repo *courseRepository) Upsert(ctx context.Context, course *entity.Course) error {
	courseM := fromCourseDomain(course)

	var err error
	if courseM.ID == 0 {
		err = repo.db.WithContext(ctx).Create(courseM).Error
	} else {
		err = repo.db.WithContext(ctx).
			Model(&model.CourseModel{}).
			Where("id = ?", courseM.ID).
			Updates(map[string]any{
				"name":          courseM.Name,
				"description":   courseM.Description,
				"start_date":    courseM.StartDate,
				"end_date":      courseM.EndDate,
				"instructed_by": courseM.InstructedBy,
			}).Error
	}
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCourseNameTaken
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert course")
	}

	course.ID = courseM.ID

	return nil
}

// Enroll registers the students on the course. Re-enrolling an already
// enrolled student is a no-op.
func (repo *courseRepository) Enroll(ctx context.Context, courseID int64, studentIDs []int64) error {
	if len(studentIDs) == 0 {
		return nil
	}

	rows := make([]*model.StudentCourseModel, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		rows = append(rows, &model.StudentCourseModel{
			StudentID: studentID,
			CourseID:  courseID,
		})
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStudentsNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to enroll students")
	}

	return nil
}

// Unenroll removes a student's course registration.
func (repo *courseRepository) Unenroll(ctx context.Context, courseID, studentID int64) error {
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&model.StudentCourseModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unenroll student")
	}

	return nil
}

// ListStudents retrieves the users enrolled in the course.
func (repo *courseRepository) ListStudents(ctx context.Context, courseID int64) ([]*entity.User, error) {
	var userMs []*model.UserModel
	err := repo.db.WithContext(ctx).
		Joins("JOIN student_courses sc ON sc.student_id = users.id").
		Where("sc.course_id = ?", courseID).
		Order("users.username").
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list course students")
	}

	return toUserDomains(userMs), nil
}

// groupRepository implements the domain.GroupRepository interface using GORM.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository is the constructor for groupRepository.
func NewGroupRepository(db *gorm.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

// FindByName retrieves a group by its unique name.
func (repo *groupRepository) FindByName(ctx context.Context, name string) (*entity.Group, error) {
	var groupM model.GroupModel
	err := repo.db.WithContext(ctx).
		First(&groupM, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, errors.Wrap(err, "failed to find group by name")
	}

	return toGroupDomain(&groupM), nil
}

// Create persists a new group.
func (repo *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	groupM := &model.GroupModel{
		Name:     group.Name,
		CourseID: group.CourseID,
	}

	if err := repo.db.WithContext(ctx).Create(groupM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrGroupNameTaken
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCourseNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create group")
	}

	group.ID = groupM.ID

	return nil
}

// AddStudents registers the students as members of the group.
func (repo *groupRepository) AddStudents(ctx context.Context, groupID int64, studentIDs []int64) error {
	if len(studentIDs) == 0 {
		return nil
	}

	rows := make([]*model.StudentGroupModel, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		rows = append(rows, &model.StudentGroupModel{
			StudentID: studentID,
			GroupID:   groupID,
		})
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStudentsNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add group members")
	}

	return nil
}

// ListByCourse retrieves the course's groups with their members loaded.
func (repo *groupRepository) ListByCourse(ctx context.Context, courseID int64) ([]*entity.Group, error) {
	var groupMs []*model.GroupModel
	err := repo.db.WithContext(ctx).
		Preload("Members.Student.Role").
		Where("course_id = ?", courseID).
		Order("name").
		Find(&groupMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list course groups")
	}

	groups := make([]*entity.Group, 0, len(groupMs))
	for _, groupM := range groupMs {
		groups = append(groups, toGroupDomain(groupM))
	}

	return groups, nil
}
