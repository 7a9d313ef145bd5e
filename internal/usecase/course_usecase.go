package usecase

import (
	"context"
	"time"

	"classroom/internal/domain/entity"
)

// UpsertCourseInput creates a course when ID is nil, otherwise updates one.
type UpsertCourseInput struct {
	ID           *int64
	Name         string    `validate:"required,max=255"`
	Description  string    `validate:"max=4096"`
	StartDate    time.Time `validate:"required"`
	EndDate      time.Time `validate:"required"`
	InstructedBy int64     `validate:"required"`
}

// RegisterCourseInput enrolls students on a course.
type RegisterCourseInput struct {
	CourseID   int64   `validate:"required"`
	StudentIDs []int64 `validate:"required,min=1"`
}

// UnregisterCourseInput removes one student's enrollment.
type UnregisterCourseInput struct {
	CourseID  int64 `validate:"required"`
	StudentID int64 `validate:"required"`
}

// RegisterGroupInput creates a group within a course and fills it with
// enrolled students.
type RegisterGroupInput struct {
	CourseID   int64   `validate:"required"`
	Name       string  `validate:"required,max=255"`
	StudentIDs []int64 `validate:"required,min=1"`
}

// CourseListFilter narrows allCourse results. Nil fields are ignored.
type CourseListFilter struct {
	InstructedBy *int64
}

// CourseUsecase defines the course and group management operations.
type CourseUsecase interface {
	// UpsertCourse creates or updates a course. Admin only; the named
	// instructor must hold the instructor role.
	UpsertCourse(ctx context.Context, actor Actor, input *UpsertCourseInput) (*entity.CourseView, error)

	// RegisterCourse enrolls the named students. All of them must exist and
	// hold the learner role.
	RegisterCourse(ctx context.Context, actor Actor, input *RegisterCourseInput) (*entity.CourseView, error)

	// UnregisterCourse removes one student's enrollment.
	UnregisterCourse(ctx context.Context, actor Actor, input *UnregisterCourseInput) (bool, error)

	// RegisterGroup creates a group and adds the named students, who must be
	// learners not already grouped within the course.
	RegisterGroup(ctx context.Context, actor Actor, input *RegisterGroupInput) (*entity.GroupView, error)

	// GetCourseByID retrieves a course with its students and groups.
	GetCourseByID(ctx context.Context, id int64) (*entity.CourseView, error)

	// AllCourses lists courses, optionally filtered by instructor.
	AllCourses(ctx context.Context, filter *CourseListFilter) ([]*entity.CourseView, error)
}
