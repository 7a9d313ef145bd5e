package repository

import (
	"context"
	"errors"

	"classroom/internal/domain/entity"
)

// Domain-specific errors for course and group persistence.
var (
	// ErrCourseNotFound is returned when a course is not found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
)

// CourseListFilter narrows List results. Nil fields are ignored.
type CourseListFilter struct {
	InstructedBy *int64
}

// CourseRepository defines the operations for course persistence and
// student enrollment.
type CourseRepository interface {
	// FindByID retrieves a course with its instructor loaded.
	FindByID(ctx context.Context, id int64) (*entity.Course, error)

	// FindByName retrieves a course by its unique name.
	FindByName(ctx context.Context, name string) (*entity.Course, error)

	// List retrieves courses ordered by name, optionally filtered by instructor.
	List(ctx context.Context, filter *CourseListFilter) ([]*entity.Course, error)

	// Upsert creates the course when ID is zero, otherwise updates it.
	Upsert(ctx context.Context, course *entity.Course) error

	// Enroll registers the students on the course.
	Enroll(ctx context.Context, courseID int64, studentIDs []int64) error

	// Unenroll removes a student's course registration.
	Unenroll(ctx context.Context, courseID, studentID int64) error

	// ListStudents retrieves the users enrolled in the course.
	ListStudents(ctx context.Context, courseID int64) ([]*entity.User, error)
}

// GroupRepository defines the operations for group persistence and membership.
type GroupRepository interface {
	// FindByName retrieves a group by its unique name.
	FindByName(ctx context.Context, name string) (*entity.Group, error)

	// Create persists a new group.
	Create(ctx context.Context, group *entity.Group) error

	// AddStudents registers the students as members of the group.
	AddStudents(ctx context.Context, groupID int64, studentIDs []int64) error

	// ListByCourse retrieves the course's groups with their members loaded.
	ListByCourse(ctx context.Context, courseID int64) ([]*entity.Group, error)
}
