package repository

import (
	"context"
	"errors"
	"time"

	"classroom/internal/domain/entity"
)

// Domain-specific errors for assignment persistence.
var (
	// ErrAssignmentNotFound is returned when an assignment is not found.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrStudentAssignmentNotFound is returned when a student assignment is not found.
	ErrStudentAssignmentNotFound = errors.New("student assignment not found")
	// ErrQuestionNotFound is returned when an assignment question is not found.
	ErrQuestionNotFound = errors.New("assignment question not found")
)

// AssignmentListFilter narrows assignment listings. Nil fields are ignored.
// Name filters are substring matches; DueAfter keeps assignments due on or
// after the given time.
type AssignmentListFilter struct {
	AssignmentName *string
	CourseName     *string
	DueAfter       *time.Time
}

// AssignmentRepository defines the operations for assignments, their
// per-group copies, and the question/comment thread below submissions.
type AssignmentRepository interface {
	// FindByID retrieves an assignment with course, instructor and attachments loaded.
	FindByID(ctx context.Context, id int64) (*entity.Assignment, error)

	// List retrieves assignments ordered by name with courses loaded.
	List(ctx context.Context, filter *AssignmentListFilter) ([]*entity.Assignment, error)

	// Upsert creates the assignment when ID is zero, otherwise updates it.
	Upsert(ctx context.Context, assignment *entity.Assignment) error

	// ReplaceAttachments deletes the assignment's attachments and writes the
	// given set in their place.
	ReplaceAttachments(ctx context.Context, assignmentID int64, attachments []*entity.Attachment) error

	// CreateStudentAssignments hands an assignment to one or more groups.
	CreateStudentAssignments(ctx context.Context, items []*entity.StudentAssignment) error

	// FindStudentAssignmentsByGroups retrieves the existing copies of an
	// assignment for any of the given groups.
	FindStudentAssignmentsByGroups(ctx context.Context, assignmentID int64, groupIDs []int64) ([]*entity.StudentAssignment, error)

	// FindStudentAssignmentByID retrieves a student assignment with its
	// assignment, course and assigning instructor loaded.
	FindStudentAssignmentByID(ctx context.Context, id int64) (*entity.StudentAssignment, error)

	// ListStudentAssignments retrieves student assignments ordered by status.
	ListStudentAssignments(ctx context.Context, filter *AssignmentListFilter) ([]*entity.StudentAssignment, error)

	// ListStudentAssignmentsForAssignment retrieves all per-group copies of
	// one assignment with their groups and members loaded.
	ListStudentAssignmentsForAssignment(ctx context.Context, assignmentID int64) ([]*entity.StudentAssignment, error)

	// Submit marks a student assignment submitted with the given artifact URL.
	Submit(ctx context.Context, id int64, url string, at time.Time) error

	// AssignQuestion marks a question as assigned with an optional overwrite text.
	AssignQuestion(ctx context.Context, questionID int64, overwriteText string, modifiedBy int64, at time.Time) error

	// CreateComment appends a comment to a question thread.
	CreateComment(ctx context.Context, comment *entity.QuestionComment) error

	// ListQuestions retrieves the questions of a student assignment with
	// their comment threads loaded.
	ListQuestions(ctx context.Context, studentAssignmentID int64) ([]*entity.AssignmentQuestion, error)
}
