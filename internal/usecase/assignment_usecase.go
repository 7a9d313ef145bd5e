package usecase

import (
	"context"
	"time"

	"classroom/internal/domain/entity"
)

// AttachmentInput is one file handed out with an assignment, content inline
// as base64.
type AttachmentInput struct {
	Name          string `validate:"required,max=255"`
	Extension     string
	Size          int64
	ContentBase64 string
}

// UpsertAssignmentInput creates an assignment when ID is nil, otherwise
// updates one. Attachments are replaced wholesale on every edit.
type UpsertAssignmentInput struct {
	ID          *int64
	Name        string    `validate:"required,max=255"`
	Description string    `validate:"max=4096"`
	DueDate     time.Time `validate:"required"`
	CourseID    int64     `validate:"required"`
	Attachments []*AttachmentInput
}

// AssignAssignmentInput hands an assignment to groups.
type AssignAssignmentInput struct {
	AssignmentID int64   `validate:"required"`
	GroupIDs     []int64 `validate:"required,min=1"`
}

// SubmitAssignmentInput marks a group's copy submitted.
type SubmitAssignmentInput struct {
	StudentAssignmentID int64  `validate:"required"`
	URL                 string `validate:"required,max=1024"`
}

// AssignQuestionInput hands a review question back to the students.
type AssignQuestionInput struct {
	QuestionID    int64 `validate:"required"`
	OverwriteText string
}

// PostCommentInput appends a comment to a question thread.
type PostCommentInput struct {
	QuestionID int64  `validate:"required"`
	Text       string `validate:"required"`
}

// AssignmentListFilter narrows assignment listings. Nil fields are ignored.
type AssignmentListFilter struct {
	AssignmentName *string
	CourseName     *string
	DueAfter       *time.Time
}

// AssignmentUsecase defines the assignment lifecycle operations: authoring,
// handing out to groups, submission and the review thread.
type AssignmentUsecase interface {
	// UpsertAssignment creates or updates an assignment. The caller must be
	// the course's instructor or an admin.
	UpsertAssignment(ctx context.Context, actor Actor, input *UpsertAssignmentInput) (*entity.Assignment, error)

	// AssignAssignment hands the assignment to groups not already holding it.
	AssignAssignment(ctx context.Context, actor Actor, input *AssignAssignmentInput) ([]*entity.StudentAssignment, error)

	// SubmitAssignment marks the group's copy submitted and publishes a
	// submission event for the analysis pipeline.
	SubmitAssignment(ctx context.Context, actor Actor, input *SubmitAssignmentInput) (*entity.StudentAssignment, error)

	// AssignQuestion marks a review question as assigned, optionally
	// overwriting its text. Instructor or admin only.
	AssignQuestion(ctx context.Context, actor Actor, input *AssignQuestionInput) (bool, error)

	// PostComment appends a comment to a question thread.
	PostComment(ctx context.Context, actor Actor, input *PostCommentInput) (*entity.QuestionComment, error)

	// GetAssignmentByID retrieves an assignment with attachments, course and
	// per-group copies.
	GetAssignmentByID(ctx context.Context, id int64) (*entity.Assignment, []*entity.StudentAssignment, error)

	// AllAssignments lists assignments matching the filter.
	AllAssignments(ctx context.Context, filter *AssignmentListFilter) ([]*entity.Assignment, error)

	// GetStudentAssignmentByID retrieves one group's copy.
	GetStudentAssignmentByID(ctx context.Context, id int64) (*entity.StudentAssignment, error)

	// AllStudentAssignments lists per-group copies matching the filter.
	AllStudentAssignments(ctx context.Context, filter *AssignmentListFilter) ([]*entity.StudentAssignment, error)

	// AllAssignmentQuestions lists a submission's review questions with
	// their comment threads.
	AllAssignmentQuestions(ctx context.Context, studentAssignmentID int64) ([]*entity.AssignmentQuestion, error)
}
