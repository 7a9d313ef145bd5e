package entity

import "time"

// SubmissionStatus tracks the lifecycle of a group's assignment copy.
type SubmissionStatus string

const (
	// StatusAssigned is the initial state after an assignment is handed to a group.
	StatusAssigned SubmissionStatus = "ASSIGNED"
	// StatusSubmitted is the state after a student has submitted work.
	StatusSubmitted SubmissionStatus = "SUBMITTED"
)

// Assignment is coursework attached to a course, optionally carrying file
// attachments that are replaced wholesale on every edit.
type Assignment struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"dueDate"`
	CourseID    int64         `json:"courseId"`
	Course      *Course       `json:"-"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

// Attachment is a file handed out with an assignment, carried inline as base64.
type Attachment struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Extension     string `json:"extension"`
	Size          int64  `json:"size"`
	ContentBase64 string `json:"attachmentBase64"`
	AssignmentID  int64  `json:"-"`
}

// StudentAssignment is one group's copy of an assignment: who assigned it,
// which group works on it, and the submission state.
type StudentAssignment struct {
	ID           int64            `json:"id"`
	AssignmentID int64            `json:"assignmentId"`
	Assignment   *Assignment      `json:"-"`
	AssignedFor  int64            `json:"assignedFor"` // Group ID.
	Group        *Group           `json:"-"`
	AssignedBy   int64            `json:"assignedBy"` // Instructor user ID.
	Instructor   *User            `json:"-"`
	Status       SubmissionStatus `json:"status"`
	URL          string           `json:"url,omitempty"`
	SubmitAt     *time.Time       `json:"submitAt,omitempty"`
}

// AssignmentQuestion is a review remark raised against a submission. An
// instructor can assign it back to the students with an overwritten text.
type AssignmentQuestion struct {
	ID                  int64              `json:"id"`
	StudentAssignmentID int64              `json:"studentAssignmentId"`
	Text                string             `json:"text"`
	OverwriteText       string             `json:"overwriteText,omitempty"`
	IsAssigned          bool               `json:"isAssigned"`
	ModifiedBy          *int64             `json:"modifiedBy,omitempty"`
	ModifiedOn          *time.Time         `json:"modifiedOn,omitempty"`
	Comments            []*QuestionComment `json:"comments,omitempty"`
}

// QuestionComment is a threaded remark below an assignment question.
type QuestionComment struct {
	ID                   int64     `json:"id"`
	Text                 string    `json:"text"`
	CreatedOn            time.Time `json:"createdOn"`
	CreatedBy            int64     `json:"createdBy"`
	Creator              *User     `json:"-"`
	AssignmentQuestionID int64     `json:"assignmentQuestionId"`
}
