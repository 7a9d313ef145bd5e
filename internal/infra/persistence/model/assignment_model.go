package model

import "time"

// AssignmentModel mirrors the 'assignments' table.
type AssignmentModel struct {
	ID          int64                        `gorm:"primaryKey;autoIncrement"`
	Name        string                       `gorm:"type:varchar(255);not null"`
	Description string                       `gorm:"type:text"`
	DueDate     time.Time                    `gorm:"not null"`
	CourseID    int64                        `gorm:"not null"`
	Course      *CourseModel                 `gorm:"foreignKey:CourseID"`
	Attachments []*AssignmentAttachmentModel `gorm:"foreignKey:AssignmentID"`
}

// TableName explicitly sets the table name for GORM.
func (AssignmentModel) TableName() string {
	return "assignments"
}

// AssignmentAttachmentModel mirrors the 'assignment_attachments' table.
// Attachment content is carried inline as base64.
type AssignmentAttachmentModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Name             string `gorm:"type:varchar(255);not null"`
	Extension        string `gorm:"type:varchar(50)"`
	Size             int64
	AttachmentBase64 string `gorm:"type:text"`
	AssignmentID     int64  `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AssignmentAttachmentModel) TableName() string {
	return "assignment_attachments"
}

// StudentAssignmentModel mirrors the 'student_assignments' table: one row per
// group per assignment.
type StudentAssignmentModel struct {
	ID           int64            `gorm:"primaryKey;autoIncrement"`
	AssignmentID int64            `gorm:"not null;index"`
	Assignment   *AssignmentModel `gorm:"foreignKey:AssignmentID"`
	AssignedFor  int64            `gorm:"not null"`
	Group        *GroupModel      `gorm:"foreignKey:AssignedFor"`
	AssignedBy   int64            `gorm:"not null"`
	Instructor   *UserModel       `gorm:"foreignKey:AssignedBy"`
	Status       string           `gorm:"type:varchar(20);not null;default:ASSIGNED"`
	URL          string           `gorm:"type:varchar(1024)"`
	SubmitAt     *time.Time
}

// TableName explicitly sets the table name for GORM.
func (StudentAssignmentModel) TableName() string {
	return "student_assignments"
}

// AssignmentQuestionModel mirrors the 'assignment_questions' table.
type AssignmentQuestionModel struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement"`
	StudentAssignmentID int64  `gorm:"not null;index"`
	Text                string `gorm:"type:text;not null"`
	OverwriteText       string `gorm:"type:text"`
	IsAssigned          bool   `gorm:"not null;default:false"`
	ModifiedBy          *int64
	ModifiedOn          *time.Time
	Comments            []*QuestionCommentModel `gorm:"foreignKey:AssignmentQuestionID"`
}

// TableName explicitly sets the table name for GORM.
func (AssignmentQuestionModel) TableName() string {
	return "assignment_questions"
}

// QuestionCommentModel mirrors the 'question_comments' table.
type QuestionCommentModel struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	Text                 string    `gorm:"type:text;not null"`
	CreatedOn            time.Time `gorm:"not null"`
	CreatedBy            int64     `gorm:"not null"`
	Creator              *UserModel `gorm:"foreignKey:CreatedBy"`
	AssignmentQuestionID int64     `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (QuestionCommentModel) TableName() string {
	return "question_comments"
}
