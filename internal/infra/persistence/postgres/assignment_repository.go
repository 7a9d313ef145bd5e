package postgres

import (
	"context"
	"time"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// assignmentRepository implements the domain.AssignmentRepository interface using GORM.
type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository is the constructor for assignmentRepository.
func NewAssignmentRepository(db *gorm.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

// FindByID retrieves an assignment with course, instructor and attachments loaded.
func (repo *assignmentRepository) FindByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	var assignmentM model.AssignmentModel
	err := repo.db.WithContext(ctx).
		Preload("Course.Instructor.Role").
		Preload("Attachments").
		First(&assignmentM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAssignmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find assignment by id")
	}

	return toAssignmentDomain(&assignmentM), nil
}

// List retrieves assignments ordered by name with courses loaded.
func (repo *assignmentRepository) List(ctx context.Context, filter *repository.AssignmentListFilter) ([]*entity.Assignment, error) {
	tx := repo.db.WithContext(ctx).
		Preload("Course.Instructor.Role").
		Order("assignments.name")
	tx = applyAssignmentFilter(tx, filter, "assignments")

	var assignmentMs []*model.AssignmentModel
	if err := tx.Find(&assignmentMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list assignments")
	}

	assignments := make([]*entity.Assignment, 0, len(assignmentMs))
	for _, assignmentM := range assignmentMs {
		assignments = append(assignments, toAssignmentDomain(assignmentM))
	}

	return assignments, nil
}

// Upsert creates the assignment when ID is zero, otherwise updates it.
func (repo *assignmentRepository) Upsert(ctx context.Context, assignment *entity.Assignment) error {
	assignmentM := fromAssignmentDomain(assignment)

	var err error
	if assignmentM.ID == 0 {
		err = repo.db.WithContext(ctx).Create(assignmentM).Error
	} else {
		err = repo.db.WithContext(ctx).
			Model(&model.AssignmentModel{}).
			Where("id = ?", assignmentM.ID).
			Updates(map[string]any{
				"name":        assignmentM.Name,
				"description": assignmentM.Description,
				"due_date":    assignmentM.DueDate,
				"course_id":   assignmentM.CourseID,
			}).Error
	}
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCourseNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert assignment")
	}

	assignment.ID = assignmentM.ID

	return nil
}

// ReplaceAttachments deletes the assignment's attachments and writes the
// given set in their place. Attachments are replaced wholesale on every edit.
func (repo *assignmentRepository) ReplaceAttachments(ctx context.Context, assignmentID int64, attachments []*entity.Attachment) error {
	err := repo.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&model.AssignmentAttachmentModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete attachments")
	}

	if len(attachments) == 0 {
		return nil
	}

	rows := make([]*model.AssignmentAttachmentModel, 0, len(attachments))
	for _, att := range attachments {
		rows = append(rows, &model.AssignmentAttachmentModel{
			Name:             att.Name,
			Extension:        att.Extension,
			Size:             att.Size,
			AttachmentBase64: att.ContentBase64,
			AssignmentID:     assignmentID,
		})
	}

	if err := repo.db.WithContext(ctx).Create(rows).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create attachments")
	}

	return nil
}

// CreateStudentAssignments hands an assignment to one or more groups.
func (repo *assignmentRepository) CreateStudentAssignments(ctx context.Context, items []*entity.StudentAssignment) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]*model.StudentAssignmentModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, &model.StudentAssignmentModel{
			AssignmentID: item.AssignmentID,
			AssignedFor:  item.AssignedFor,
			AssignedBy:   item.AssignedBy,
			Status:       string(item.Status),
		})
	}

	if err := repo.db.WithContext(ctx).Create(rows).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create student assignments")
	}

	for i, row := range rows {
		items[i].ID = row.ID
	}

	return nil
}

// FindStudentAssignmentsByGroups retrieves the existing copies of an
// assignment for any of the given groups.
func (repo *assignmentRepository) FindStudentAssignmentsByGroups(ctx context.Context, assignmentID int64, groupIDs []int64) ([]*entity.StudentAssignment, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	var saMs []*model.StudentAssignmentModel
	err := repo.db.WithContext(ctx).
		Where("assignment_id = ? AND assigned_for IN ?", assignmentID, groupIDs).
		Find(&saMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find student assignments by groups")
	}

	return toStudentAssignmentDomains(saMs), nil
}

// FindStudentAssignmentByID retrieves a student assignment with its
// assignment, course and assigning instructor loaded.
func (repo *assignmentRepository) FindStudentAssignmentByID(ctx context.Context, id int64) (*entity.StudentAssignment, error) {
	var saM model.StudentAssignmentModel
	err := repo.db.WithContext(ctx).
		Preload("Assignment.Course").
		Preload("Assignment.Attachments").
		Preload("Group.Members.Student.Role").
		Preload("Instructor.Role").
		First(&saM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStudentAssignmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find student assignment by id")
	}

	return toStudentAssignmentDomain(&saM), nil
}

// ListStudentAssignments retrieves student assignments ordered by status, so
// open work sorts ahead of submitted work.
func (repo *assignmentRepository) ListStudentAssignments(ctx context.Context, filter *repository.AssignmentListFilter) ([]*entity.StudentAssignment, error) {
	tx := repo.db.WithContext(ctx).
		Preload("Assignment.Course").
		Preload("Group.Members.Student.Role").
		Preload("Instructor.Role").
		Joins("JOIN assignments ON assignments.id = student_assignments.assignment_id").
		Order("student_assignments.status")
	tx = applyAssignmentFilter(tx, filter, "assignments")

	var saMs []*model.StudentAssignmentModel
	if err := tx.Find(&saMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list student assignments")
	}

	return toStudentAssignmentDomains(saMs), nil
}

// ListStudentAssignmentsForAssignment retrieves all per-group copies of one
// assignment with their groups and members loaded.
func (repo *assignmentRepository) ListStudentAssignmentsForAssignment(ctx context.Context, assignmentID int64) ([]*entity.StudentAssignment, error) {
	var saMs []*model.StudentAssignmentModel
	err := repo.db.WithContext(ctx).
		Preload("Group.Members.Student.Role").
		Preload("Instructor.Role").
		Where("assignment_id = ?", assignmentID).
		Find(&saMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student assignments for assignment")
	}

	return toStudentAssignmentDomains(saMs), nil
}

// Submit marks a student assignment submitted with the given artifact URL.
func (repo *assignmentRepository) Submit(ctx context.Context, id int64, url string, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.StudentAssignmentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    string(entity.StatusSubmitted),
			"url":       url,
			"submit_at": at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to submit assignment")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStudentAssignmentNotFound
	}

	return nil
}

// AssignQuestion marks a question as assigned with an optional overwrite text.
func (repo *assignmentRepository) AssignQuestion(ctx context.Context, questionID int64, overwriteText string, modifiedBy int64, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AssignmentQuestionModel{}).
		Where("id = ?", questionID).
		Updates(map[string]any{
			"is_assigned":    true,
			"overwrite_text": overwriteText,
			"modified_by":    modifiedBy,
			"modified_on":    at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to assign question")
	}
	if result.RowsAffected == 0 {
		return repository.ErrQuestionNotFound
	}

	return nil
}

// CreateComment appends a comment to a question thread.
func (repo *assignmentRepository) CreateComment(ctx context.Context, comment *entity.QuestionComment) error {
	commentM := &model.QuestionCommentModel{
		Text:                 comment.Text,
		CreatedOn:            comment.CreatedOn,
		CreatedBy:            comment.CreatedBy,
		AssignmentQuestionID: comment.AssignmentQuestionID,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrQuestionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID

	return nil
}

// ListQuestions retrieves the questions of a student assignment with their
// comment threads loaded.
func (repo *assignmentRepository) ListQuestions(ctx context.Context, studentAssignmentID int64) ([]*entity.AssignmentQuestion, error) {
	var questionMs []*model.AssignmentQuestionModel
	err := repo.db.WithContext(ctx).
		Preload("Comments.Creator.Role").
		Where("student_assignment_id = ?", studentAssignmentID).
		Order("id").
		Find(&questionMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignment questions")
	}

	questions := make([]*entity.AssignmentQuestion, 0, len(questionMs))
	for _, questionM := range questionMs {
		questions = append(questions, toQuestionDomain(questionM))
	}

	return questions, nil
}

func toStudentAssignmentDomains(ms []*model.StudentAssignmentModel) []*entity.StudentAssignment {
	items := make([]*entity.StudentAssignment, 0, len(ms))
	for _, m := range ms {
		items = append(items, toStudentAssignmentDomain(m))
	}

	return items
}

// applyAssignmentFilter narrows a query over the assignments table. The
// table alias is passed in because student-assignment listings reach
// assignments through a join.
func applyAssignmentFilter(tx *gorm.DB, filter *repository.AssignmentListFilter, alias string) *gorm.DB {
	if filter == nil {
		return tx
	}

	if filter.AssignmentName != nil {
		tx = tx.Where(alias+".name ILIKE ?", "%"+*filter.AssignmentName+"%")
	}
	if filter.CourseName != nil {
		tx = tx.Joins("JOIN courses ON courses.id = "+alias+".course_id").
			Where("courses.name ILIKE ?", "%"+*filter.CourseName+"%")
	}
	if filter.DueAfter != nil {
		tx = tx.Where(alias+".due_date >= ?", *filter.DueAfter)
	}

	return tx
}
