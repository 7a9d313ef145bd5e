package postgres

import (
	"strings"

	"classroom/internal/domain/entity"
	"classroom/internal/infra/persistence/model"
)

// Mapping between GORM persistence models and pure domain entities. The
// domain layer never sees a model type.

func toRoleDomain(m *model.RoleModel) *entity.Role {
	if m == nil {
		return nil
	}

	return &entity.Role{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
}

func toUserDomain(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		About:        m.About,
		RoleID:       m.RoleID,
		Role:         toRoleDomain(m.Role),
		RefreshToken: m.RefreshToken,
		LastLogin:    m.LastLogin,
		CreatedAt:    m.CreatedAt,
	}
}

func toUserDomains(ms []*model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, toUserDomain(m))
	}

	return users
}

func fromUserDomain(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		About:        u.About,
		RoleID:       u.RoleID,
		RefreshToken: u.RefreshToken,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

func toCourseDomain(m *model.CourseModel) *entity.Course {
	if m == nil {
		return nil
	}

	return &entity.Course{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		InstructedBy: m.InstructedBy,
		Instructor:   toUserDomain(m.Instructor),
	}
}

func fromCourseDomain(c *entity.Course) *model.CourseModel {
	return &model.CourseModel{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		InstructedBy: c.InstructedBy,
	}
}

func toGroupDomain(m *model.GroupModel) *entity.Group {
	if m == nil {
		return nil
	}

	group := &entity.Group{
		ID:       m.ID,
		Name:     m.Name,
		CourseID: m.CourseID,
	}
	for _, member := range m.Members {
		if member.Student != nil {
			group.Students = append(group.Students, toUserDomain(member.Student))
		}
	}

	return group
}

func toAttachmentDomain(m *model.AssignmentAttachmentModel) *entity.Attachment {
	if m == nil {
		return nil
	}

	return &entity.Attachment{
		ID:            m.ID,
		Name:          m.Name,
		Extension:     m.Extension,
		Size:          m.Size,
		ContentBase64: m.AttachmentBase64,
		AssignmentID:  m.AssignmentID,
	}
}

func toAssignmentDomain(m *model.AssignmentModel) *entity.Assignment {
	if m == nil {
		return nil
	}

	assignment := &entity.Assignment{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		CourseID:    m.CourseID,
		Course:      toCourseDomain(m.Course),
	}
	for _, att := range m.Attachments {
		assignment.Attachments = append(assignment.Attachments, toAttachmentDomain(att))
	}

	return assignment
}

func fromAssignmentDomain(a *entity.Assignment) *model.AssignmentModel {
	return &model.AssignmentModel{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		DueDate:     a.DueDate,
		CourseID:    a.CourseID,
	}
}

func toStudentAssignmentDomain(m *model.StudentAssignmentModel) *entity.StudentAssignment {
	if m == nil {
		return nil
	}

	return &entity.StudentAssignment{
		ID:           m.ID,
		AssignmentID: m.AssignmentID,
		Assignment:   toAssignmentDomain(m.Assignment),
		AssignedFor:  m.AssignedFor,
		Group:        toGroupDomain(m.Group),
		AssignedBy:   m.AssignedBy,
		Instructor:   toUserDomain(m.Instructor),
		Status:       entity.SubmissionStatus(m.Status),
		URL:          m.URL,
		SubmitAt:     m.SubmitAt,
	}
}

func toQuestionDomain(m *model.AssignmentQuestionModel) *entity.AssignmentQuestion {
	if m == nil {
		return nil
	}

	question := &entity.AssignmentQuestion{
		ID:                  m.ID,
		StudentAssignmentID: m.StudentAssignmentID,
		Text:                m.Text,
		OverwriteText:       m.OverwriteText,
		IsAssigned:          m.IsAssigned,
		ModifiedBy:          m.ModifiedBy,
		ModifiedOn:          m.ModifiedOn,
	}
	for _, comment := range m.Comments {
		question.Comments = append(question.Comments, toCommentDomain(comment))
	}

	return question
}

func toCommentDomain(m *model.QuestionCommentModel) *entity.QuestionComment {
	if m == nil {
		return nil
	}

	return &entity.QuestionComment{
		ID:                   m.ID,
		Text:                 m.Text,
		CreatedOn:            m.CreatedOn,
		CreatedBy:            m.CreatedBy,
		Creator:              toUserDomain(m.Creator),
		AssignmentQuestionID: m.AssignmentQuestionID,
	}
}

func toAnalyzerDomain(m *model.AnalyzerModel) *entity.Analyzer {
	if m == nil {
		return nil
	}

	return &entity.Analyzer{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		FileName:      m.FileName,
		FileExtension: m.FileExtension,
		FileSize:      m.FileSize,
		StorageKey:    m.StorageKey,
		DeveloperID:   m.DeveloperID,
		Developer:     toUserDomain(m.Developer),
	}
}

func fromAnalyzerDomain(a *entity.Analyzer) *model.AnalyzerModel {
	return &model.AnalyzerModel{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		FileName:      a.FileName,
		FileExtension: a.FileExtension,
		FileSize:      a.FileSize,
		StorageKey:    a.StorageKey,
		DeveloperID:   a.DeveloperID,
	}
}

func toReportDomain(m *model.LocalizationReportModel) *entity.LocalizationReport {
	if m == nil {
		return nil
	}

	return &entity.LocalizationReport{
		ID:                  m.ID,
		StudentAssignmentID: m.StudentAssignmentID,
		AnalyzerID:          m.AnalyzerID,
		Content:             m.Content,
		Score:               m.Score,
		CreatedOn:           m.CreatedOn,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
