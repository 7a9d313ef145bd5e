// Command gen regenerates the type-safe GORM query helpers from the
// persistence models. Run it after changing any model.
package main

import (
	"classroom/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.RoleModel{},
		model.UserModel{},
		model.CourseModel{},
		model.StudentCourseModel{},
		model.GroupModel{},
		model.StudentGroupModel{},
		model.AssignmentModel{},
		model.AssignmentAttachmentModel{},
		model.StudentAssignmentModel{},
		model.AssignmentQuestionModel{},
		model.QuestionCommentModel{},
		model.AnalyzerModel{},
		model.LocalizationReportModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
