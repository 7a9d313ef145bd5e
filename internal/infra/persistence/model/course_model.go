package model

import "time"

// CourseModel mirrors the 'courses' table. The unique index on name is the
// final arbiter of the name-uniqueness pre-check in the service layer.
type CourseModel struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Name         string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description  string     `gorm:"type:text"`
	StartDate    time.Time  `gorm:"not null"`
	EndDate      time.Time  `gorm:"not null"`
	InstructedBy int64      `gorm:"not null"`
	Instructor   *UserModel `gorm:"foreignKey:InstructedBy"`
}

// TableName explicitly sets the table name for GORM.
func (CourseModel) TableName() string {
	return "courses"
}

// StudentCourseModel mirrors the 'student_courses' enrollment table.
type StudentCourseModel struct {
	StudentID int64      `gorm:"primaryKey"`
	CourseID  int64      `gorm:"primaryKey"`
	Student   *UserModel `gorm:"foreignKey:StudentID"`
}

// TableName explicitly sets the table name for GORM.
func (StudentCourseModel) TableName() string {
	return "student_courses"
}

// GroupModel mirrors the 'groups' table.
type GroupModel struct {
	ID       int64                `gorm:"primaryKey;autoIncrement"`
	Name     string               `gorm:"type:varchar(255);uniqueIndex;not null"`
	CourseID int64                `gorm:"not null"`
	Members  []*StudentGroupModel `gorm:"foreignKey:GroupID"`
}

// TableName explicitly sets the table name for GORM.
func (GroupModel) TableName() string {
	return "groups"
}

// StudentGroupModel mirrors the 'student_groups' membership table.
type StudentGroupModel struct {
	StudentID int64      `gorm:"primaryKey"`
	GroupID   int64      `gorm:"primaryKey"`
	Student   *UserModel `gorm:"foreignKey:StudentID"`
}

// TableName explicitly sets the table name for GORM.
func (StudentGroupModel) TableName() string {
	return "student_groups"
}
