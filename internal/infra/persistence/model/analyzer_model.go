package model

import "time"

// AnalyzerModel mirrors the 'analyzers' table. The binary lives in the blob
// bucket under StorageKey; only metadata is stored here.
type AnalyzerModel struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Name          string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description   string     `gorm:"type:text"`
	FileName      string     `gorm:"type:varchar(255)"`
	FileExtension string     `gorm:"type:varchar(50)"`
	FileSize      int64
	StorageKey    string     `gorm:"type:varchar(512);not null"`
	DeveloperID   int64      `gorm:"not null"`
	Developer     *UserModel `gorm:"foreignKey:DeveloperID"`
}

// TableName explicitly sets the table name for GORM.
func (AnalyzerModel) TableName() string {
	return "analyzers"
}

// LocalizationReportModel mirrors the 'localization_reports' table, written
// by the analysis pipeline and read-only for this service.
type LocalizationReportModel struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement"`
	StudentAssignmentID int64     `gorm:"not null;index"`
	AnalyzerID          int64     `gorm:"not null;index"`
	Content             string    `gorm:"type:text"`
	Score               float64
	CreatedOn           time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (LocalizationReportModel) TableName() string {
	return "localization_reports"
}
