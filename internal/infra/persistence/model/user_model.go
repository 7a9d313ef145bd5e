// Package model contains the GORM persistence models mirroring the
// relational schema. Mapping to and from domain entities happens in the
// repository layer.
package model

import "time"

// RoleModel mirrors the 'roles' table. The set is small and seeded externally.
type RoleModel struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}

// UserModel mirrors the 'users' table. The refresh token is a single slot:
// at most one live value per user, unique across users when set.
type UserModel struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string     `gorm:"type:varchar(255);not null"`
	FirstName    string     `gorm:"type:varchar(100)"`
	LastName     string     `gorm:"type:varchar(100)"`
	Phone        string     `gorm:"type:varchar(50)"`
	About        string     `gorm:"type:text"`
	RoleID       int64      `gorm:"not null"`
	Role         *RoleModel `gorm:"foreignKey:RoleID"`
	RefreshToken *string    `gorm:"type:varchar(255);uniqueIndex"`
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
