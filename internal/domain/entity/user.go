// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the core identity in the system. It carries the credential hash and
// the single-slot refresh token alongside the public profile fields.
type User struct {
	ID           int64      // Numeric identifier assigned by the database.
	Username     string     // Globally unique login name.
	Email        string     // Globally unique contact email.
	PasswordHash string     // bcrypt digest of the password. Never exposed outside the core.
	FirstName    string     // Given name.
	LastName     string     // Family name.
	Phone        string     // Optional contact phone number.
	About        string     // Free-text bio.
	RoleID       int64      // Foreign key to the user's single Role.
	Role         *Role      // The resolved role, when loaded.
	RefreshToken *string    // Current opaque refresh token. Nil when the user has no active session.
	LastLogin    *time.Time // Time of the most recent successful login.
	CreatedAt    time.Time  // Timestamp of account creation.
}

// PublicUser is the identity view returned to callers. It excludes the
// credential hash and the refresh-token value.
type PublicUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	About     string `json:"about"`
	Role      *Role  `json:"role,omitempty"`
}

// Public strips credentials from the user record.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		About:     u.About,
		Role:      u.Role,
	}
}

// Role is a coarse permission class assigned to a User. The set is fixed and
// seeded externally; role membership determines permissions, there is no
// per-permission model and no role ordering.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
