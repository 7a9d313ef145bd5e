package service

// RolesConfig carries the role IDs the guard compares against. The IDs are
// configuration, not code: deployments seed their own role rows and point the
// guard at them.
type RolesConfig struct {
	AdminID      int64 `json:"adminId" yaml:"adminId"`
	InstructorID int64 `json:"instructorId" yaml:"instructorId"`
	LearnerID    int64 `json:"learnerId" yaml:"learnerId"`
}

// Guard evaluates whether a caller may perform an action against a target
// identity or resource. Checks are pure comparisons: role equality is exact,
// there is no role ordering or hierarchy.
type Guard struct {
	roles RolesConfig
}

// NewGuard constructs a Guard from an explicit role configuration.
func NewGuard(roles RolesConfig) *Guard {
	return &Guard{roles: roles}
}

// IsSelf reports whether the caller is the target identity.
func (g *Guard) IsSelf(callerID, targetID int64) bool {
	return callerID == targetID
}

// HasRole reports whether the caller holds exactly the required role.
func (g *Guard) HasRole(callerRoleID, requiredRoleID int64) bool {
	return callerRoleID == requiredRoleID
}

// IsAdmin reports whether the caller holds the admin role.
func (g *Guard) IsAdmin(callerRoleID int64) bool {
	return g.HasRole(callerRoleID, g.roles.AdminID)
}

// IsInstructorRole reports whether the given role is the instructor role.
func (g *Guard) IsInstructorRole(roleID int64) bool {
	return g.HasRole(roleID, g.roles.InstructorID)
}

// IsLearnerRole reports whether the given role is the learner role.
func (g *Guard) IsLearnerRole(roleID int64) bool {
	return g.HasRole(roleID, g.roles.LearnerID)
}

// LearnerRoleID exposes the configured learner role for flows that create
// users with the default role or select students by role.
func (g *Guard) LearnerRoleID() int64 {
	return g.roles.LearnerID
}

// CanCreateUser gates creating a user record on behalf of someone else.
func (g *Guard) CanCreateUser(callerRoleID int64) bool {
	return g.IsAdmin(callerRoleID)
}

// CanEditUser gates editing a user record: admins may edit anyone, everyone
// may edit their own profile.
func (g *Guard) CanEditUser(callerID, callerRoleID, targetID int64) bool {
	return g.IsSelf(callerID, targetID) || g.IsAdmin(callerRoleID)
}

// CanManageCourses gates creating and editing courses.
func (g *Guard) CanManageCourses(callerRoleID int64) bool {
	return g.IsAdmin(callerRoleID)
}

// CanEditAssignment gates creating and editing an assignment: the course's
// instructor or an admin.
func (g *Guard) CanEditAssignment(callerID, callerRoleID, courseInstructorID int64) bool {
	return g.IsSelf(callerID, courseInstructorID) || g.IsAdmin(callerRoleID)
}

// CanUploadAnalyzer gates analyzer uploads: anyone but a learner.
func (g *Guard) CanUploadAnalyzer(callerRoleID int64) bool {
	return !g.IsLearnerRole(callerRoleID)
}
