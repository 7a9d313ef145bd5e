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
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading the role.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Role").
		First(&userM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByUsername retrieves a single user by their unique username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Role").
		First(&userM, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Role").
		First(&userM, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByRefreshToken retrieves the user holding the presented refresh token.
// Rotated and cleared tokens no longer match any row, so they surface as
// ErrUserNotFound.
func (repo *userRepository) FindByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Role").
		First(&userM, "refresh_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by refresh token")
	}

	return toUserDomain(&userM), nil
}

// FindByIDsWithRole retrieves the users among ids holding the given role.
func (repo *userRepository) FindByIDsWithRole(ctx context.Context, ids []int64, roleID int64) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var userMs []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Role").
		Where("id IN ? AND role_id = ?", ids, roleID).
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find users by ids and role")
	}

	return toUserDomains(userMs), nil
}

// List retrieves users ordered by username, optionally filtered by role.
func (repo *userRepository) List(ctx context.Context, filter *repository.UserListFilter) ([]*entity.User, error) {
	tx := repo.db.WithContext(ctx).Preload("Role").Order("username")
	if filter != nil && filter.RoleID != nil {
		tx = tx.Where("role_id = ?", *filter.RoleID)
	}

	var userMs []*model.UserModel
	if err := tx.Find(&userMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return toUserDomains(userMs), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("Role").Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return duplicateUserError(err)
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate the generated ID and timestamps back to the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// Update modifies an existing user's profile fields and role. The credential
// hash and refresh-token slot have dedicated setters and are left untouched.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	updates := map[string]any{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
		"about":      user.About,
		"role_id":    user.RoleID,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return duplicateUserError(result.Error)
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored credential hash.
func (repo *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("password", passwordHash)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SetRefreshToken overwrites the user's single refresh-token slot. The
// previous value stops matching any lookup, which is what invalidates it.
func (repo *userRepository) SetRefreshToken(ctx context.Context, id int64, token string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("refresh_token", token)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set refresh token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// ClearRefreshToken empties the refresh-token slot. The boolean reports
// whether a session was actually active.
func (repo *userRepository) ClearRefreshToken(ctx context.Context, id int64) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND refresh_token IS NOT NULL", id).
		Update("refresh_token", nil)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to clear refresh token")
	}

	return result.RowsAffected > 0, nil
}

// TouchLastLogin records the time of a successful login.
func (repo *userRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to touch last login")
	}

	return nil
}

// duplicateUserError maps a unique-constraint violation on the users table to
// the domain error matching the violated column.
func duplicateUserError(err error) error {
	msg := err.Error()
	if containsFold(msg, "email") {
		return domainerrors.ErrEmailTaken
	}

	return domainerrors.ErrUsernameTaken
}

// roleRepository implements the domain.RoleRepository interface using GORM.
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

// FindByID retrieves a role by its unique ID.
func (repo *roleRepository) FindByID(ctx context.Context, id int64) (*entity.Role, error) {
	var roleM model.RoleModel
	err := repo.db.WithContext(ctx).First(&roleM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by id")
	}

	return toRoleDomain(&roleM), nil
}

// List retrieves all roles ordered by ID.
func (repo *roleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	var roleMs []*model.RoleModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&roleMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}

	roles := make([]*entity.Role, 0, len(roleMs))
	for _, roleM := range roleMs {
		roles = append(roles, toRoleDomain(roleM))
	}

	return roles, nil
}

// Upsert creates or updates a role by ID. Used by the seeder.
func (repo *roleRepository) Upsert(ctx context.Context, role *entity.Role) error {
	roleM := &model.RoleModel{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description"}),
		}).
		Create(roleM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert role")
	}

	return nil
}
