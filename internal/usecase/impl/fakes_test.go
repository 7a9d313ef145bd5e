package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"classroom/internal/domain/entity"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testAdminRoleID      int64 = 1
	testInstructorRoleID int64 = 2
	testLearnerRoleID    int64 = 3
)

func newTestGuard() *service.Guard {
	return service.NewGuard(service.RolesConfig{
		AdminID:      testAdminRoleID,
		InstructorID: testInstructorRoleID,
		LearnerID:    testLearnerRoleID,
	})
}

// fakeUserRepo is an in-memory UserRepository. The single refresh-token slot
// behaves like the real table: lookups are by stored value, so overwriting a
// token makes the previous value unmatchable.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) seed(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	r.users[user.ID] = user

	return user
}

func copyUser(user *entity.User) *entity.User {
	clone := *user

	return &clone
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.RefreshToken != nil && *user.RefreshToken == token {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIDsWithRole(_ context.Context, ids []int64, roleID int64) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]struct{}, len(ids))
	var out []*entity.User
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if user, ok := r.users[id]; ok && user.RoleID == roleID {
			out = append(out, copyUser(user))
		}
	}

	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, filter *repository.UserListFilter) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.User
	for _, user := range r.users {
		if filter != nil && filter.RoleID != nil && user.RoleID != *filter.RoleID {
			continue
		}
		out = append(out, copyUser(user))
	}

	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = copyUser(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	current.Username = user.Username
	current.Email = user.Email
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.Phone = user.Phone
	current.About = user.About
	current.RoleID = user.RoleID

	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash

	return nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, id int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.RefreshToken = &token

	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.RefreshToken == nil {
		return false, nil
	}
	user.RefreshToken = nil

	return true, nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastLogin = &at

	return nil
}

// fakeCourseRepo is an in-memory CourseRepository.
type fakeCourseRepo struct {
	mu          sync.Mutex
	nextID      int64
	courses     map[int64]*entity.Course
	enrollments map[int64][]int64
	users       *fakeUserRepo
}

func newFakeCourseRepo(users *fakeUserRepo) *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     make(map[int64]*entity.Course),
		enrollments: make(map[int64][]int64),
		users:       users,
	}
}

func copyCourse(course *entity.Course) *entity.Course {
	clone := *course

	return &clone
}

func (r *fakeCourseRepo) FindByID(ctx context.Context, id int64) (*entity.Course, error) {
	r.mu.Lock()
	course, ok := r.courses[id]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrCourseNotFound
	}

	clone := copyCourse(course)
	if instructor, err := r.users.FindByID(ctx, clone.InstructedBy); err == nil {
		clone.Instructor = instructor
	}

	return clone, nil
}

func (r *fakeCourseRepo) FindByName(_ context.Context, name string) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, course := range r.courses {
		if course.Name == name {
			return copyCourse(course), nil
		}
	}

	return nil, repository.ErrCourseNotFound
}

func (r *fakeCourseRepo) List(_ context.Context, filter *repository.CourseListFilter) ([]*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Course
	for _, course := range r.courses {
		if filter != nil && filter.InstructedBy != nil && course.InstructedBy != *filter.InstructedBy {
			continue
		}
		out = append(out, copyCourse(course))
	}

	return out, nil
}

func (r *fakeCourseRepo) Upsert(_ context.Context, course *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if course.ID == 0 {
		r.nextID++
		course.ID = r.nextID
	}
	r.courses[course.ID] = copyCourse(course)

	return nil
}

func (r *fakeCourseRepo) Enroll(_ context.Context, courseID int64, studentIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[int64]struct{})
	for _, id := range r.enrollments[courseID] {
		existing[id] = struct{}{}
	}
	for _, id := range studentIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		r.enrollments[courseID] = append(r.enrollments[courseID], id)
		existing[id] = struct{}{}
	}

	return nil
}

func (r *fakeCourseRepo) Unenroll(_ context.Context, courseID, studentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enrolled := r.enrollments[courseID]
	out := enrolled[:0]
	for _, id := range enrolled {
		if id != studentID {
			out = append(out, id)
		}
	}
	r.enrollments[courseID] = out

	return nil
}

func (r *fakeCourseRepo) ListStudents(ctx context.Context, courseID int64) ([]*entity.User, error) {
	r.mu.Lock()
	ids := append([]int64(nil), r.enrollments[courseID]...)
	r.mu.Unlock()

	var out []*entity.User
	for _, id := range ids {
		if user, err := r.users.FindByID(ctx, id); err == nil {
			out = append(out, user)
		}
	}

	return out, nil
}

// fakeGroupRepo is an in-memory GroupRepository.
type fakeGroupRepo struct {
	mu      sync.Mutex
	nextID  int64
	groups  map[int64]*entity.Group
	members map[int64][]int64
	users   *fakeUserRepo
}

func newFakeGroupRepo(users *fakeUserRepo) *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[int64]*entity.Group),
		members: make(map[int64][]int64),
		users:   users,
	}
}

func (r *fakeGroupRepo) FindByName(_ context.Context, name string) (*entity.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, group := range r.groups {
		if group.Name == name {
			clone := *group

			return &clone, nil
		}
	}

	return nil, repository.ErrGroupNotFound
}

func (r *fakeGroupRepo) Create(_ context.Context, group *entity.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	group.ID = r.nextID
	clone := *group
	r.groups[group.ID] = &clone

	return nil
}

func (r *fakeGroupRepo) AddStudents(_ context.Context, groupID int64, studentIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[groupID] = append(r.members[groupID], studentIDs...)

	return nil
}

func (r *fakeGroupRepo) ListByCourse(ctx context.Context, courseID int64) ([]*entity.Group, error) {
	r.mu.Lock()
	var ids []int64
	for id, group := range r.groups {
		if group.CourseID == courseID {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	var out []*entity.Group
	for _, id := range ids {
		r.mu.Lock()
		group := *r.groups[id]
		memberIDs := append([]int64(nil), r.members[id]...)
		r.mu.Unlock()

		for _, memberID := range memberIDs {
			if user, err := r.users.FindByID(ctx, memberID); err == nil {
				group.Students = append(group.Students, user)
			}
		}
		out = append(out, &group)
	}

	return out, nil
}

// fakeRepoFactory hands the shared in-memory repositories to transactional
// flows. There is no transactionality: tests assert on final state only.
type fakeRepoFactory struct {
	users       *fakeUserRepo
	courses     *fakeCourseRepo
	groups      *fakeGroupRepo
	assignments *fakeAssignmentRepo
	analyzers   *fakeAnalyzerRepo
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return f.users }

func (f *fakeRepoFactory) RoleRepo() repository.RoleRepository { return nil }

func (f *fakeRepoFactory) CourseRepo() repository.CourseRepository { return f.courses }

func (f *fakeRepoFactory) GroupRepo() repository.GroupRepository { return f.groups }

func (f *fakeRepoFactory) AssignmentRepo() repository.AssignmentRepository { return f.assignments }

func (f *fakeRepoFactory) AnalyzerRepo() repository.AnalyzerRepository { return f.analyzers }

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}
