package impl

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"
)

// fakeAssignmentRepo is an in-memory AssignmentRepository.
type fakeAssignmentRepo struct {
	mu                 sync.Mutex
	nextID             int64
	assignments        map[int64]*entity.Assignment
	attachments        map[int64][]*entity.Attachment
	studentAssignments map[int64]*entity.StudentAssignment
	questions          map[int64]*entity.AssignmentQuestion
	comments           []*entity.QuestionComment
	courses            *fakeCourseRepo
}

func newFakeAssignmentRepo(courses *fakeCourseRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments:        make(map[int64]*entity.Assignment),
		attachments:        make(map[int64][]*entity.Attachment),
		studentAssignments: make(map[int64]*entity.StudentAssignment),
		questions:          make(map[int64]*entity.AssignmentQuestion),
		courses:            courses,
	}
}

func (r *fakeAssignmentRepo) FindByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	r.mu.Lock()
	assignment, ok := r.assignments[id]
	if !ok {
		r.mu.Unlock()

		return nil, repository.ErrAssignmentNotFound
	}
	clone := *assignment
	clone.Attachments = append([]*entity.Attachment(nil), r.attachments[id]...)
	r.mu.Unlock()

	if course, err := r.courses.FindByID(ctx, clone.CourseID); err == nil {
		clone.Course = course
	}

	return &clone, nil
}

func (r *fakeAssignmentRepo) List(_ context.Context, filter *repository.AssignmentListFilter) ([]*entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Assignment
	for _, assignment := range r.assignments {
		if filter != nil && filter.AssignmentName != nil &&
			!strings.Contains(strings.ToLower(assignment.Name), strings.ToLower(*filter.AssignmentName)) {
			continue
		}
		if filter != nil && filter.DueAfter != nil && assignment.DueDate.Before(*filter.DueAfter) {
			continue
		}
		clone := *assignment
		out = append(out, &clone)
	}

	return out, nil
}

func (r *fakeAssignmentRepo) Upsert(_ context.Context, assignment *entity.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assignment.ID == 0 {
		r.nextID++
		assignment.ID = r.nextID
	}
	clone := *assignment
	r.assignments[assignment.ID] = &clone

	return nil
}

func (r *fakeAssignmentRepo) ReplaceAttachments(_ context.Context, assignmentID int64, attachments []*entity.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attachments[assignmentID] = append([]*entity.Attachment(nil), attachments...)

	return nil
}

func (r *fakeAssignmentRepo) CreateStudentAssignments(_ context.Context, items []*entity.StudentAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.nextID++
		item.ID = r.nextID
		clone := *item
		r.studentAssignments[item.ID] = &clone
	}

	return nil
}

func (r *fakeAssignmentRepo) FindStudentAssignmentsByGroups(_ context.Context, assignmentID int64, groupIDs []int64) ([]*entity.StudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int64]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = struct{}{}
	}

	var out []*entity.StudentAssignment
	for _, item := range r.studentAssignments {
		if item.AssignmentID != assignmentID {
			continue
		}
		if _, ok := wanted[item.AssignedFor]; ok {
			clone := *item
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeAssignmentRepo) FindStudentAssignmentByID(_ context.Context, id int64) (*entity.StudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.studentAssignments[id]
	if !ok {
		return nil, repository.ErrStudentAssignmentNotFound
	}
	clone := *item

	return &clone, nil
}

func (r *fakeAssignmentRepo) ListStudentAssignments(_ context.Context, _ *repository.AssignmentListFilter) ([]*entity.StudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.StudentAssignment
	for _, item := range r.studentAssignments {
		clone := *item
		out = append(out, &clone)
	}

	return out, nil
}

func (r *fakeAssignmentRepo) ListStudentAssignmentsForAssignment(_ context.Context, assignmentID int64) ([]*entity.StudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.StudentAssignment
	for _, item := range r.studentAssignments {
		if item.AssignmentID == assignmentID {
			clone := *item
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeAssignmentRepo) Submit(_ context.Context, id int64, url string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.studentAssignments[id]
	if !ok {
		return repository.ErrStudentAssignmentNotFound
	}
	item.Status = entity.StatusSubmitted
	item.URL = url
	item.SubmitAt = &at

	return nil
}

func (r *fakeAssignmentRepo) AssignQuestion(_ context.Context, questionID int64, overwriteText string, modifiedBy int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	question, ok := r.questions[questionID]
	if !ok {
		return repository.ErrQuestionNotFound
	}
	question.IsAssigned = true
	question.OverwriteText = overwriteText
	question.ModifiedBy = &modifiedBy
	question.ModifiedOn = &at

	return nil
}

func (r *fakeAssignmentRepo) CreateComment(_ context.Context, comment *entity.QuestionComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[comment.AssignmentQuestionID]; !ok {
		return repository.ErrQuestionNotFound
	}
	r.nextID++
	comment.ID = r.nextID
	clone := *comment
	r.comments = append(r.comments, &clone)

	return nil
}

func (r *fakeAssignmentRepo) ListQuestions(_ context.Context, studentAssignmentID int64) ([]*entity.AssignmentQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.AssignmentQuestion
	for _, question := range r.questions {
		if question.StudentAssignmentID != studentAssignmentID {
			continue
		}
		clone := *question
		for _, comment := range r.comments {
			if comment.AssignmentQuestionID == question.ID {
				c := *comment
				clone.Comments = append(clone.Comments, &c)
			}
		}
		out = append(out, &clone)
	}

	return out, nil
}

func (r *fakeAssignmentRepo) seedQuestion(studentAssignmentID int64, text string) *entity.AssignmentQuestion {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	question := &entity.AssignmentQuestion{
		ID:                  r.nextID,
		StudentAssignmentID: studentAssignmentID,
		Text:                text,
	}
	r.questions[question.ID] = question

	return question
}

type assignmentFixture struct {
	assignment usecase.AssignmentUsecase
	repo       *fakeAssignmentRepo
	users      *fakeUserRepo
	courses    *fakeCourseRepo
	publisher  *fakePublisher

	instructor *entity.User
	course     *entity.Course
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	users := newFakeUserRepo()
	courses := newFakeCourseRepo(users)
	repo := newFakeAssignmentRepo(courses)
	publisher := &fakePublisher{}
	factory := &fakeRepoFactory{users: users, courses: courses, assignments: repo}

	service := NewAssignmentService(AssignmentServiceParams{
		TxManager:      &fakeTxManager{factory: factory},
		AssignmentRepo: repo,
		CourseRepo:     courses,
		Guard:          newTestGuard(),
		Publisher:      publisher,
		Logger:         newDiscardLogger(),
	})

	instructor := users.seed(&entity.User{Username: "turing", RoleID: testInstructorRoleID})
	course := &entity.Course{Name: "Algorithms", InstructedBy: instructor.ID}
	require.NoError(t, courses.Upsert(context.Background(), course))

	return &assignmentFixture{
		assignment: service,
		repo:       repo,
		users:      users,
		courses:    courses,
		publisher:  publisher,
		instructor: instructor,
		course:     course,
	}
}

func (f *assignmentFixture) instructorActor() usecase.Actor {
	return usecase.Actor{UserID: f.instructor.ID, RoleID: testInstructorRoleID}
}

func (f *assignmentFixture) seedAssignment(t *testing.T) *entity.Assignment {
	t.Helper()

	assignment, err := f.assignment.UpsertAssignment(context.Background(), f.instructorActor(),
		&usecase.UpsertAssignmentInput{
			Name:     "Homework 1",
			DueDate:  time.Now().AddDate(0, 1, 0),
			CourseID: f.course.ID,
		})
	require.NoError(t, err)

	return assignment
}

func TestAssignmentService_UpsertAssignment_OnlyCourseInstructorOrAdmin(t *testing.T) {
	f := newAssignmentFixture(t)
	other := f.users.seed(&entity.User{Username: "hopper", RoleID: testInstructorRoleID})
	learner := f.users.seed(&entity.User{Username: "ada", RoleID: testLearnerRoleID})

	input := &usecase.UpsertAssignmentInput{
		Name:     "Homework 1",
		DueDate:  time.Now().AddDate(0, 1, 0),
		CourseID: f.course.ID,
	}

	// Another instructor does not teach this course.
	_, err := f.assignment.UpsertAssignment(context.Background(),
		usecase.Actor{UserID: other.ID, RoleID: testInstructorRoleID}, input)
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = f.assignment.UpsertAssignment(context.Background(),
		usecase.Actor{UserID: learner.ID, RoleID: testLearnerRoleID}, input)
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// The course's own instructor and an admin both may.
	_, err = f.assignment.UpsertAssignment(context.Background(), f.instructorActor(), input)
	require.NoError(t, err)

	input2 := &usecase.UpsertAssignmentInput{
		Name:     "Homework 2",
		DueDate:  time.Now().AddDate(0, 1, 0),
		CourseID: f.course.ID,
	}
	_, err = f.assignment.UpsertAssignment(context.Background(),
		usecase.Actor{UserID: 999, RoleID: testAdminRoleID}, input2)
	require.NoError(t, err)
}

func TestAssignmentService_UpsertAssignment_UnknownCourse(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.assignment.UpsertAssignment(context.Background(), f.instructorActor(),
		&usecase.UpsertAssignmentInput{
			Name:     "Homework 1",
			DueDate:  time.Now(),
			CourseID: 404,
		})
	require.ErrorIs(t, err, domainerrors.ErrCourseNotFound)
}

func TestAssignmentService_UpsertAssignment_ReplacesAttachments(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	created, err := f.assignment.UpsertAssignment(ctx, f.instructorActor(),
		&usecase.UpsertAssignmentInput{
			Name:     "Homework 1",
			DueDate:  time.Now().AddDate(0, 1, 0),
			CourseID: f.course.ID,
			Attachments: []*usecase.AttachmentInput{
				{Name: "starter", Extension: "zip", ContentBase64: "YQ=="},
				{Name: "readme", Extension: "md", ContentBase64: "Yg=="},
			},
		})
	require.NoError(t, err)
	assert.Len(t, created.Attachments, 2)

	updated, err := f.assignment.UpsertAssignment(ctx, f.instructorActor(),
		&usecase.UpsertAssignmentInput{
			ID:       &created.ID,
			Name:     "Homework 1",
			DueDate:  created.DueDate,
			CourseID: f.course.ID,
			Attachments: []*usecase.AttachmentInput{
				{Name: "starter-v2", Extension: "zip", ContentBase64: "Yw=="},
			},
		})
	require.NoError(t, err)
	require.Len(t, updated.Attachments, 1)
	assert.Equal(t, "starter-v2", updated.Attachments[0].Name)
}

func TestAssignmentService_AssignAssignment_CreatesOneCopyPerGroup(t *testing.T) {
	f := newAssignmentFixture(t)
	assignment := f.seedAssignment(t)

	// Duplicate group IDs in the request collapse to one copy.
	items, err := f.assignment.AssignAssignment(context.Background(), f.instructorActor(),
		&usecase.AssignAssignmentInput{
			AssignmentID: assignment.ID,
			GroupIDs:     []int64{10, 11, 10},
		})
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, assignment.ID, item.AssignmentID)
		assert.Equal(t, entity.StatusAssigned, item.Status)
		assert.Equal(t, f.instructor.ID, item.AssignedBy)
	}
}

func TestAssignmentService_AssignAssignment_GroupAlreadyHoldingCopy(t *testing.T) {
	f := newAssignmentFixture(t)
	assignment := f.seedAssignment(t)
	ctx := context.Background()

	_, err := f.assignment.AssignAssignment(ctx, f.instructorActor(),
		&usecase.AssignAssignmentInput{AssignmentID: assignment.ID, GroupIDs: []int64{10}})
	require.NoError(t, err)

	// Group 11 is new, but 10 already holds a copy: the whole batch fails.
	_, err = f.assignment.AssignAssignment(ctx, f.instructorActor(),
		&usecase.AssignAssignmentInput{AssignmentID: assignment.ID, GroupIDs: []int64{10, 11}})
	require.ErrorIs(t, err, domainerrors.ErrGroupAlreadyAssigned)

	copies, err := f.repo.ListStudentAssignmentsForAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Len(t, copies, 1)
}

func TestAssignmentService_AssignAssignment_UnknownAssignment(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.assignment.AssignAssignment(context.Background(), f.instructorActor(),
		&usecase.AssignAssignmentInput{AssignmentID: 404, GroupIDs: []int64{10}})
	require.ErrorIs(t, err, domainerrors.ErrAssignmentNotFound)
}

func TestAssignmentService_SubmitAssignment_PublishesEvent(t *testing.T) {
	f := newAssignmentFixture(t)
	assignment := f.seedAssignment(t)
	ctx := context.Background()

	items, err := f.assignment.AssignAssignment(ctx, f.instructorActor(),
		&usecase.AssignAssignmentInput{AssignmentID: assignment.ID, GroupIDs: []int64{10}})
	require.NoError(t, err)

	submitted, err := f.assignment.SubmitAssignment(ctx,
		usecase.Actor{UserID: 20, RoleID: testLearnerRoleID},
		&usecase.SubmitAssignmentInput{
			StudentAssignmentID: items[0].ID,
			URL:                 "https://git.example.com/team/repo",
		})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSubmitted, submitted.Status)
	assert.Equal(t, "https://git.example.com/team/repo", submitted.URL)
	require.NotNil(t, submitted.SubmitAt)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, service.EventSubmissionReceived, event.Kind)
	assert.Equal(t, items[0].ID, event.StudentAssignmentID)
	assert.Equal(t, "https://git.example.com/team/repo", event.SubmissionURL)
}

func TestAssignmentService_SubmitAssignment_UnknownCopy(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.assignment.SubmitAssignment(context.Background(),
		usecase.Actor{UserID: 20, RoleID: testLearnerRoleID},
		&usecase.SubmitAssignmentInput{StudentAssignmentID: 404, URL: "https://example.com"})
	require.ErrorIs(t, err, domainerrors.ErrAssignmentNotFound)
	assert.Empty(t, f.publisher.kinds())
}

func TestAssignmentService_AssignQuestion(t *testing.T) {
	f := newAssignmentFixture(t)
	question := f.repo.seedQuestion(1, "Why is this loop quadratic?")

	// Learners cannot assign questions.
	_, err := f.assignment.AssignQuestion(context.Background(),
		usecase.Actor{UserID: 20, RoleID: testLearnerRoleID},
		&usecase.AssignQuestionInput{QuestionID: question.ID})
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	ok, err := f.assignment.AssignQuestion(context.Background(), f.instructorActor(),
		&usecase.AssignQuestionInput{QuestionID: question.ID, OverwriteText: "Explain the complexity."})
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.repo.questions[question.ID]
	assert.True(t, stored.IsAssigned)
	assert.Equal(t, "Explain the complexity.", stored.OverwriteText)
	require.NotNil(t, stored.ModifiedBy)
	assert.Equal(t, f.instructor.ID, *stored.ModifiedBy)
}

func TestAssignmentService_AssignQuestion_UnknownQuestion(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.assignment.AssignQuestion(context.Background(), f.instructorActor(),
		&usecase.AssignQuestionInput{QuestionID: 404})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAssignmentService_PostComment(t *testing.T) {
	f := newAssignmentFixture(t)
	question := f.repo.seedQuestion(1, "Why is this loop quadratic?")

	comment, err := f.assignment.PostComment(context.Background(),
		usecase.Actor{UserID: 20, RoleID: testLearnerRoleID},
		&usecase.PostCommentInput{QuestionID: question.ID, Text: "We fixed it in the latest push."})
	require.NoError(t, err)

	assert.NotZero(t, comment.ID)
	assert.Equal(t, int64(20), comment.CreatedBy)

	questions, err := f.assignment.AllAssignmentQuestions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Len(t, questions[0].Comments, 1)
	assert.Equal(t, "We fixed it in the latest push.", questions[0].Comments[0].Text)
}

func TestAssignmentService_PostComment_UnknownQuestion(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.assignment.PostComment(context.Background(),
		usecase.Actor{UserID: 20, RoleID: testLearnerRoleID},
		&usecase.PostCommentInput{QuestionID: 404, Text: "hello"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAssignmentService_AllAssignments_Filters(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.assignment.UpsertAssignment(ctx, f.instructorActor(), &usecase.UpsertAssignmentInput{
		Name: "Homework 1", DueDate: due, CourseID: f.course.ID,
	})
	require.NoError(t, err)
	_, err = f.assignment.UpsertAssignment(ctx, f.instructorActor(), &usecase.UpsertAssignmentInput{
		Name: "Final project", DueDate: due.AddDate(0, 2, 0), CourseID: f.course.ID,
	})
	require.NoError(t, err)

	name := "homework"
	byName, err := f.assignment.AllAssignments(ctx, &usecase.AssignmentListFilter{AssignmentName: &name})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Homework 1", byName[0].Name)

	after := due.AddDate(0, 1, 0)
	byDue, err := f.assignment.AllAssignments(ctx, &usecase.AssignmentListFilter{DueAfter: &after})
	require.NoError(t, err)
	require.Len(t, byDue, 1)
	assert.Equal(t, "Final project", byDue[0].Name)
}
