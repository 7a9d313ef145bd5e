package handler

import (
	"net/http"
	"time"

	"classroom/internal/delivery/http/response"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AssignmentHandler holds dependencies for assignment lifecycle endpoints.
type AssignmentHandler struct {
	uc usecase.AssignmentUsecase
}

// NewAssignmentHandler is the constructor for AssignmentHandler, injected by Fx.
func NewAssignmentHandler(uc usecase.AssignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// UpsertAssignment creates or updates an assignment with its attachments.
func (h *AssignmentHandler) UpsertAssignment(c echo.Context) error {
	var input usecase.UpsertAssignmentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	assignment, err := h.uc.UpsertAssignment(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, assignment, "Assignment saved")
}

// AssignAssignment hands an assignment to groups.
func (h *AssignmentHandler) AssignAssignment(c echo.Context) error {
	var input usecase.AssignAssignmentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assign input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	items, err := h.uc.AssignAssignment(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, items, "Assignment handed to groups")
}

// SubmitAssignment marks a group's copy submitted.
func (h *AssignmentHandler) SubmitAssignment(c echo.Context) error {
	var input usecase.SubmitAssignmentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid submission input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	item, err := h.uc.SubmitAssignment(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Assignment submitted")
}

// AssignQuestion hands a review question back to the students.
func (h *AssignmentHandler) AssignQuestion(c echo.Context) error {
	var input usecase.AssignQuestionInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid question input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	assigned, err := h.uc.AssignQuestion(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"assigned": assigned}, "Question assigned")
}

// PostComment appends a comment to a question thread.
func (h *AssignmentHandler) PostComment(c echo.Context) error {
	var input usecase.PostCommentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	comment, err := h.uc.PostComment(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment posted")
}

// GetAssignmentByID returns an assignment with attachments and group copies.
func (h *AssignmentHandler) GetAssignmentByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	assignment, copies, err := h.uc.GetAssignmentByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"assignment":         assignment,
		"studentAssignments": copies,
	}, "")
}

// AllAssignments lists assignments matching the query filters.
func (h *AssignmentHandler) AllAssignments(c echo.Context) error {
	filter, err := assignmentFilter(c)
	if err != nil {
		return err
	}

	assignments, err := h.uc.AllAssignments(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, assignments, "")
}

// GetStudentAssignmentByID returns one group's copy.
func (h *AssignmentHandler) GetStudentAssignmentByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.uc.GetStudentAssignmentByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "")
}

// AllStudentAssignments lists group copies matching the query filters.
func (h *AssignmentHandler) AllStudentAssignments(c echo.Context) error {
	filter, err := assignmentFilter(c)
	if err != nil {
		return err
	}

	items, err := h.uc.AllStudentAssignments(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "")
}

// AllAssignmentQuestions lists a submission's review questions.
func (h *AssignmentHandler) AllAssignmentQuestions(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	questions, err := h.uc.AllAssignmentQuestions(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, questions, "")
}

// assignmentFilter reads the shared listing filters from the query string.
func assignmentFilter(c echo.Context) (*usecase.AssignmentListFilter, error) {
	filter := &usecase.AssignmentListFilter{
		AssignmentName: queryString(c, "name"),
		CourseName:     queryString(c, "courseName"),
	}

	if raw := c.QueryParam("dueAfter"); raw != "" {
		due, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("dueAfter must be RFC3339")
		}
		filter.DueAfter = &due
	}

	return filter, nil
}
