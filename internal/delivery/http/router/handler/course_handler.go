package handler

import (
	"net/http"

	"classroom/internal/delivery/http/response"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CourseHandler holds dependencies for course and group endpoints.
type CourseHandler struct {
	uc usecase.CourseUsecase
}

// NewCourseHandler is the constructor for CourseHandler, injected by Fx.
func NewCourseHandler(uc usecase.CourseUsecase) *CourseHandler {
	return &CourseHandler{uc: uc}
}

// UpsertCourse creates or updates a course.
func (h *CourseHandler) UpsertCourse(c echo.Context) error {
	var input usecase.UpsertCourseInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid course input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	course, err := h.uc.UpsertCourse(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, course, "Course saved")
}

// RegisterCourse enrolls students on a course.
func (h *CourseHandler) RegisterCourse(c echo.Context) error {
	var input usecase.RegisterCourseInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	course, err := h.uc.RegisterCourse(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, course, "Students enrolled")
}

// UnregisterCourse removes one student's enrollment.
func (h *CourseHandler) UnregisterCourse(c echo.Context) error {
	var input usecase.UnregisterCourseInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid unregistration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	removed, err := h.uc.UnregisterCourse(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"unregistered": removed}, "Student unenrolled")
}

// RegisterGroup creates a group within a course.
func (h *CourseHandler) RegisterGroup(c echo.Context) error {
	var input usecase.RegisterGroupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid group input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	group, err := h.uc.RegisterGroup(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, group, "Group registered")
}

// GetCourseByID returns a course with its students and groups.
func (h *CourseHandler) GetCourseByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	course, err := h.uc.GetCourseByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, course, "")
}

// AllCourses lists courses, optionally filtered by instructedBy.
func (h *CourseHandler) AllCourses(c echo.Context) error {
	instructedBy, err := queryInt64(c, "instructedBy")
	if err != nil {
		return err
	}

	courses, err := h.uc.AllCourses(c.Request().Context(), &usecase.CourseListFilter{InstructedBy: instructedBy})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, courses, "")
}
