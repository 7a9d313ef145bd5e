package handler

import (
	"net/http"

	"classroom/internal/delivery/http/response"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReportHandler holds dependencies for localization report endpoints.
type ReportHandler struct {
	uc usecase.ReportUsecase
}

// NewReportHandler is the constructor for ReportHandler, injected by Fx.
func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetReportByID returns a single report.
func (h *ReportHandler) GetReportByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	report, err := h.uc.GetReportByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, report, "")
}

// AllReports lists all reports.
func (h *ReportHandler) AllReports(c echo.Context) error {
	reports, err := h.uc.AllReports(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reports, "")
}

// AllReportsByStudentAssignment lists the reports for one submission.
func (h *ReportHandler) AllReportsByStudentAssignment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	reports, err := h.uc.AllReportsByStudentAssignment(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reports, "")
}
