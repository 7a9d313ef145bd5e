package handler

import (
	"net/http"

	"classroom/internal/delivery/http/response"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AnalyzerHandler holds dependencies for analyzer endpoints.
type AnalyzerHandler struct {
	uc usecase.AnalyzerUsecase
}

// NewAnalyzerHandler is the constructor for AnalyzerHandler, injected by Fx.
func NewAnalyzerHandler(uc usecase.AnalyzerUsecase) *AnalyzerHandler {
	return &AnalyzerHandler{uc: uc}
}

// UpsertAnalyzer stores an analyzer binary and its metadata.
func (h *AnalyzerHandler) UpsertAnalyzer(c echo.Context) error {
	var input usecase.UpsertAnalyzerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid analyzer input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	analyzer, err := h.uc.UpsertAnalyzer(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, analyzer, "Analyzer saved")
}

// GetAnalyzerByID returns one analyzer's metadata.
func (h *AnalyzerHandler) GetAnalyzerByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	analyzer, err := h.uc.GetAnalyzerByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, analyzer, "")
}

// AllAnalyzers lists all analyzers.
func (h *AnalyzerHandler) AllAnalyzers(c echo.Context) error {
	analyzers, err := h.uc.AllAnalyzers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, analyzers, "")
}
