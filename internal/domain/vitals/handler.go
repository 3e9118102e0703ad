package vitals

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// ReportBuilder renders one record into a PDF file and returns its path.
// The call blocks until a render slot is free and the file is written.
type ReportBuilder interface {
	Generate(ctx context.Context, patientID string, rec *Record) (string, error)
}

type Handler struct {
	svc     *Service
	reports ReportBuilder
}

func NewHandler(svc *Service, reports ReportBuilder) *Handler {
	return &Handler{svc: svc, reports: reports}
}

// RegisterRoutes mounts the vitals API on a group rooted at /vitals.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateVitals)
	g.GET("/:patient_id", h.ListVitals)
	g.GET("/:patient_id/pdf", h.VitalsPDF)
}

func (h *Handler) CreateVitals(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	id, err := h.svc.Create(c.Request().Context(), &rec)
	if errors.Is(err, ErrMissingPatientID) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save vitals")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Vitals saved",
		"patient_id": rec.PatientID,
		"id":         id,
	})
}

func (h *Handler) ListVitals(c echo.Context) error {
	recs, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patient_id"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No vitals for that patient")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list vitals")
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) VitalsPDF(c echo.Context) error {
	patientID := c.Param("patient_id")
	rec, err := h.svc.LatestByPatient(c.Request().Context(), patientID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No vitals to make PDF")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load vitals")
	}

	path, err := h.reports.Generate(c.Request().Context(), patientID, rec)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not generate PDF")
	}
	return c.Attachment(path, filepath.Base(path))
}
