package router

import (
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	pkgserver "github.com/DjordjeVuckovic/weight-forge/pkg/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RunsRouter serves archived benchmark runs over HTTP.
type RunsRouter struct {
	e      *echo.Echo
	reader storage.RunReader
	health pkgserver.HealthChecker
}

func NewRunsRouter(e *echo.Echo, reader storage.RunReader, health pkgserver.HealthChecker) *RunsRouter {
	if health == nil {
		health = pkgserver.NewOkHealthChecker()
	}
	return &RunsRouter{
		e:      e,
		reader: reader,
		health: health,
	}
}

func (r *RunsRouter) Bind() {
	r.e.GET("/healthz", r.healthHandler)
	r.e.GET("/api/v1/runs", r.listRunsHandler)
	r.e.GET("/api/v1/runs/:id", r.getRunHandler)
}

func (r *RunsRouter) healthHandler(c echo.Context) error {
	if !r.health.Healthy(c.Request().Context()) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *RunsRouter) listRunsHandler(c echo.Context) error {
	summaries, err := r.reader.ListRuns(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, summaries)
}

func (r *RunsRouter) getRunHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id must be a valid run id"})
	}

	run, err := r.reader.GetRun(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "run not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, run)
}
