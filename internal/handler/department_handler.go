package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medmsg/internal/errors"
	"medmsg/internal/service"
)

// DepartmentHandler serves the read-only department list.
type DepartmentHandler struct {
	departments service.DepartmentService
}

// NewDepartmentHandler creates a new department handler.
func NewDepartmentHandler(departments service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {array} model.Department
// @Failure 500 {object} errors.ErrorResponse
// @Router /departments [get]
func (h *DepartmentHandler) List(c echo.Context) error {
	depts, err := h.departments.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list departments",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, depts)
}
