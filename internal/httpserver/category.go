package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
	"github.com/luisfernandomp/ApiDataDriven/internal/models"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/service"
	"github.com/luisfernandomp/ApiDataDriven/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	categories, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("get_categories_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// absence is not an error for reads: 200 with a null body
			return c.JSON(http.StatusOK, (*models.Category)(nil))
		}
		l.Error("get_category_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get category")
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("category_create_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("category_create_error", "status", 400, "reason", "persistence", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not add this category")
	}

	l.Info("create_category_success", "categoryID", created.ID)
	return c.JSON(http.StatusOK, created)
}

func (h *CatalogHTTP) ReplaceCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.replace_category")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_replace_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.ID != id {
		l.Warn("category_replace_error", "status", 404, "reason", "id mismatch")
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	updated, err := h.Svc.ReplaceCategory(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("category_replace_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrConflict):
			l.Warn("category_replace_error", "status", 409, "reason", "conflict", "error", err)
			return echo.NewHTTPError(http.StatusConflict, "this record has already been updated")
		default:
			l.Error("category_replace_error", "status", 400, "reason", "persistence", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "could not update the category")
		}
	}

	l.Info("replace_category_success", "categoryID", updated.ID)
	return c.JSON(http.StatusOK, updated)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("category_delete_error", "status", 404, "reason", "not found")
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("category_delete_error", "status", 400, "reason", "persistence", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not delete the category")
	}

	l.Info("delete_category_success", "categoryID", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "category successfully removed"})
}
