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

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, (*models.Product)(nil))
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products_by_category")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	products, err := h.Svc.GetProductsByCategory(ctx, id)
	if err != nil {
		l.Error("get_products_by_category_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_create_error", "status", 400, "reason", "persistence", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not add this product")
	}

	l.Info("create_product_success", "productID", created.ID)
	return c.JSON(http.StatusOK, created)
}

func (h *CatalogHTTP) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.replace_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_replace_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.ID != id {
		l.Warn("product_replace_error", "status", 404, "reason", "id mismatch")
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	updated, err := h.Svc.ReplaceProduct(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_replace_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrConflict):
			l.Warn("product_replace_error", "status", 409, "reason", "conflict", "error", err)
			return echo.NewHTTPError(http.StatusConflict, "this record has already been updated")
		default:
			l.Error("product_replace_error", "status", 400, "reason", "persistence", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "could not update the product")
		}
	}

	l.Info("replace_product_success", "productID", updated.ID)
	return c.JSON(http.StatusOK, updated)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_delete_error", "status", 400, "reason", "persistence", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not delete the product")
	}

	l.Info("delete_product_success", "productID", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "product successfully removed"})
}
