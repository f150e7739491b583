package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/luisfernandomp/ApiDataDriven/internal/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	UserHandler    *UserHTTP
	SearchHandler  *SearchHTTP // nil when Elasticsearch is not configured
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireAuth := auth.RequireAuth(d.JWTSecret)
	requireEmployee := auth.RequireRole("employee")

	// Category mutations carry no auth requirement upstream; kept anonymous
	// on purpose, do not mirror the product policy here.
	categories := e.Group("/v1/categories")
	categories.GET("", d.CatalogHandler.GetCategories)
	categories.GET("/:id", d.CatalogHandler.GetCategory)
	categories.POST("", d.CatalogHandler.CreateCategory)
	categories.PUT("/:id", d.CatalogHandler.ReplaceCategory)
	categories.DELETE("/:id", d.CatalogHandler.DeleteCategory)

	products := e.Group("/v1/products")
	products.GET("", d.CatalogHandler.GetProducts)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.SearchProducts)
	}
	products.GET("/:id", d.CatalogHandler.GetProduct, requireAuth)
	products.GET("/categories/:id", d.CatalogHandler.GetProductsByCategory, requireAuth)
	products.POST("", d.CatalogHandler.CreateProduct, requireAuth)
	products.PUT("/:id", d.CatalogHandler.ReplaceProduct, requireAuth)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, requireAuth, requireEmployee)

	users := e.Group("/v1/users")
	users.POST("", d.UserHandler.Register)
	users.POST("/login", d.UserHandler.Login)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return uint(id), nil
}
