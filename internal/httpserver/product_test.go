package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisfernandomp/ApiDataDriven/internal/models"
)

func TestProductListIsAnonymousAndJoined(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("lister")
	cat := env.seedCategory("Books")
	env.seedProduct(token, cat.ID, "Dune", 39.9)

	rec := env.do(http.MethodGet, "/v1/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeJSON[[]models.Product](t, rec)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Books", items[0].Category.Title)
}

func TestProductDetailRequiresToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("viewer")
	cat := env.seedCategory("Books")
	created := env.seedProduct(token, cat.ID, "Dune", 39.9)

	rec := env.do(http.MethodGet, "/v1/products/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/v1/products/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[models.Product](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Price, got.Price)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Books", got.Category.Title)
}

func TestProductGetAbsentReturnsNull(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("viewer")

	rec := env.do(http.MethodGet, "/v1/products/42", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestProductsByCategory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("shelver")
	books := env.seedCategory("Books")
	games := env.seedCategory("Games")
	env.seedProduct(token, books.ID, "Dune", 39.9)
	env.seedProduct(token, books.ID, "Neuromancer", 29.9)
	env.seedProduct(token, games.ID, "Chess", 19.9)

	rec := env.do(http.MethodGet, "/v1/products/categories/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/v1/products/categories/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeJSON[[]models.Product](t, rec)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, books.ID, it.CategoryID)
	}
}

func TestProductCreate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("creator")
	cat := env.seedCategory("Books")

	body := map[string]any{
		"title":       "Dune",
		"description": "science fiction novel",
		"price":       39.9,
		"category_id": cat.ID,
	}

	rec := env.do(http.MethodPost, "/v1/products", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/v1/products", body, token)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON[models.Product](t, rec)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Dune", created.Title)

	event, ok := env.Publisher.last()
	require.True(t, ok)
	assert.Equal(t, "product_events", event.Topic)
	assert.Equal(t, "product_created", event.Event["type"])
}

func TestProductCreateValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("creator")
	cat := env.seedCategory("Books")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing title", body: map[string]any{"price": 1.0, "category_id": cat.ID}},
		{name: "negative price", body: map[string]any{"title": "Dune", "price": -1.0, "category_id": cat.ID}},
		{name: "missing category", body: map[string]any{"title": "Dune", "price": 1.0}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/v1/products", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProductReplace(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("editor")
	cat := env.seedCategory("Books")
	created := env.seedProduct(token, cat.ID, "Dune", 39.9)

	body := map[string]any{
		"id":          created.ID,
		"title":       "Dune Messiah",
		"description": "test description",
		"price":       42.0,
		"category_id": cat.ID,
		"version":     created.Version,
	}

	rec := env.do(http.MethodPut, "/v1/products/1", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPut, "/v1/products/1", body, token)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeJSON[models.Product](t, rec)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, created.Version+1, updated.Version)

	// stale writer
	rec = env.do(http.MethodPut, "/v1/products/1", body, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// path id and body id disagree
	rec = env.do(http.MethodPut, "/v1/products/2", body, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductWritesKeepSearchIndexInStep(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("librarian")
	cat := env.seedCategory("Books")
	created := env.seedProduct(token, cat.ID, "Dune", 39.9)

	doc, ok := env.Indexer.doc(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Dune", doc.Title)

	body := map[string]any{
		"id":          created.ID,
		"title":       "Dune Messiah",
		"description": "test description",
		"price":       42.0,
		"category_id": cat.ID,
		"version":     created.Version,
	}
	rec := env.do(http.MethodPut, "/v1/products/1", body, token)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, ok = env.Indexer.doc(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Dune Messiah", doc.Title)
	assert.Equal(t, created.Version+1, doc.Version)

	rec = env.do(http.MethodDelete, "/v1/products/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok = env.Indexer.doc(created.ID)
	assert.False(t, ok)
	assert.Contains(t, env.Indexer.deletedIDs(), created.ID)
}

func TestProductDeleteRequiresEmployeeRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.employeeToken("owner")
	cat := env.seedCategory("Books")
	env.seedProduct(token, cat.ID, "Dune", 39.9)

	rec := env.do(http.MethodDelete, "/v1/products/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodDelete, "/v1/products/1", nil, env.tokenWithRole("user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, "/v1/products/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[struct {
		Message string `json:"message"`
	}](t, rec)
	assert.NotEmpty(t, resp.Message)

	rec = env.do(http.MethodGet, "/v1/products/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = env.do(http.MethodDelete, "/v1/products/1", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
