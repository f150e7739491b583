package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luisfernandomp/ApiDataDriven/internal/db"
	"github.com/luisfernandomp/ApiDataDriven/internal/models"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/service"
	"github.com/luisfernandomp/ApiDataDriven/internal/tokens"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, _ := event.(map[string]any)
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (f *fakePublisher) last() (recordedEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return recordedEvent{}, false
	}
	return f.events[len(f.events)-1], true
}

type fakeIndexer struct {
	mu      sync.Mutex
	docs    map[uint]models.Product
	deleted []uint
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{docs: map[uint]models.Product{}}
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[p.ID] = *p
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndexer) doc(id uint) (models.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.docs[id]
	return p, ok
}

func (f *fakeIndexer) deletedIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.deleted...)
}

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Publisher *fakePublisher
	Indexer   *fakeIndexer
	JWTSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "shop.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	secret := []byte("test-jwt-secret")
	pub := &fakePublisher{}
	idx := newFakeIndexer()
	gormRepo := &repo.GormRepo{DB: database}

	e := echo.New()
	Register(e, &Deps{
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: gormRepo, Publisher: pub, Indexer: idx}},
		UserHandler:    &UserHTTP{Svc: &service.AuthService{Repo: gormRepo, JWTSecret: secret, Publisher: pub}},
		JWTSecret:      secret,
	})

	return &testEnv{T: t, E: e, DB: database, Publisher: pub, Indexer: idx, JWTSecret: secret}
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// employeeToken registers and logs in a fresh user; registration always
// yields the employee role.
func (env *testEnv) employeeToken(username string) string {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/v1/users", map[string]string{
		"username": username,
		"password": "secret",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/v1/users/login", map[string]string{
		"username": username,
		"password": "secret",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}

// tokenWithRole mints a signed token directly, for roles registration can
// never produce.
func (env *testEnv) tokenWithRole(role string) string {
	env.T.Helper()
	token, err := tokens.Sign(999, role, env.JWTSecret)
	require.NoError(env.T, err)
	return token
}

func (env *testEnv) seedCategory(title string) models.Category {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/v1/categories", map[string]string{"title": title}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)
	return decodeJSON[models.Category](env.T, rec)
}

func (env *testEnv) seedProduct(token string, categoryID uint, title string, price float64) models.Product {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/v1/products", map[string]any{
		"title":       title,
		"description": "test description",
		"price":       price,
		"category_id": categoryID,
	}, token)
	require.Equal(env.T, http.StatusOK, rec.Code)
	return decodeJSON[models.Product](env.T, rec)
}
