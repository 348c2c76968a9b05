package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/api/middleware"
	"blogapi/internal/domain"
	"blogapi/internal/messaging"
	"blogapi/internal/repository/memory"
	"blogapi/internal/security"
	"blogapi/internal/service"
	"blogapi/pkg/logger"
)

type testAPI struct {
	handler    http.Handler
	store      *memory.Store
	users      domain.UserService
	categories domain.CategoryService
	blogs      domain.BlogService
	tokens     *security.TokenManager
}

type testOption func(*RouterConfig)

func withAuth(tokens *security.TokenManager) testOption {
	return func(cfg *RouterConfig) { cfg.Tokens = tokens }
}

func withRateLimit(rps float64, burst int) testOption {
	return func(cfg *RouterConfig) { cfg.RateLimiter = middleware.NewRateLimiter(rps, burst) }
}

func withHealth(h *HealthHandler) testOption {
	return func(cfg *RouterConfig) { cfg.Health = h }
}

func newTestAPI(t *testing.T, opts ...testOption) *testAPI {
	t.Helper()

	log := logger.Nop()
	store := memory.NewStore()
	publisher := messaging.NewNopPublisher()
	auditLogs := service.NewAuditLogService(store.AuditLogs(), log)

	a := &testAPI{
		store:      store,
		users:      service.NewUserService(store.Users(), auditLogs, publisher, log),
		categories: service.NewCategoryService(store.Users(), store.Categories(), auditLogs, publisher, log),
		blogs:      service.NewBlogService(store.Users(), store.Categories(), store.Blogs(), auditLogs, publisher, log),
	}

	cfg := RouterConfig{
		Logger:          log,
		UserService:     a.users,
		CategoryService: a.categories,
		BlogService:     a.blogs,
		AuditLogService: auditLogs,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	a.tokens = cfg.Tokens
	a.handler = NewRouter(cfg)
	return a
}

func (a *testAPI) do(t *testing.T, method, target string, body interface{}, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *testAPI) seedUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := a.users.CreateUser(context.Background(), domain.CreateUserInput{
		Email:    name + "@example.com",
		Username: name,
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}

func (a *testAPI) seedCategory(t *testing.T, userID primitive.ObjectID, title string) *domain.Category {
	t.Helper()
	category, err := a.categories.CreateCategory(context.Background(), userID, title)
	require.NoError(t, err)
	return category
}

func (a *testAPI) seedBlog(t *testing.T, userID, categoryID primitive.ObjectID, title, description string) *domain.Blog {
	t.Helper()
	blog, err := a.blogs.CreateBlog(context.Background(), userID, categoryID, domain.BlogInput{Title: title, Description: description})
	require.NoError(t, err)
	return blog
}

func TestCreateCategory(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")

	rec := a.do(t, http.MethodPost, "/api/categories?userId="+user.ID.Hex(), map[string]string{"title": "Tech"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Category was successfully created.", body["message"])
	category := body["category"].(map[string]interface{})
	assert.Equal(t, "Tech", category["title"])
	assert.Equal(t, user.ID.Hex(), category["user"])
	assert.NotEmpty(t, category["id"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestListBlogsByKeyword(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")
	category := a.seedCategory(t, user.ID, "Frontend")
	a.seedBlog(t, user.ID, category.ID, "React Basics", "Components and props")
	a.seedBlog(t, user.ID, category.ID, "Vue Guide", "Templates")

	rec := a.do(t, http.MethodGet, "/api/blogs?userId="+user.ID.Hex()+"&categoryId="+category.ID.Hex()+"&keywords=react", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	blogs := body["blogs"].([]interface{})
	require.Len(t, blogs, 1)
	assert.Equal(t, "React Basics", blogs[0].(map[string]interface{})["title"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(domain.DefaultPageSize), body["limit"])
}

func TestListBlogsDateRange(t *testing.T) {
	a := newTestAPI(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a.store.SetClock(func() time.Time { return now })

	user := a.seedUser(t, "alice")
	category := a.seedCategory(t, user.ID, "c")
	for i, title := range []string{"Third", "Fourth", "Fifth"} {
		now = time.Date(2024, 5, 3+i, 12, 0, 0, 0, time.UTC)
		a.seedBlog(t, user.ID, category.ID, title, "d")
	}

	list := "/api/blogs?userId=" + user.ID.Hex() + "&categoryId=" + category.ID.Hex()
	titles := func(rec *httptest.ResponseRecorder) []string {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []string
		for _, b := range decode(t, rec)["blogs"].([]interface{}) {
			out = append(out, b.(map[string]interface{})["title"].(string))
		}
		return out
	}

	assert.Equal(t, []string{"Fourth", "Fifth"}, titles(a.do(t, http.MethodGet, list+"&startDate=2024-05-04", nil)))
	assert.Equal(t, []string{"Third", "Fourth"}, titles(a.do(t, http.MethodGet, list+"&endDate=2024-05-04T23:59:59Z", nil)))
	assert.Equal(t, []string{"Fifth"}, titles(a.do(t, http.MethodGet, list+"&page=2&limit=2", nil)))
}

func TestListBlogsRejectsBadQuery(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")
	category := a.seedCategory(t, user.ID, "c")
	base := "/api/blogs?userId=" + user.ID.Hex() + "&categoryId=" + category.ID.Hex()

	for _, q := range []string{
		"&startDate=not-a-date",
		"&endDate=2024-13-45",
		"&startDate=2024-02-01&endDate=2024-01-01",
		"&page=0",
		"&limit=1000",
		"&page=100000000000000001&limit=100",
		"&page=9223372036854775807",
	} {
		rec := a.do(t, http.MethodGet, base+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NotEmpty(t, decode(t, rec)["message"], q)
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	a := newTestAPI(t)
	existing := a.seedUser(t, "alice")

	rec := a.do(t, http.MethodDelete, "/api/users?userId="+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "not found")

	users, err := a.users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, existing.ID, users[0].ID)
}

func TestUserLifecycle(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users", map[string]string{
		"email": "alice@example.com", "username": "alice", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "User is created.", body["message"])
	user := body["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	id := user["id"].(string)

	rec = a.do(t, http.MethodPost, "/api/users", map[string]string{
		"email": "alice@example.com", "username": "other", "password": "secret",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "Error in creating user")

	rec = a.do(t, http.MethodPatch, "/api/users", map[string]string{"userId": id, "newUsername": "alicia"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, "User is updated", body["message"])
	assert.Equal(t, "alicia", body["user"].(map[string]interface{})["username"])
	assert.Equal(t, "alice@example.com", body["user"].(map[string]interface{})["email"])

	rec = a.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = a.do(t, http.MethodDelete, "/api/users?userId="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User is deleted.", decode(t, rec)["message"])
}

func TestCategoryOwnership(t *testing.T) {
	a := newTestAPI(t)
	alice := a.seedUser(t, "alice")
	bob := a.seedUser(t, "bob")
	category := a.seedCategory(t, alice.ID, "Tech")

	rec := a.do(t, http.MethodPatch, "/api/categories/"+category.ID.Hex()+"?userId="+bob.ID.Hex(), map[string]string{"title": "Mine"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/categories/"+category.ID.Hex()+"?userId="+bob.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/categories?userId="+alice.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Tech"`)

	rec = a.do(t, http.MethodPatch, "/api/categories/"+category.ID.Hex()+"?userId="+alice.ID.Hex(), map[string]string{"title": "Science"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category is updated", decode(t, rec)["message"])

	rec = a.do(t, http.MethodDelete, "/api/categories/"+category.ID.Hex()+"?userId="+alice.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `Category: "Science" was successfully deleted.`, decode(t, rec)["message"])
}

func TestUnknownReferencesAreBadRequests(t *testing.T) {
	a := newTestAPI(t)
	alice := a.seedUser(t, "alice")
	unknown := primitive.NewObjectID().Hex()

	rec := a.do(t, http.MethodPost, "/api/categories?userId="+unknown, map[string]string{"title": "Tech"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/blogs?userId="+alice.ID.Hex()+"&categoryId="+unknown, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Error: Either the Category not found or it does not belong to the user.", decode(t, rec)["message"])
}

func TestBlogLifecycle(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")
	category := a.seedCategory(t, user.ID, "Frontend")
	scope := "?userId=" + user.ID.Hex() + "&categoryId=" + category.ID.Hex()

	rec := a.do(t, http.MethodPost, "/api/blogs"+scope, map[string]string{"title": "React Basics", "description": "Props"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Blog was successfully created.", body["message"])
	blog := body["blog"].(map[string]interface{})
	assert.Equal(t, "react-basics", blog["slug"])
	id := blog["id"].(string)

	rec = a.do(t, http.MethodGet, "/api/blogs/"+id+scope, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "React Basics", decode(t, rec)["blog"].(map[string]interface{})["title"])

	rec = a.do(t, http.MethodPatch, "/api/blogs/"+id+"?userId="+user.ID.Hex(), map[string]string{"title": "React Hooks"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	blog = decode(t, rec)["blog"].(map[string]interface{})
	assert.Equal(t, "React Hooks", blog["title"])
	assert.Equal(t, "Props", blog["description"])

	rec = a.do(t, http.MethodPatch, "/api/blogs/"+primitive.NewObjectID().Hex()+"?userId="+user.ID.Hex(), map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/blogs/"+id+"?userId="+user.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/blogs/"+id+scope, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog was not found.", decode(t, rec)["message"])
}

func TestInvalidBody(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")

	rec := a.do(t, http.MethodPost, "/api/categories?userId="+user.ID.Hex(), "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body.", decode(t, rec)["message"])

	rec = a.do(t, http.MethodPost, "/api/categories?userId="+user.ID.Hex(), map[string]string{"title": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditLogs(t *testing.T) {
	a := newTestAPI(t)
	user := a.seedUser(t, "alice")
	a.seedCategory(t, user.ID, "Tech")

	rec := a.do(t, http.MethodGet, "/api/audit-logs?entityType=category", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	logs := decode(t, rec)["logs"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, "create", logs[0].(map[string]interface{})["action"])

	rec = a.do(t, http.MethodGet, "/api/audit-logs?entityType=invoice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/audit-logs?page=100000000000000001&limit=100", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page is too large.", decode(t, rec)["message"])
}

func TestAuthentication(t *testing.T) {
	a := newTestAPI(t, withAuth(security.NewTokenManager("test-secret", time.Hour)))
	a.seedUser(t, "alice")

	rec := a.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["message"])

	rec = a.do(t, http.MethodGet, "/api/users", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode(t, rec)["token"].(string)

	rec = a.do(t, http.MethodGet, "/api/users", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users", map[string]string{
		"email": "bob@example.com", "username": "bob", "password": "secret",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, "signup stays public")
}

func TestRateLimit(t *testing.T) {
	a := newTestAPI(t, withRateLimit(0.001, 2))

	for i := 0; i < 2; i++ {
		rec := a.do(t, http.MethodGet, "/api/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := a.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestHealthEndpoints(t *testing.T) {
	failing := CheckFunc{Service: "database", Ping: func(context.Context) error { return errors.New("no server") }}
	a := newTestAPI(t, withHealth(NewHealthHandler(logger.Nop(), failing)))

	rec := a.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec)["status"])

	rec = a.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, []interface{}{"database: no server"}, decode(t, rec)["issues"])
}

func TestUnknownRoute(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode(t, rec)["message"])
}
