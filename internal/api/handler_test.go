package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/internal/messaging"
	"blogapi/internal/service"
	"blogapi/pkg/logger"
)

// Each spy embeds a nil interface, so any storage call panics and the
// recoverer turns it into a 500.
type spyUsers struct{ domain.UserRepository }
type spyCategories struct{ domain.CategoryRepository }
type spyBlogs struct{ domain.BlogRepository }
type spyAuditLogs struct{ domain.AuditLogRepository }

func newUntouchableAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logger.Nop()
	publisher := messaging.NewNopPublisher()
	auditLogs := service.NewAuditLogService(spyAuditLogs{}, log)
	users := service.NewUserService(spyUsers{}, auditLogs, publisher, log)
	categories := service.NewCategoryService(spyUsers{}, spyCategories{}, auditLogs, publisher, log)
	blogs := service.NewBlogService(spyUsers{}, spyCategories{}, spyBlogs{}, auditLogs, publisher, log)

	return &testAPI{
		users:      users,
		categories: categories,
		blogs:      blogs,
		handler: NewRouter(RouterConfig{
			Logger:          log,
			UserService:     users,
			CategoryService: categories,
			BlogService:     blogs,
			AuditLogService: auditLogs,
		}),
	}
}

func TestMalformedIdentifiersNeverReachStorage(t *testing.T) {
	a := newUntouchableAPI(t)
	valid := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		method  string
		target  string
		body    interface{}
		message string
	}{
		{"patch user", http.MethodPatch, "/api/users", map[string]string{"userId": "bad-id", "newUsername": "x"}, "Invalid or missing userId."},
		{"patch user without id", http.MethodPatch, "/api/users", map[string]string{"newUsername": "x"}, "Invalid or missing userId."},
		{"delete user", http.MethodDelete, "/api/users?userId=123", nil, "Invalid or missing userId."},
		{"list categories", http.MethodGet, "/api/categories?userId=zz", nil, "Invalid or missing userId."},
		{"create category", http.MethodPost, "/api/categories", map[string]string{"title": "Tech"}, "Invalid or missing userId."},
		{"update category", http.MethodPatch, "/api/categories/nothex?userId=" + valid, map[string]string{"title": "x"}, "Invalid or missing categoryId."},
		{"delete category", http.MethodDelete, "/api/categories/" + valid + "?userId=abc", nil, "Invalid or missing userId."},
		{"list blogs", http.MethodGet, "/api/blogs?userId=" + valid + "&categoryId=bad", nil, "Invalid or missing categoryId."},
		{"get blog", http.MethodGet, "/api/blogs/xyz?userId=" + valid + "&categoryId=" + valid, nil, "Invalid or missing blogId."},
		{"create blog", http.MethodPost, "/api/blogs?userId=bad&categoryId=" + valid, map[string]string{"title": "t", "description": "d"}, "Invalid or missing userId."},
		{"update blog", http.MethodPatch, "/api/blogs/" + valid[:23] + "?userId=" + valid, map[string]string{"title": "t"}, "Invalid or missing blogId."},
		{"delete blog", http.MethodDelete, "/api/blogs/" + valid + "?userId=", nil, "Invalid or missing userId."},
		{"audit logs", http.MethodGet, "/api/audit-logs?entityId=nope", nil, "Invalid or missing entityId."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestValidationPrecedesStorage(t *testing.T) {
	a := newUntouchableAPI(t)
	valid := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		method string
		target string
		body   interface{}
	}{
		{"signup without password", http.MethodPost, "/api/users", map[string]string{"email": "a@b.c", "username": "a"}},
		{"empty new username", http.MethodPatch, "/api/users", map[string]string{"userId": valid, "newUsername": ""}},
		{"blank category title", http.MethodPost, "/api/categories?userId=" + valid, map[string]string{"title": ""}},
		{"blog without description", http.MethodPost, "/api/blogs?userId=" + valid + "&categoryId=" + valid, map[string]string{"title": "t"}},
		{"empty blog patch", http.MethodPatch, "/api/blogs/" + valid + "?userId=" + valid, map[string]string{}},
		{"missing body", http.MethodPost, "/api/categories?userId=" + valid, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestStorageFailureIsInternalError(t *testing.T) {
	a := newUntouchableAPI(t)

	rec := a.do(t, http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])
}
