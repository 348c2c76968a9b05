package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type BlogHandler struct {
	service domain.BlogService
	logger  logger.Logger
}

func NewBlogHandler(service domain.BlogService, logger logger.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "List blogs request rejected", err)
		return
	}

	categoryID, err := queryID(r, "categoryId")
	if err != nil {
		fail(w, r, h.logger, "List blogs request rejected", err)
		return
	}

	q := r.URL.Query()
	query, err := domain.NewBlogQuery(userID, categoryID, domain.BlogQueryParams{
		Keywords:  q.Get("keywords"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Page:      q.Get("page"),
		Limit:     q.Get("limit"),
	})
	if err != nil {
		fail(w, r, h.logger, "List blogs request rejected", err)
		return
	}

	blogs, err := h.service.ListBlogs(r.Context(), query)
	if err != nil {
		fail(w, r, h.logger, "Blogs could not be listed", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"blogs": blogs,
		"page":  query.Page,
		"limit": query.Limit,
	})
}

func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Get blog request rejected", err)
		return
	}

	categoryID, err := queryID(r, "categoryId")
	if err != nil {
		fail(w, r, h.logger, "Get blog request rejected", err)
		return
	}

	blogID, err := domain.ParseID("blogId", chi.URLParam(r, "blog"))
	if err != nil {
		fail(w, r, h.logger, "Get blog request rejected", err)
		return
	}

	blog, err := h.service.GetBlog(r.Context(), domain.BlogKey{ID: blogID, User: userID, Category: categoryID})
	if err != nil {
		fail(w, r, h.logger, "Blog could not be fetched", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"blog": blog,
	})
}

func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Create blog request rejected", err)
		return
	}

	categoryID, err := queryID(r, "categoryId")
	if err != nil {
		fail(w, r, h.logger, "Create blog request rejected", err)
		return
	}

	var input domain.BlogInput
	if err := decodeJSON(w, r, &input); err != nil {
		fail(w, r, h.logger, "Create blog request rejected", err)
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), userID, categoryID, input)
	if err != nil {
		fail(w, r, h.logger, "Blog could not be created", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog was successfully created.",
		"blog":    blog,
	})
}

func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Update blog request rejected", err)
		return
	}

	blogID, err := domain.ParseID("blogId", chi.URLParam(r, "blog"))
	if err != nil {
		fail(w, r, h.logger, "Update blog request rejected", err)
		return
	}

	var patch domain.BlogPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, h.logger, "Update blog request rejected", err)
		return
	}

	blog, err := h.service.UpdateBlog(r.Context(), userID, blogID, patch)
	if err != nil {
		fail(w, r, h.logger, "Blog could not be updated", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog was successfully updated.",
		"blog":    blog,
	})
}

func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Delete blog request rejected", err)
		return
	}

	blogID, err := domain.ParseID("blogId", chi.URLParam(r, "blog"))
	if err != nil {
		fail(w, r, h.logger, "Delete blog request rejected", err)
		return
	}

	blog, err := h.service.DeleteBlog(r.Context(), userID, blogID)
	if err != nil {
		fail(w, r, h.logger, "Blog could not be deleted", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog was successfully deleted.",
		"blog":    blog,
	})
}

func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListBlogs)
	r.Post("/", h.CreateBlog)
	r.Get("/{blog}", h.GetBlog)
	r.Patch("/{blog}", h.UpdateBlog)
	r.Delete("/{blog}", h.DeleteBlog)
}
