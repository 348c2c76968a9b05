package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CategoryHandler struct {
	service domain.CategoryService
	logger  logger.Logger
}

func NewCategoryHandler(service domain.CategoryService, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

type categoryRequest struct {
	Title string `json:"title"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "List categories request rejected", err)
		return
	}

	categories, err := h.service.ListCategories(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, "Categories could not be listed", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Create category request rejected", err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, "Create category request rejected", err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Title)
	if err != nil {
		fail(w, r, h.logger, "Category could not be created", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Category was successfully created.",
		"category": category,
	})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Update category request rejected", err)
		return
	}

	categoryID, err := domain.ParseID("categoryId", chi.URLParam(r, "category"))
	if err != nil {
		fail(w, r, h.logger, "Update category request rejected", err)
		return
	}

	var patch domain.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, h.logger, "Update category request rejected", err)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, categoryID, patch)
	if err != nil {
		fail(w, r, h.logger, "Category could not be updated", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Category is updated",
		"category": category,
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Delete category request rejected", err)
		return
	}

	categoryID, err := domain.ParseID("categoryId", chi.URLParam(r, "category"))
	if err != nil {
		fail(w, r, h.logger, "Delete category request rejected", err)
		return
	}

	category, err := h.service.DeleteCategory(r.Context(), userID, categoryID)
	if err != nil {
		fail(w, r, h.logger, "Category could not be deleted", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf(`Category: "%s" was successfully deleted.`, category.Title),
		"category": category,
	})
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
	r.Patch("/{category}", h.UpdateCategory)
	r.Delete("/{category}", h.DeleteCategory)
}
