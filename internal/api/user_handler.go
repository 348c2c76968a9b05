package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type UserHandler struct {
	service domain.UserService
	logger  logger.Logger
}

func NewUserHandler(service domain.UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

type updateUserRequest struct {
	UserID      string `json:"userId"`
	NewUsername string `json:"newUsername"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		fail(w, r, h.logger, "Users could not be listed", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateUserInput
	if err := decodeJSON(w, r, &input); err != nil {
		fail(w, r, h.logger, "Create user request rejected", err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), input)
	if err != nil {
		fail(w, r, h.logger, "User could not be created", err)
		return
	}

	response.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User is created.",
		"user":    user,
	})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, "Update user request rejected", err)
		return
	}

	userID, err := domain.ParseID("userId", req.UserID)
	if err != nil {
		fail(w, r, h.logger, "Update user request rejected", err)
		return
	}

	user, err := h.service.UpdateUsername(r.Context(), userID, req.NewUsername)
	if err != nil {
		fail(w, r, h.logger, "User could not be updated", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User is updated",
		"user":    user,
	})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		fail(w, r, h.logger, "Delete user request rejected", err)
		return
	}

	user, err := h.service.DeleteUser(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, "User could not be deleted", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User is deleted.",
		"user":    user,
	})
}

// RegisterPublicRoutes mounts signup, which needs no token.
func (h *UserHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/users", h.CreateUser)
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Patch("/users", h.UpdateUser)
	r.Delete("/users", h.DeleteUser)
}
