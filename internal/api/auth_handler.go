package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/internal/security"
	"blogapi/pkg/logger"
)

type AuthHandler struct {
	users  domain.UserService
	tokens *security.TokenManager
	logger logger.Logger
}

func NewAuthHandler(users domain.UserService, tokens *security.TokenManager, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, "Login request rejected", err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, h.logger, "Login failed", err)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Token could not be signed", logger.Fields{"user_id": user.ID.Hex(), "error": err.Error()})
		response.RespondWithError(w, http.StatusInternalServerError, "Error in signing token: "+err.Error())
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}
