package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type AuditLogHandler struct {
	service domain.AuditLogService
	logger  logger.Logger
}

func NewAuditLogHandler(service domain.AuditLogService, logger logger.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuditLogHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.AuditLogFilter

	if v := q.Get("entityType"); v != "" {
		filter.EntityType = domain.EntityType(v)
		if !filter.EntityType.Valid() {
			fail(w, r, h.logger, "Audit log request rejected",
				domain.Validation("entityType must be one of user, category, blog."))
			return
		}
	}

	if v := q.Get("entityId"); v != "" {
		id, err := domain.ParseID("entityId", v)
		if err != nil {
			fail(w, r, h.logger, "Audit log request rejected", err)
			return
		}
		filter.EntityID = id
	}

	page, err := positiveInt(q.Get("page"), 1, 0, "page")
	if err != nil {
		fail(w, r, h.logger, "Audit log request rejected", err)
		return
	}
	limit, err := positiveInt(q.Get("limit"), domain.DefaultPageSize, domain.MaxPageSize, "limit")
	if err != nil {
		fail(w, r, h.logger, "Audit log request rejected", err)
		return
	}
	if _, err := domain.PageOffset(page, limit); err != nil {
		fail(w, r, h.logger, "Audit log request rejected", err)
		return
	}

	logs, err := h.service.GetLogs(r.Context(), filter, page, limit)
	if err != nil {
		fail(w, r, h.logger, "Audit logs could not be fetched", err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"page":  page,
		"limit": limit,
	})
}

// positiveInt parses an optional integer query value. max <= 0 means no
// upper bound.
func positiveInt(value string, def, max int, param string) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || (max > 0 && n > max) {
		if max > 0 {
			return 0, domain.Validation(fmt.Sprintf("%s must be between 1 and %d.", param, max))
		}
		return 0, domain.Validation(fmt.Sprintf("%s must be a positive integer.", param))
	}
	return n, nil
}

func (h *AuditLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.GetLogs)
}
