package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("Request body is required.")
		}
		return domain.Validation("Invalid request body.")
	}
	return nil
}

func queryID(r *http.Request, param string) (primitive.ObjectID, error) {
	return domain.ParseID(param, r.URL.Query().Get(param))
}

// fail logs err at a level matching its status and writes the error response.
func fail(w http.ResponseWriter, r *http.Request, log logger.Logger, msg string, err error) {
	status := response.HTTPStatusFromError(err)
	fields := logger.Fields{"status": status, "error": err.Error()}
	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), msg, fields)
	} else {
		log.Debug(msg, fields)
	}
	response.RespondWithDomainError(w, err)
}
