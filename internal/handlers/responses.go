package handlers

import (
	"encoding/json"
	"net/http"

	"ecommerce-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// errorResponse is the JSON body returned for every failed request
type errorResponse struct {
	Error string           `json:"error"`
	Kind  models.ErrorKind `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps a domain error to an HTTP status and writes the JSON body.
// Unrecognized errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	kind := models.KindOf(err)

	var status int
	switch kind {
	case models.KindInvalidID, models.KindInvalidInput,
		models.KindCartEmpty, models.KindInsufficientStock,
		models.KindNothingProcessed:
		status = http.StatusBadRequest
	case models.KindProductNotFound, models.KindUserNotFound,
		models.KindTicketNotFound, models.KindItemNotFound:
		status = http.StatusNotFound
	case models.KindDuplicateEmail, models.KindVersionConflict:
		status = http.StatusConflict
	case models.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		logger.WithError(err).Error("unhandled error in request")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewError(models.KindInvalidInput, "invalid request body")
	}
	return nil
}
