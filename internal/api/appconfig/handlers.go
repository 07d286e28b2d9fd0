// internal/api/appconfig/handlers.go
package appconfig

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/api/apiutil"
	"github.com/codr1/excerpt-config/internal/models"
)

const (
	MsgInvalidFormat = "Invalid configuration format"
	MsgSaveFailed    = "Failed to save configuration"
)

type configStore interface {
	Load(ctx context.Context) models.Document
	Save(ctx context.Context, doc models.Document) bool
}

// Handler serves the configuration document.
type Handler struct {
	store        configStore
	includeStack bool
}

// NewHandler wires the handlers to store. includeStack is forwarded to the
// catch-all error responder.
func NewHandler(store configStore, includeStack bool) *Handler {
	return &Handler{
		store:        store,
		includeStack: includeStack,
	}
}

// GET /api/config
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	doc := h.store.Load(r.Context())
	if err := apiutil.WriteJSON(w, http.StatusOK, doc); err != nil {
		logger.Error().Err(err).Str("ip", apiutil.ClientIP(r)).Msg("Failed to write configuration")
		apiutil.WriteError(w, r, err, h.includeStack)
		return
	}
	logger.Info().Str("ip", apiutil.ClientIP(r)).Msg("Configuration served")
}

// POST /api/config
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	ip := apiutil.ClientIP(r)

	candidate, err := apiutil.DecodeJSON(w, r)
	if err != nil {
		apiutil.WriteError(w, r, err, h.includeStack)
		return
	}

	// Checked here as well as in the store so bad input is a 400, not a 500.
	if err := models.ValidateDocument(candidate); err != nil {
		logger.Warn().Err(err).Str("ip", ip).Msg("Rejected invalid configuration")
		apiutil.WriteFailure(w, r, http.StatusBadRequest, MsgInvalidFormat)
		return
	}

	doc, _ := models.AsDocument(candidate)
	if !h.store.Save(r.Context(), doc) {
		logger.Error().Str("ip", ip).Msg("Failed to save configuration")
		apiutil.WriteFailure(w, r, http.StatusInternalServerError, MsgSaveFailed)
		return
	}

	logger.Info().Str("ip", ip).Msg("Configuration saved")
	if err := apiutil.WriteJSON(w, http.StatusOK, apiutil.SuccessResponse{Success: true}); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}
