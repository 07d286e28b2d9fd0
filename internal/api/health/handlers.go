package health

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/api/apiutil"
)

type Response struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// Handler reports liveness and process uptime.
type Handler struct {
	startedAt time.Time
	now       func() time.Time
}

func NewHandler(startedAt time.Time) *Handler {
	return &Handler{startedAt: startedAt, now: time.Now}
}

// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := Response{
		Status:    "ok",
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:    now.Sub(h.startedAt).Seconds(),
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health response")
	}
}
