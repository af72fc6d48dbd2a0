package location

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/transport"
	"github.com/geodateam/team-presence/pkg/logger"
)

type ServiceAPI interface {
	Track(ctx context.Context, userID string, dto TrackDTO) (*Ping, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TrackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Track(r.Context(), u.ID, dto)
	if err != nil {
		h.Logger.Error("Track: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}
