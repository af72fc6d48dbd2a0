package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/transport"
	"github.com/geodateam/team-presence/pkg/logger"
)

type ServiceAPI interface {
	ClockIn(ctx context.Context, userID string, dto ClockInDTO) (*Record, error)
	ClockOut(ctx context.Context, userID string) (*Record, error)
	Today(ctx context.Context, userID string) (*TodayResponse, error)
	ListHistory(ctx context.Context, userID string, filter HistoryFilter) ([]*Record, error)
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

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockInDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("ClockIn: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	rec, err := h.Service.ClockIn(r.Context(), u.ID, dto)
	if err != nil {
		h.Logger.Error("ClockIn: service error", "error", err, "user_id", u.ID)

		switch {
		case errors.Is(err, ErrAlreadyClockedIn):
			h.WriteError(w, http.StatusConflict, "already clocked in today")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rec, err := h.Service.ClockOut(r.Context(), u.ID)
	if err != nil {
		h.Logger.Error("ClockOut: service error", "error", err, "user_id", u.ID)

		switch {
		case errors.Is(err, ErrNoOpenRecord):
			h.WriteError(w, http.StatusNotFound, "no clock-in record for today")
		case errors.Is(err, ErrAlreadyClockedOut):
			h.WriteError(w, http.StatusConflict, "already clocked out today")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp, err := h.Service.Today(r.Context(), u.ID)
	if err != nil {
		h.Logger.Error("Today: service error", "error", err, "user_id", u.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := HistoryFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	// Admins may read another user's history.
	userID := u.ID
	if target := q.Get("user_id"); target != "" && u.IsAdmin() {
		userID = target
	}

	records, err := h.Service.ListHistory(r.Context(), userID, filter)
	if err != nil {
		h.Logger.Error("History: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	if records == nil {
		records = []*Record{}
	}
	h.WriteJSON(w, http.StatusOK, records)
}
