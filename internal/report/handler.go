package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/geodateam/team-presence/internal/core/common/dates"
	"github.com/geodateam/team-presence/internal/transport"
	"github.com/geodateam/team-presence/internal/user"
	"github.com/geodateam/team-presence/pkg/logger"
)

type ServiceAPI interface {
	AdminStats(ctx context.Context, today string) (*AdminStats, error)
	TeamMembers(ctx context.Context) ([]*user.User, error)
	TeamAttendanceStatus(ctx context.Context, today string) ([]*MemberStatus, error)
	UsersNotClockedIn(ctx context.Context, today string) ([]*user.User, error)
	SendReminders(ctx context.Context, userIDs []string) *ReminderResult
}

// Handler serves the admin dashboard endpoints. Role enforcement happens
// in the router's middleware chain, not here.
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

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.AdminStats(r.Context(), dates.Today())
	if err != nil {
		h.Logger.Error("Stats: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.TeamMembers(r.Context())
	if err != nil {
		h.Logger.Error("Team: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if members == nil {
		members = []*user.User{}
	}
	h.WriteJSON(w, http.StatusOK, members)
}

func (h *Handler) TeamAttendance(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Service.TeamAttendanceStatus(r.Context(), dates.Today())
	if err != nil {
		h.Logger.Error("TeamAttendance: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.WriteJSON(w, http.StatusOK, statuses)
}

func (h *Handler) UsersNotClocked(w http.ResponseWriter, r *http.Request) {
	absent, err := h.Service.UsersNotClockedIn(r.Context(), dates.Today())
	if err != nil {
		h.Logger.Error("UsersNotClocked: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if absent == nil {
		absent = []*user.User{}
	}
	h.WriteJSON(w, http.StatusOK, absent)
}

type sendReminderDTO struct {
	UserIDs []string `json:"user_ids"`
}

func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	var dto sendReminderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(dto.UserIDs) == 0 {
		h.WriteError(w, http.StatusBadRequest, "user_ids is required")
		return
	}

	result := h.Service.SendReminders(r.Context(), dto.UserIDs)
	h.WriteJSON(w, http.StatusOK, result)
}
