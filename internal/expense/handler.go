package expense

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/filestore"
	"github.com/geodateam/team-presence/internal/transport"
	"github.com/geodateam/team-presence/pkg/logger"
)

// Receipt uploads above this size are rejected outright.
const maxReceiptSize = 10 << 20

type ServiceAPI interface {
	Submit(ctx context.Context, userID string, dto SubmitExpenseDTO) (*Expense, error)
	ListForUser(ctx context.Context, userID string, filter Filter) ([]*Expense, error)
	GetForUser(ctx context.Context, expenseID, userID string, isAdmin bool) (*Expense, error)
	SetStatus(ctx context.Context, expenseID, status string) (*Expense, error)
	ListPendingWithOwner(ctx context.Context) ([]*WithOwner, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Files   filestore.Store
}

func NewHandler(service ServiceAPI, files filestore.Store) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Files:       files,
	}
}

// Submit accepts a multipart form: amount, category, description, date,
// plus an optional receipt file part. The file is stored first so the
// claim row never references bytes that failed to land.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptSize)
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		h.Logger.Error("Submit: failed to parse multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	amount, err := decimal.NewFromString(r.FormValue("amount"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}

	dto := SubmitExpenseDTO{
		Date:        r.FormValue("date"),
		Amount:      amount,
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("receipt")
	if err == nil {
		defer file.Close()

		ref, saveErr := h.Files.Save(r.Context(), header.Filename, file)
		if saveErr != nil {
			h.Logger.Error("Submit: failed to store receipt", "error", saveErr, "user_id", u.ID)
			h.WriteError(w, http.StatusInternalServerError, "failed to store receipt")
			return
		}
		dto.ReceiptPath = &ref
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.WriteError(w, http.StatusBadRequest, "invalid receipt upload")
		return
	}

	e, err := h.Service.Submit(r.Context(), u.ID, dto)
	if err != nil {
		h.Logger.Error("Submit: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := Filter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Category:  q.Get("category"),
		Status:    q.Get("status"),
	}

	// Admins may read another user's claims.
	userID := u.ID
	if target := q.Get("user_id"); target != "" && u.IsAdmin() {
		userID = target
	}

	expenses, err := h.Service.ListForUser(r.Context(), userID, filter)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	if expenses == nil {
		expenses = []*Expense{}
	}
	h.WriteJSON(w, http.StatusOK, expenses)
}

// Receipt streams the stored receipt file for one expense, owner or admin
// only.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenseID := chi.URLParam(r, "id")

	e, err := h.Service.GetForUser(r.Context(), expenseID, u.ID, u.IsAdmin())
	if err != nil {
		h.Logger.Error("Receipt: service error", "error", err, "expense_id", expenseID, "user_id", u.ID)
		h.handleServiceError(w, err)
		return
	}

	if !e.HasReceipt() {
		h.WriteError(w, http.StatusNotFound, "expense has no receipt")
		return
	}

	content, err := h.Files.Open(r.Context(), *e.ReceiptPath)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "receipt file not found")
			return
		}
		h.Logger.Error("Receipt: failed to open receipt", "error", err, "expense_id", expenseID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(*e.ReceiptPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		h.Logger.Error("Receipt: failed to stream receipt", "error", err, "expense_id", expenseID)
	}
}

// UpdateStatus is the admin review decision endpoint.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "id")

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.SetStatus(r.Context(), expenseID, dto.Status)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "expense_id", expenseID)
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Service.ListPendingWithOwner(r.Context())
	if err != nil {
		h.Logger.Error("ListPending: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, pending)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExpenseNotFound):
		h.WriteError(w, http.StatusNotFound, "expense not found")
	case errors.Is(err, ErrForbidden):
		h.WriteError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, ErrInvalidStatus):
		h.WriteError(w, http.StatusConflict, "expense has already been resolved")
	default:
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
