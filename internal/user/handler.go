package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/procureops/procurement-portal/internal/auth"
	"github.com/procureops/procurement-portal/internal/transport"
	"github.com/procureops/procurement-portal/pkg/logger"
)

type ServiceAPI interface {
	ListUsers(limit, offset int) ([]*User, error)
	GetUser(id int64) (*User, error)
	CreateUser(dto *CreateUserDTO) (*User, error)
	UpdateUser(id int64, dto *UpdateUserDTO) (*User, error)
	DeleteUser(id int64) error
	ListRoles() ([]*Role, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	users, err := h.Service.ListUsers(limit, offset)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetUser(id)
	if err != nil {
		h.Logger.Error("GetUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetCurrentUser returns the authenticated account with its role and
// permissions, used by clients to decide which views to show.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetUser(authUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", authUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(&dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateUser(id, &dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if authUser, ok := auth.UserFromContext(r.Context()); ok && authUser != nil && authUser.ID == id {
		h.WriteError(w, http.StatusConflict, "cannot delete your own account")
		return
	}

	if err := h.Service.DeleteUser(id); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.Logger.Error("ListRoles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roles": roles,
	})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid user ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}
