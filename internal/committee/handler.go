package committee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/procureops/procurement-portal/internal/auth"
	"github.com/procureops/procurement-portal/internal/transport"
	"github.com/procureops/procurement-portal/pkg/logger"
)

type ServiceAPI interface {
	ListCommittees(limit, offset int) ([]*Committee, error)
	GetCommittee(id int64) (*Committee, error)
	CreateCommittee(dto *CommitteeFormDTO, letter *LetterUpload) (*Committee, error)
	UpdateCommittee(id int64, dto *CommitteeFormDTO, letter *LetterUpload) (*Committee, error)
	DeleteCommittee(id int64) error
	AddMember(ctx context.Context, committeeID int64, dto *AddMemberDTO) (*Member, error)
	RemoveMember(committeeID int64, employeeID string) error
	OpenLetter(committeeID int64) (io.ReadCloser, int64, *Letter, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(service ServiceAPI, maxUploadBytes int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(lg),
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) ListCommittees(w http.ResponseWriter, r *http.Request) {
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

	committees, err := h.Service.ListCommittees(limit, offset)
	if err != nil {
		h.Logger.Error("ListCommittees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"committees": committees,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) GetCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.GetCommittee(id)
	if err != nil {
		h.Logger.Error("GetCommittee: service error", "error", err, "committee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCommittee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto, letter, ok := h.parseCommitteeForm(w, r)
	if !ok {
		return
	}

	c, err := h.Service.CreateCommittee(dto, letter)
	if err != nil {
		h.Logger.Error("CreateCommittee: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateCommittee: committee created",
		"committee_id", c.ID,
		"user_id", user.ID,
		"type", c.CommitteeType,
		"members", len(c.Members))

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCommittee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	dto, letter, ok := h.parseCommitteeForm(w, r)
	if !ok {
		return
	}

	c, err := h.Service.UpdateCommittee(id, dto, letter)
	if err != nil {
		h.Logger.Error("UpdateCommittee: service error", "error", err, "committee_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteCommittee(id); err != nil {
		h.Logger.Error("DeleteCommittee: service error", "error", err, "committee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.Service.AddMember(r.Context(), id, &dto)
	if err != nil {
		h.Logger.Error("AddMember: service error", "error", err, "committee_id", id, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, member)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	if err := h.Service.RemoveMember(id, employeeID); err != nil {
		h.Logger.Error("RemoveMember: service error", "error", err, "committee_id", id, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DownloadFormationLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	rc, size, letter, err := h.Service.OpenLetter(id)
	if err != nil {
		h.Logger.Error("DownloadFormationLetter: service error", "error", err, "committee_id", id)
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	contentType := letter.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", letter.FileName))
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("DownloadFormationLetter: stream failed", "error", err, "committee_id", id)
	}
}

func (h *Handler) committeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid committee ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid committee ID")
		return 0, false
	}
	return id, true
}

// parseCommitteeForm reads the multipart form shared by create and update:
// scalar fields, a JSON "members" part, and an optional formation letter file.
func (h *Handler) parseCommitteeForm(w http.ResponseWriter, r *http.Request) (*CommitteeFormDTO, *LetterUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		h.Logger.Error("failed to parse multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}

	dto := &CommitteeFormDTO{
		Name:            r.FormValue("name"),
		Purpose:         r.FormValue("purpose"),
		CommitteeType:   r.FormValue("committee_type"),
		FormationDate:   r.FormValue("formation_date"),
		ProcurementPlan: r.FormValue("procurement_plan"),
	}

	if membersJSON := r.FormValue("members"); membersJSON != "" {
		if err := json.Unmarshal([]byte(membersJSON), &dto.Members); err != nil {
			h.Logger.Error("failed to parse members part", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid members payload")
			return nil, nil, false
		}
	}

	var letter *LetterUpload
	file, header, err := r.FormFile("formation_letter")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.Logger.Error("failed to read formation letter", "error", readErr)
			h.WriteError(w, http.StatusBadRequest, "failed to read formation letter")
			return nil, nil, false
		}
		letter = &LetterUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	} else if err != http.ErrMissingFile {
		h.Logger.Error("failed to read formation letter part", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid formation letter part")
		return nil, nil, false
	}

	return dto, letter, true
}
