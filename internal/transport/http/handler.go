package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/collab-service/internal/collab"
	"github.com/cwrk-planet/collab-service/internal/domain"
	"github.com/cwrk-planet/collab-service/internal/service"
	httpmw "github.com/cwrk-planet/collab-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/collab-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	core      *collab.Core
	commitSvc *service.CommitService
}

func NewHandler(core *collab.Core, commitSvc *service.CommitService) *Handler {
	return &Handler{
		core:      core,
		commitSvc: commitSvc,
	}
}

// GET /rooms/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	parts := h.core.Participants(roomID)
	items := make([]ParticipantItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, ParticipantItem{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Department:  p.Department,
			JoinedAt:    p.JoinedAt,
			LastSeen:    p.LastSeen,
		})
	}
	httputil.JSON(w, http.StatusOK, items)
}

// GET /rooms/{id}/locks
func (h *Handler) GetLocks(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	locks := h.core.Locks(roomID)
	items := make([]LockItem, 0, len(locks))
	for _, l := range locks {
		items = append(items, LockItem{
			FieldID:    l.FieldID,
			HolderID:   l.HolderID,
			AcquiredAt: l.AcquiredAt,
			ExpiresAt:  l.ExpiresAt,
			Meta:       l.Meta,
		})
	}
	httputil.JSON(w, http.StatusOK, items)
}

// GET /rooms/{id}/fields/{fieldID}/preview
// Последний эфемерный патч поля; 404, если поле сейчас никто не правит.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldID")

	patch, ok := h.core.Preview(roomID, fieldID)
	if !ok {
		httputil.Error(w, http.StatusNotFound, "no preview", nil)
		return
	}
	httputil.JSON(w, http.StatusOK, PreviewItem{
		FieldID:   patch.FieldID,
		HolderID:  patch.HolderID,
		Content:   patch.Content,
		EmittedAt: patch.EmittedAt,
	})
}

// GET /rooms/{id}/fields
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	recs, err := h.commitSvc.ListRecords(r.Context(), roomID)
	if err != nil {
		slog.Error("handler.ListRecords:", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	items := make([]RecordItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordItem(rec))
	}
	httputil.JSON(w, http.StatusOK, items)
}

// GET /rooms/{id}/fields/{fieldID}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldID")

	rec, err := h.commitSvc.GetRecord(r.Context(), roomID, fieldID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httputil.Error(w, http.StatusNotFound, "record not found", nil)
			return
		}
		slog.Error("handler.GetRecord:", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httputil.JSON(w, http.StatusOK, recordItem(*rec))
}

// POST /rooms/{id}/fields/{fieldID}/commit
// Конфликт версий — 409 с авторитетной версией; комнате при этом уже
// разослан conflict:detected.
func (h *Handler) CommitField(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldID")
	userID := httpmw.UserIDFromCtx(r.Context())

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	version, err := h.commitSvc.Commit(r.Context(), roomID, fieldID, userID, req.Content, req.ExpectedVersion)
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			httputil.Error(w, http.StatusConflict, "version_conflict", map[string]any{
				"field_id":        fieldID,
				"current_version": conflict.CurrentVersion,
			})
			return
		}
		slog.Error("handler.CommitField:", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	httputil.JSON(w, http.StatusOK, CommitResponse{Version: version})
}

func recordItem(rec domain.FieldRecord) RecordItem {
	return RecordItem{
		FieldID:   rec.FieldID,
		Content:   rec.Content,
		Version:   rec.Version,
		UpdatedAt: rec.UpdatedAt,
	}
}
