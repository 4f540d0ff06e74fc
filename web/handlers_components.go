package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jhiver/doxyde-sub000/app"
)

type createComponentRequest struct {
	VersionID string          `json:"version_id"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	Position  *int            `json:"position"`
	Template  string          `json:"template"`
	Title     string          `json:"title"`
}

// ComponentCreate adds a component to an unpublished version.
func (h *Handler) ComponentCreate(w http.ResponseWriter, r *http.Request) {
	var req createComponentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	c, err := h.engine.CreateComponent(r.Context(), app.CreateComponentInput{
		VersionID: req.VersionID,
		Type:      req.Type,
		Content:   req.Content,
		Position:  req.Position,
		Template:  req.Template,
		Title:     req.Title,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toComponentJSON(c))
}

// ComponentGet retrieves a component by ID.
func (h *Handler) ComponentGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.engine.GetComponent(r.Context(), chi.URLParam(r, "componentID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toComponentJSON(c))
}

type updateComponentRequest struct {
	Type     *string         `json:"type"`
	Content  json.RawMessage `json:"content"`
	Template *string         `json:"template"`
	Title    *string         `json:"title"`
}

// ComponentUpdate applies a partial update to a draft component.
func (h *Handler) ComponentUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateComponentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	c, err := h.engine.UpdateComponent(r.Context(), chi.URLParam(r, "componentID"), app.UpdateComponentInput{
		Type:     req.Type,
		Content:  req.Content,
		Template: req.Template,
		Title:    req.Title,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toComponentJSON(c))
}

// ComponentDelete removes a draft component.
func (h *Handler) ComponentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteComponent(r.Context(), chi.URLParam(r, "componentID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComponentMoveAfter places a component immediately after another.
func (h *Handler) ComponentMoveAfter(w http.ResponseWriter, r *http.Request) {
	err := h.engine.MoveComponentAfter(r.Context(), chi.URLParam(r, "componentID"), chi.URLParam(r, "targetID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComponentMoveBefore places a component immediately before another.
func (h *Handler) ComponentMoveBefore(w http.ResponseWriter, r *http.Request) {
	err := h.engine.MoveComponentBefore(r.Context(), chi.URLParam(r, "componentID"), chi.URLParam(r, "targetID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
