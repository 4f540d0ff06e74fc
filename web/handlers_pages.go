package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/domain/page"
)

type createPageRequest struct {
	ParentID           string `json:"parent_id"`
	Slug               string `json:"slug"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Keywords           string `json:"keywords"`
	Template           string `json:"template"`
	MetaRobots         string `json:"meta_robots"`
	CanonicalURL       string `json:"canonical_url"`
	OGImageURL         string `json:"og_image_url"`
	StructuredDataType string `json:"structured_data_type"`
	SortMode           string `json:"sort_mode"`
	CreatedBy          string `json:"created_by"`
}

// PageCreate creates a page with an initial unpublished version.
func (h *Handler) PageCreate(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.engine.CreatePage(r.Context(), app.CreatePageInput{
		ParentID:           req.ParentID,
		Slug:               req.Slug,
		Title:              req.Title,
		Description:        req.Description,
		Keywords:           req.Keywords,
		Template:           req.Template,
		MetaRobots:         req.MetaRobots,
		CanonicalURL:       req.CanonicalURL,
		OGImageURL:         req.OGImageURL,
		StructuredDataType: req.StructuredDataType,
		SortMode:           page.SortMode(req.SortMode),
		CreatedBy:          req.CreatedBy,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPageJSON(p))
}

// PageTree returns the full page hierarchy.
func (h *Handler) PageTree(w http.ResponseWriter, r *http.Request) {
	node, err := h.engine.ListPages(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTreeJSON(node))
}

// PageSearch returns pages matching the q query parameter.
func (h *Handler) PageSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.SearchPages(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageListJSON(results))
}

// PageByPath resolves a slug path like /products/widget.
func (h *Handler) PageByPath(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.GetPageByPath(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(p))
}

// PageGet retrieves a page by ID.
func (h *Handler) PageGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.GetPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(p))
}

type updatePageRequest struct {
	Slug               *string `json:"slug"`
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Keywords           *string `json:"keywords"`
	Template           *string `json:"template"`
	MetaRobots         *string `json:"meta_robots"`
	CanonicalURL       *string `json:"canonical_url"`
	OGImageURL         *string `json:"og_image_url"`
	StructuredDataType *string `json:"structured_data_type"`
	SortMode           *string `json:"sort_mode"`
}

// PageUpdate applies a partial metadata update.
func (h *Handler) PageUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePageRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	in := app.UpdatePageInput{
		Slug:               req.Slug,
		Title:              req.Title,
		Description:        req.Description,
		Keywords:           req.Keywords,
		Template:           req.Template,
		MetaRobots:         req.MetaRobots,
		CanonicalURL:       req.CanonicalURL,
		OGImageURL:         req.OGImageURL,
		StructuredDataType: req.StructuredDataType,
	}
	if req.SortMode != nil {
		mode := page.SortMode(*req.SortMode)
		in.SortMode = &mode
	}

	p, err := h.engine.UpdatePage(r.Context(), chi.URLParam(r, "pageID"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(p))
}

// PageDelete removes a page and its subtree.
func (h *Handler) PageDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.engine.DeletePage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

type movePageRequest struct {
	ParentID string `json:"parent_id"`
	Position *int   `json:"position"`
}

// PageMove reparents and/or repositions a page.
func (h *Handler) PageMove(w http.ResponseWriter, r *http.Request) {
	var req movePageRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.engine.MovePage(r.Context(), chi.URLParam(r, "pageID"), req.ParentID, req.Position)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(p))
}

// VersionList returns all versions of a page.
func (h *Handler) VersionList(w http.ResponseWriter, r *http.Request) {
	versions, err := h.engine.ListVersions(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]versionJSON, len(versions))
	for i, v := range versions {
		out[i] = toVersionJSON(v)
	}
	writeJSON(w, http.StatusOK, out)
}

type draftRequest struct {
	CreatedBy string `json:"created_by"`
}

// DraftGetOrCreate returns the page's draft, creating it when necessary.
func (h *Handler) DraftGetOrCreate(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			h.writeError(w, err)
			return
		}
	}

	draft, err := h.engine.GetOrCreateDraft(r.Context(), chi.URLParam(r, "pageID"), req.CreatedBy)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if draft.IsNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, versionContentJSON{
		Version:    toVersionJSON(draft.Version),
		Components: toComponentListJSON(draft.Components),
	})
}

// DraftGet returns the page's draft content without creating a draft.
func (h *Handler) DraftGet(w http.ResponseWriter, r *http.Request) {
	v, components, err := h.engine.GetDraftContent(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versionContentJSON{
		Version:    toVersionJSON(v),
		Components: toComponentListJSON(components),
	})
}

// DraftDiscard deletes the page's draft.
func (h *Handler) DraftDiscard(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DiscardDraft(r.Context(), chi.URLParam(r, "pageID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DraftPublish promotes the page's draft to published.
func (h *Handler) DraftPublish(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.PublishDraft(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVersionJSON(v))
}

// PublishedGet returns the page's published content.
func (h *Handler) PublishedGet(w http.ResponseWriter, r *http.Request) {
	v, components, err := h.engine.GetPublishedContent(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versionContentJSON{
		Version:    toVersionJSON(v),
		Components: toComponentListJSON(components),
	})
}

// PageComponents returns the draft components, falling back to published.
func (h *Handler) PageComponents(w http.ResponseWriter, r *http.Request) {
	v, components, err := h.engine.ListComponents(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versionContentJSON{
		Version:    toVersionJSON(v),
		Components: toComponentListJSON(components),
	})
}
