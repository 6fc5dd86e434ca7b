package httpapi

import (
	"encoding/json"
	"net/http"

	"isdjobs-api/internal/events"
	"isdjobs-api/internal/logger"
	"isdjobs-api/internal/store"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BookmarksHandler struct {
	Store *store.Bookmarks
	Hub   *events.Hub
}

func (h BookmarksHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Store.List())
}

func (h BookmarksHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_params", "url is required")
		return
	}

	bm := h.Store.Upsert(req.URL, req.Status, req.Notes)
	h.Hub.Publish(RequestIDFrom(r.Context()), events.TypeBookmarkSaved, events.BookmarkData{
		URL:    bm.URL,
		Status: bm.Status,
	})
	writeJSON(w, bm)
}

func (h BookmarksHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_params", "url is required")
		return
	}

	bm, err := h.Store.Update(req.URL, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, store.ErrBookmarkNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "Bookmark not found")
			return
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHTTP).Errorf("[bookmarks] update: %v", err)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "could not update bookmark")
		return
	}
	h.Hub.Publish(RequestIDFrom(r.Context()), events.TypeBookmarkUpdated, events.BookmarkData{
		URL:    bm.URL,
		Status: bm.Status,
	})
	writeJSON(w, bm)
}
