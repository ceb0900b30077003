package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/service"
)

// DirectoryHandler serves CRUD for one kind of reference record.
type DirectoryHandler[T any] struct {
	records db.DirectoryCollection[T]
}

// NewDirectoryHandler creates a handler over records.
func NewDirectoryHandler[T any](records db.DirectoryCollection[T]) *DirectoryHandler[T] {
	return &DirectoryHandler[T]{records: records}
}

// Create stores a new record.
func (h *DirectoryHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var doc T
	if !decodeJSON(w, r, &doc) {
		return
	}
	if err := service.Validate(doc); err != nil {
		handleError(w, r, err)
		return
	}
	created, err := h.records.Insert(r.Context(), doc)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns every record.
func (h *DirectoryHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.records.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get returns one record.
func (h *DirectoryHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.records.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Update replaces one record.
func (h *DirectoryHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	var doc T
	if !decodeJSON(w, r, &doc) {
		return
	}
	if err := service.Validate(doc); err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := h.records.Update(r.Context(), r.PathValue("id"), doc)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes one record.
func (h *DirectoryHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
