package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"edutube/application/services"
	"edutube/domain/core/entities"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	notes  *services.NoteService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, errors: errs, logger: logger}
}

// CreateNoteRequest represents the request body for creating a note
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required"`
	Title   string `json:"title"`
}

// UpdateNoteRequest represents the request body for updating a note
type UpdateNoteRequest struct {
	Content *string `json:"content"`
	Title   *string `json:"title"`
}

// NoteCreatedResponse is returned after a note is created
type NoteCreatedResponse struct {
	Message string `json:"message"`
	NoteID  string `json:"noteId"`
}

// CreateNote handles POST /journeys/{journeyID}/chapters/{chapterID}/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := h.notes.Create(r.Context(), chi.URLParam(r, "journeyID"), chi.URLParam(r, "chapterID"), req.Content, req.Title)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, NoteCreatedResponse{Message: "Note created successfully", NoteID: id})
}

// ListChapterNotes handles GET /chapters/{chapterID}/notes
func (h *NoteHandler) ListChapterNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListByChapter(r.Context(), chi.URLParam(r, "chapterID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, notes)
}

// ListJourneyNotes handles GET /journeys/{journeyID}/notes
func (h *NoteHandler) ListJourneyNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListByJourney(r.Context(), chi.URLParam(r, "journeyID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /notes/{noteID}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), chi.URLParam(r, "noteID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /notes/{noteID}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	patch := entities.NotePatch{Content: req.Content, Title: req.Title}
	if err := h.notes.Update(r.Context(), chi.URLParam(r, "noteID"), patch); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Note updated successfully")
}

// DeleteNote handles DELETE /notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "noteID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Note deleted successfully")
}
