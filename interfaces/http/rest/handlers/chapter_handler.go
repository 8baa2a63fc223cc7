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

// ChapterHandler handles chapter-related HTTP requests
type ChapterHandler struct {
	chapters *services.ChapterService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(chapters *services.ChapterService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ChapterHandler {
	return &ChapterHandler{chapters: chapters, errors: errs, logger: logger}
}

// CreateChapterRequest represents the request body for creating a chapter
type CreateChapterRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	VideoLink    string `json:"video_link" validate:"required"`
	ExternalLink string `json:"external_link"`
	ChapterNo    *int   `json:"chapter_no" validate:"required"`
}

// UpdateChapterRequest represents the request body for updating a chapter
type UpdateChapterRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	VideoLink    *string `json:"video_link"`
	ExternalLink *string `json:"external_link"`
	ChapterNo    *int    `json:"chapter_no"`
}

// CompleteChapterRequest represents the request body for toggling completion
type CompleteChapterRequest struct {
	IsCompleted *bool `json:"is_completed" validate:"required"`
}

// CreateChapter handles POST /journeys/{journeyID}/chapters
func (h *ChapterHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req CreateChapterRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := h.chapters.Create(r.Context(), chi.URLParam(r, "journeyID"), services.CreateChapterInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoLink:    req.VideoLink,
		ExternalLink: req.ExternalLink,
		ChapterNo:    *req.ChapterNo,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, common.IDResponse{ID: id})
}

// ListChapters handles GET /journeys/{journeyID}/chapters
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.chapters.ListByJourney(r.Context(), chi.URLParam(r, "journeyID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, chapters)
}

// GetChapter handles GET /chapters/{chapterID}
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := h.chapters.Get(r.Context(), chi.URLParam(r, "chapterID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, chapter)
}

// UpdateChapter handles PUT /chapters/{chapterID}
func (h *ChapterHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	var req UpdateChapterRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	patch := entities.ChapterPatch{
		Title:        req.Title,
		Description:  req.Description,
		VideoLink:    req.VideoLink,
		ExternalLink: req.ExternalLink,
		ChapterNo:    req.ChapterNo,
	}
	if err := h.chapters.Update(r.Context(), chi.URLParam(r, "chapterID"), patch); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Chapter updated successfully")
}

// CompleteChapter handles PUT /chapters/isComplete/{chapterID}
func (h *ChapterHandler) CompleteChapter(w http.ResponseWriter, r *http.Request) {
	var req CompleteChapterRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.chapters.SetCompleted(r.Context(), chi.URLParam(r, "chapterID"), *req.IsCompleted); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Chapter updated successfully")
}

// DeleteChapter handles DELETE /chapters/{chapterID}
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	if err := h.chapters.Delete(r.Context(), chi.URLParam(r, "chapterID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Chapter deleted successfully")
}
