package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"edutube/application/commands"
	"edutube/application/commands/bus"
	"edutube/application/services"
	"edutube/domain/core/entities"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
)

// JourneyHandler handles journey-related HTTP requests
type JourneyHandler struct {
	journeys *services.JourneyService
	commands *bus.CommandBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(
	journeys *services.JourneyService,
	commandBus *bus.CommandBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *JourneyHandler {
	return &JourneyHandler{
		journeys: journeys,
		commands: commandBus,
		errors:   errs,
		logger:   logger,
	}
}

// CreateJourneyRequest represents the request body for creating a journey
type CreateJourneyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpdateJourneyRequest represents the request body for updating a journey
type UpdateJourneyRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// CreateFromPlaylistRequest represents the request body for a playlist import
type CreateFromPlaylistRequest struct {
	PlaylistID string `json:"playlistId"`
	IsPublic   bool   `json:"is_public"`
}

// ForkResponse is returned after a successful fork
type ForkResponse struct {
	Message      string `json:"message"`
	JourneyID    string `json:"journeyId"`
	NewJourneyID string `json:"newJourneyId"`
}

// CreateJourney handles POST /journeys
func (h *JourneyHandler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateJourneyRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := h.journeys.Create(r.Context(), user.ID, req.Title, req.Description, req.IsPublic)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, common.IDResponse{ID: id})
}

// CreateFromPlaylist handles POST /journeys/playlist
func (h *JourneyHandler) CreateFromPlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateFromPlaylistRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := bus.Dispatch[string](r.Context(), h.commands, commands.CreateJourneyFromPlaylistCommand{
		PlaylistID: req.PlaylistID,
		UserID:     user.ID,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, common.IDResponse{ID: id})
}

// ListJourneys handles GET /journeys
func (h *JourneyHandler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	journeys, err := h.journeys.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, journeys)
}

// ListPublic handles GET /journeys/public
func (h *JourneyHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	journeys, err := h.journeys.ListPublic(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, journeys)
}

// GetJourney handles GET /journeys/{journeyID}
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	journey, err := h.journeys.Get(r.Context(), chi.URLParam(r, "journeyID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, journey)
}

// UpdateJourney handles PUT /journeys/{journeyID}
func (h *JourneyHandler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateJourneyRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	patch := entities.JourneyPatch{Title: req.Title, Description: req.Description, IsPublic: req.IsPublic}
	if err := h.journeys.Update(r.Context(), chi.URLParam(r, "journeyID"), user.ID, patch); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Journey updated")
}

// DeleteJourney handles DELETE /journeys/{journeyID}
func (h *JourneyHandler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.journeys.Delete(r.Context(), chi.URLParam(r, "journeyID"), user.ID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, "Journey deleted")
}

// ForkJourney handles POST /journeys/{journeyID}/fork
func (h *JourneyHandler) ForkJourney(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := bus.Dispatch[string](r.Context(), h.commands, commands.ForkJourneyCommand{
		SourceJourneyID: chi.URLParam(r, "journeyID"),
		UserID:          user.ID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, ForkResponse{Message: "Journey forked successfully", JourneyID: id, NewJourneyID: id})
}
