package commands

import (
	"strings"

	pkgerrors "edutube/pkg/errors"
)

// CreateJourneyFromPlaylistCommand represents the command to materialize a
// journey from an external playlist.
type CreateJourneyFromPlaylistCommand struct {
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"user_id"`
	IsPublic   bool   `json:"is_public"`
}

// Validate checks the command fields
func (c CreateJourneyFromPlaylistCommand) Validate() error {
	if strings.TrimSpace(c.PlaylistID) == "" {
		return pkgerrors.NewValidationError("Playlist ID is required")
	}
	if c.UserID == "" {
		return pkgerrors.NewUnauthorizedError("")
	}
	return nil
}
