package commands

import (
	"strings"

	pkgerrors "edutube/pkg/errors"
)

// ForkJourneyCommand represents the command to fork a journey into the
// requester's library.
type ForkJourneyCommand struct {
	SourceJourneyID string `json:"source_journey_id" validate:"required"`
	UserID          string `json:"user_id" validate:"required"`
}

// Validate checks the command fields
func (c ForkJourneyCommand) Validate() error {
	if strings.TrimSpace(c.SourceJourneyID) == "" {
		return pkgerrors.NewNotFoundError("Journey")
	}
	if c.UserID == "" {
		return pkgerrors.NewUnauthorizedError("")
	}
	return nil
}
