package entities

import (
	"strings"
	"time"

	"edutube/domain/config"
)

// Journey is a user-owned, possibly public collection of ordered chapters.
type Journey struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewJourney builds a journey with the default title applied. The ID is
// assigned by the store on insert.
func NewJourney(title, description string, isPublic bool, userID string) *Journey {
	cfg := config.DefaultDomainConfig()
	if strings.TrimSpace(title) == "" {
		title = cfg.DefaultJourneyTitle
	}
	now := time.Now().UTC()
	return &Journey{
		Title:       title,
		Description: description,
		IsPublic:    isPublic,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ForkTitle derives the title of a fork from its source title.
func ForkTitle(sourceTitle string) string {
	cfg := config.DefaultDomainConfig()
	if sourceTitle == "" {
		sourceTitle = cfg.DefaultForkTitle
	}
	return cfg.ForkTitlePrefix + sourceTitle
}

// PublicJourney is the public listing projection, annotated with the owner's username.
type PublicJourney struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	Username    string `json:"username,omitempty"`
}

// JourneyPatch is a field mask for partial journey updates. Nil fields are left untouched.
type JourneyPatch struct {
	Title       *string
	Description *string
	IsPublic    *bool
}

// IsEmpty reports whether the patch touches no field.
func (p JourneyPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsPublic == nil
}

// Apply copies the present fields onto j.
func (p JourneyPatch) Apply(j *Journey, now time.Time) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.IsPublic != nil {
		j.IsPublic = *p.IsPublic
	}
	j.UpdatedAt = now
}
