package entities

import (
	"sort"
	"time"

	"edutube/domain/config"
)

// Chapter is one unit of learning content within a journey, typically one video.
type Chapter struct {
	ID           string     `json:"id"`
	JourneyID    string     `json:"journey_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoLink    string     `json:"video_link"`
	ExternalLink string     `json:"external_link"`
	ChapterNo    int        `json:"chapter_no"`
	IsCompleted  bool       `json:"is_completed"`
	Transcript   string     `json:"transcript,omitempty"`
	EnrichedAt   *time.Time `json:"enriched_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// Seq breaks ChapterNo ties by insertion order. Assigned by the store.
	Seq int64 `json:"-"`
}

// NewChapter builds a chapter under journeyID. chapterNo is stored as given;
// zero is a valid position.
func NewChapter(journeyID, title, description, videoLink, externalLink string, chapterNo int) *Chapter {
	return &Chapter{
		JourneyID:    journeyID,
		Title:        title,
		Description:  description,
		VideoLink:    videoLink,
		ExternalLink: externalLink,
		ChapterNo:    chapterNo,
		CreatedAt:    time.Now().UTC(),
	}
}

// CopyTo returns a fresh, uncompleted copy of c under another journey.
// Missing fields take the chapter defaults.
func (c *Chapter) CopyTo(journeyID string) *Chapter {
	cfg := config.DefaultDomainConfig()
	title := c.Title
	if title == "" {
		title = cfg.DefaultChapterTitle
	}
	return NewChapter(journeyID, title, c.Description, c.VideoLink, c.ExternalLink, c.ChapterNo)
}

// IsEnriched reports whether supplementary content has been written back.
func (c *Chapter) IsEnriched() bool {
	return c.EnrichedAt != nil
}

// SortChapters orders chapters by position, ties by insertion order.
func SortChapters(chapters []*Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		a, b := chapters[i], chapters[j]
		if a.ChapterNo != b.ChapterNo {
			return a.ChapterNo < b.ChapterNo
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// ChapterPatch is a field mask for partial chapter updates.
type ChapterPatch struct {
	Title        *string
	Description  *string
	VideoLink    *string
	ExternalLink *string
	ChapterNo    *int
	IsCompleted  *bool
	Transcript   *string
	EnrichedAt   *time.Time
}

// IsEmpty reports whether the patch touches no field.
func (p ChapterPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.VideoLink == nil &&
		p.ExternalLink == nil && p.ChapterNo == nil && p.IsCompleted == nil &&
		p.Transcript == nil && p.EnrichedAt == nil
}

// Apply copies the present fields onto c.
func (p ChapterPatch) Apply(c *Chapter) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.VideoLink != nil {
		c.VideoLink = *p.VideoLink
	}
	if p.ExternalLink != nil {
		c.ExternalLink = *p.ExternalLink
	}
	if p.ChapterNo != nil {
		c.ChapterNo = *p.ChapterNo
	}
	if p.IsCompleted != nil {
		c.IsCompleted = *p.IsCompleted
	}
	if p.Transcript != nil {
		c.Transcript = *p.Transcript
	}
	if p.EnrichedAt != nil {
		t := *p.EnrichedAt
		c.EnrichedAt = &t
	}
}
