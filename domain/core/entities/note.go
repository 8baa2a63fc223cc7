package entities

import (
	"sort"
	"strings"
	"time"
)

// Note is free-form text attached to a chapter. JourneyID is denormalized
// from the chapter and must always match it.
type Note struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	JourneyID string    `json:"journey_id"`
	Content   string    `json:"content"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote builds a note for a chapter. The title is trimmed and dropped when blank.
func NewNote(chapterID, journeyID, content, title string) *Note {
	now := time.Now().UTC()
	return &Note{
		ChapterID: chapterID,
		JourneyID: journeyID,
		Content:   content,
		Title:     NormalizeNoteTitle(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeNoteTitle trims a note title; blank titles are absent.
func NormalizeNoteTitle(title string) *string {
	t := strings.TrimSpace(title)
	if t == "" {
		return nil
	}
	return &t
}

// SortNotes orders notes by creation time.
func SortNotes(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}

// SortJourneyNotes orders notes by chapter, then creation time.
func SortJourneyNotes(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].ChapterID != notes[j].ChapterID {
			return notes[i].ChapterID < notes[j].ChapterID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}

// NotePatch is a field mask for partial note updates. A present Title is
// normalized like on creation, so an empty title clears it.
type NotePatch struct {
	Content *string
	Title   *string
}

// IsEmpty reports whether the patch touches no field.
func (p NotePatch) IsEmpty() bool {
	return p.Content == nil && p.Title == nil
}

// Apply copies the present fields onto n and refreshes UpdatedAt.
func (p NotePatch) Apply(n *Note, now time.Time) {
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Title != nil {
		n.Title = NormalizeNoteTitle(*p.Title)
	}
	n.UpdatedAt = now
}
