package dynamodb

import (
	"fmt"
	"time"

	"edutube/domain/core/entities"
)

const (
	skMetadata = "METADATA"

	prefixJourney = "JOURNEY#"
	prefixChapter = "CHAPTER#"
	prefixNote    = "NOTE#"
	prefixUser    = "USER#"
	prefixEmail   = "EMAIL#"

	publicPartition = "VISIBILITY#public"

	entityJourney = "JOURNEY"
	entityChapter = "CHAPTER"
	entityNote    = "NOTE"
	entityUser    = "USER"
)

type journeyItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"` // USER#<owner>
	GSI1SK      string `dynamodbav:"GSI1SK"` // JOURNEY#<created>
	GSI2PK      string `dynamodbav:"GSI2PK,omitempty"` // set only while public
	GSI2SK      string `dynamodbav:"GSI2SK,omitempty"`
	EntityType  string `dynamodbav:"EntityType"`
	ID          string `dynamodbav:"ID"`
	Title       string `dynamodbav:"Title"`
	Description string `dynamodbav:"Description"`
	IsPublic    bool   `dynamodbav:"IsPublic"`
	UserID      string `dynamodbav:"UserID"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func newJourneyItem(j *entities.Journey) journeyItem {
	created := formatTime(j.CreatedAt)
	item := journeyItem{
		PK:          prefixJourney + j.ID,
		SK:          skMetadata,
		GSI1PK:      prefixUser + j.UserID,
		GSI1SK:      prefixJourney + created,
		EntityType:  entityJourney,
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		IsPublic:    j.IsPublic,
		UserID:      j.UserID,
		CreatedAt:   created,
		UpdatedAt:   formatTime(j.UpdatedAt),
	}
	if j.IsPublic {
		item.GSI2PK = publicPartition
		item.GSI2SK = created
	}
	return item
}

func (i journeyItem) toEntity() *entities.Journey {
	return &entities.Journey{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		IsPublic:    i.IsPublic,
		UserID:      i.UserID,
		CreatedAt:   parseTime(i.CreatedAt),
		UpdatedAt:   parseTime(i.UpdatedAt),
	}
}

type chapterItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"` // JOURNEY#<journey>
	GSI1SK       string `dynamodbav:"GSI1SK"` // CHAPTER#<seq>
	EntityType   string `dynamodbav:"EntityType"`
	ID           string `dynamodbav:"ID"`
	JourneyID    string `dynamodbav:"JourneyID"`
	Title        string `dynamodbav:"Title"`
	Description  string `dynamodbav:"Description"`
	VideoLink    string `dynamodbav:"VideoLink"`
	ExternalLink string `dynamodbav:"ExternalLink"`
	ChapterNo    int    `dynamodbav:"ChapterNo"`
	IsCompleted  bool   `dynamodbav:"IsCompleted"`
	Transcript   string `dynamodbav:"Transcript,omitempty"`
	EnrichedAt   string `dynamodbav:"EnrichedAt,omitempty"`
	Seq          int64  `dynamodbav:"Seq"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func newChapterItem(c *entities.Chapter) chapterItem {
	item := chapterItem{
		PK:           prefixChapter + c.ID,
		SK:           skMetadata,
		GSI1PK:       prefixJourney + c.JourneyID,
		GSI1SK:       fmt.Sprintf("%s%020d", prefixChapter, c.Seq),
		EntityType:   entityChapter,
		ID:           c.ID,
		JourneyID:    c.JourneyID,
		Title:        c.Title,
		Description:  c.Description,
		VideoLink:    c.VideoLink,
		ExternalLink: c.ExternalLink,
		ChapterNo:    c.ChapterNo,
		IsCompleted:  c.IsCompleted,
		Transcript:   c.Transcript,
		Seq:          c.Seq,
		CreatedAt:    formatTime(c.CreatedAt),
	}
	if c.EnrichedAt != nil {
		item.EnrichedAt = formatTime(*c.EnrichedAt)
	}
	return item
}

func (i chapterItem) toEntity() *entities.Chapter {
	c := &entities.Chapter{
		ID:           i.ID,
		JourneyID:    i.JourneyID,
		Title:        i.Title,
		Description:  i.Description,
		VideoLink:    i.VideoLink,
		ExternalLink: i.ExternalLink,
		ChapterNo:    i.ChapterNo,
		IsCompleted:  i.IsCompleted,
		Transcript:   i.Transcript,
		Seq:          i.Seq,
		CreatedAt:    parseTime(i.CreatedAt),
	}
	if i.EnrichedAt != "" {
		t := parseTime(i.EnrichedAt)
		c.EnrichedAt = &t
	}
	return c
}

type noteItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	GSI1PK     string  `dynamodbav:"GSI1PK"` // JOURNEY#<journey>
	GSI1SK     string  `dynamodbav:"GSI1SK"` // NOTE#<chapter>#<created>
	GSI2PK     string  `dynamodbav:"GSI2PK"` // CHAPTER#<chapter>
	GSI2SK     string  `dynamodbav:"GSI2SK"` // NOTE#<created>
	EntityType string  `dynamodbav:"EntityType"`
	ID         string  `dynamodbav:"ID"`
	ChapterID  string  `dynamodbav:"ChapterID"`
	JourneyID  string  `dynamodbav:"JourneyID"`
	Content    string  `dynamodbav:"Content"`
	Title      *string `dynamodbav:"Title,omitempty"`
	CreatedAt  string  `dynamodbav:"CreatedAt"`
	UpdatedAt  string  `dynamodbav:"UpdatedAt"`
}

func newNoteItem(n *entities.Note) noteItem {
	created := formatTime(n.CreatedAt)
	return noteItem{
		PK:         prefixNote + n.ID,
		SK:         skMetadata,
		GSI1PK:     prefixJourney + n.JourneyID,
		GSI1SK:     prefixNote + n.ChapterID + "#" + created,
		GSI2PK:     prefixChapter + n.ChapterID,
		GSI2SK:     prefixNote + created,
		EntityType: entityNote,
		ID:         n.ID,
		ChapterID:  n.ChapterID,
		JourneyID:  n.JourneyID,
		Content:    n.Content,
		Title:      n.Title,
		CreatedAt:  created,
		UpdatedAt:  formatTime(n.UpdatedAt),
	}
}

func (i noteItem) toEntity() *entities.Note {
	return &entities.Note{
		ID:        i.ID,
		ChapterID: i.ChapterID,
		JourneyID: i.JourneyID,
		Content:   i.Content,
		Title:     i.Title,
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"` // EMAIL#<email>
	GSI1SK       string `dynamodbav:"GSI1SK"`
	EntityType   string `dynamodbav:"EntityType"`
	ID           string `dynamodbav:"ID"`
	Username     string `dynamodbav:"Username"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func newUserItem(u *entities.User) userItem {
	return userItem{
		PK:           prefixUser + u.ID,
		SK:           skMetadata,
		GSI1PK:       prefixEmail + u.Email,
		GSI1SK:       entityUser,
		EntityType:   entityUser,
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    formatTime(u.CreatedAt),
	}
}

func (i userItem) toEntity() *entities.User {
	return &entities.User{
		ID:           i.ID,
		Username:     i.Username,
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		CreatedAt:    parseTime(i.CreatedAt),
	}
}

// Timestamps are stored as fixed-width RFC3339 so they sort lexically inside sort keys.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
