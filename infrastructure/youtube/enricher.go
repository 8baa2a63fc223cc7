package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"edutube/application/ports"
)

var (
	// ErrNoVideo is returned for chapters without a usable video reference.
	ErrNoVideo = errors.New("no video reference")
	// ErrNoContent is returned when the catalog has nothing to derive from.
	ErrNoContent = errors.New("video has no derivable content")
)

// TranscriptEnricher derives supplementary text for a chapter's video. Online
// it uses the full video description from the catalog; offline it produces a
// fixed placeholder so imports stay deterministic.
type TranscriptEnricher struct {
	client *Client
}

// NewTranscriptEnricher creates an enricher sharing client's key, breaker and cache.
func NewTranscriptEnricher(client *Client) *TranscriptEnricher {
	return &TranscriptEnricher{client: client}
}

// Enrich returns derived text for videoLink.
func (e *TranscriptEnricher) Enrich(ctx context.Context, videoLink string) (string, error) {
	videoID, err := VideoID(videoLink)
	if err != nil {
		return "", err
	}

	if e.client.Offline() {
		return fmt.Sprintf("Transcript for video %s is not available in offline mode.", videoID), nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var resp listResponse
	if err := e.client.get(ctx, "videos", params, "Video not found", &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("video %s: %w", videoID, ErrNoContent)
	}

	text := strings.TrimSpace(resp.Items[0].Snippet.Description)
	if text == "" {
		return "", fmt.Errorf("video %s: %w", videoID, ErrNoContent)
	}
	return text, nil
}

// VideoID extracts the video id from a watch URL or a youtu.be short link.
func VideoID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" || link == "no video" {
		return "", ErrNoVideo
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%q: %w", link, ErrNoVideo)
	}

	if strings.HasSuffix(u.Hostname(), "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	if strings.HasPrefix(u.Path, "/embed/") {
		if id := strings.TrimPrefix(u.Path, "/embed/"); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%q: %w", link, ErrNoVideo)
}

var _ ports.ContentEnricher = (*TranscriptEnricher)(nil)
