package config

// DomainConfig holds the business defaults shared by the journey, chapter and
// note constructors and by the playlist importer.
type DomainConfig struct {
	DefaultJourneyTitle  string
	DefaultForkTitle     string
	ForkTitlePrefix      string
	DefaultChapterTitle  string
	DefaultChapterNo     int
	NoVideoLink          string
	MaxDescriptionLength int
	DescriptionEllipsis  string
	MaxPlaylistItems     int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultJourneyTitle:  "Untitled Journey",
		DefaultForkTitle:     "Untitled",
		ForkTitlePrefix:      "Fork of ",
		DefaultChapterTitle:  "Untitled Chapter",
		DefaultChapterNo:     1,
		NoVideoLink:          "no video",
		MaxDescriptionLength: 150,
		DescriptionEllipsis:  "...",
		MaxPlaylistItems:     50,
	}
}
