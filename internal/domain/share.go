package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	shareSchemePattern = regexp.MustCompile(`(?i)^https?://`)
	shareIDPattern     = regexp.MustCompile(`/share/([A-Za-z0-9_-]+)`)
	titleInvalidChars  = regexp.MustCompile(`[^a-z0-9_]`)
	titleUnderscores   = regexp.MustCompile(`_+`)
)

var shareHosts = []string{"chat.openai.com/share/", "chatgpt.com/share/"}

type ShareID string

// ShortID is the prefix used to disambiguate directory names.
func (id ShareID) ShortID() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// ValidateShareURL checks that url points at a public share page.
func ValidateShareURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidShareURL)
	}
	if !shareSchemePattern.MatchString(url) {
		return fmt.Errorf("%w: must start with http:// or https://", ErrInvalidShareURL)
	}
	for _, host := range shareHosts {
		if strings.Contains(url, host) {
			return nil
		}
	}

	return fmt.Errorf("%w: expected a public ChatGPT share URL", ErrInvalidShareURL)
}

// ParseShareID extracts the id segment following /share/.
func ParseShareID(url string) (ShareID, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidShareURL)
	}

	m := shareIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: could not extract share id", ErrInvalidShareURL)
	}

	return ShareID(m[1]), nil
}

// SanitizeTitle turns a page title into a directory-safe slug.
func SanitizeTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "_")
	s = titleInvalidChars.ReplaceAllString(s, "")
	s = titleUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ChatTitle picks the stored directory name for a share: the sanitised page title,
// or chat_<short id> when the title is missing or sanitises to nothing.
func ChatTitle(id ShareID, pageTitle string) string {
	if sanitized := SanitizeTitle(pageTitle); sanitized != "" {
		return sanitized
	}
	return "chat_" + id.ShortID()
}

// ChatRecord is the metadata kept next to a stored archive.
type ChatRecord struct {
	ShareURL      string
	ShareID       ShareID
	Title         string
	StoredAt      time.Time
	LastUpdatedAt time.Time
	MessageCount  int
}
