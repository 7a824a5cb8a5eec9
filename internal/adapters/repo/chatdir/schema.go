package chatdir

import (
	"fmt"
	"time"

	"github.com/bnema/chat-distiller/internal/domain"
)

const currentSchemaVersion = 1

type metadataSchema struct {
	Version       int    `toml:"version"`
	ShareURL      string `toml:"share_url"`
	ShareID       string `toml:"share_id"`
	ChatTitle     string `toml:"chat_title"`
	StoredAt      string `toml:"stored_at"`
	LastUpdatedAt string `toml:"last_updated_at"`
	MessageCount  int    `toml:"message_count"`
}

func (s *metadataSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s metadataSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported chat metadata schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(record domain.ChatRecord) metadataSchema {
	return metadataSchema{
		Version:       currentSchemaVersion,
		ShareURL:      record.ShareURL,
		ShareID:       string(record.ShareID),
		ChatTitle:     record.Title,
		StoredAt:      formatTime(record.StoredAt),
		LastUpdatedAt: formatTime(record.LastUpdatedAt),
		MessageCount:  record.MessageCount,
	}
}

func fromSchema(s metadataSchema) domain.ChatRecord {
	return domain.ChatRecord{
		ShareURL:      s.ShareURL,
		ShareID:       domain.ShareID(s.ShareID),
		Title:         s.ChatTitle,
		StoredAt:      parseTime(s.StoredAt),
		LastUpdatedAt: parseTime(s.LastUpdatedAt),
		MessageCount:  s.MessageCount,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
