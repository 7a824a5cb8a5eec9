package ports

import (
	"context"

	"github.com/bnema/chat-distiller/internal/domain"
)

type ChatRepository interface {
	// Save writes the archive and its metadata and returns the chat directory.
	Save(ctx context.Context, record domain.ChatRecord, archive domain.Archive) (string, error)
	GetByShareID(ctx context.Context, id domain.ShareID) (domain.ChatRecord, error)
	List(ctx context.Context) ([]domain.ChatRecord, error)
}
