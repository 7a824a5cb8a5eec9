package application

import (
	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/extract"
)

// Transcript is the result of distilling one share page.
type Transcript struct {
	ShareURL  string
	ShareID   domain.ShareID
	PageTitle string
	Strategy  extract.Strategy
	// Total is the message count before any tail was applied.
	Total    int
	Messages []domain.Message
}

// Title is the name the transcript is stored under when it has no stored record yet.
func (t Transcript) Title() string {
	return domain.ChatTitle(t.ShareID, t.PageTitle)
}

type StoreResult struct {
	Dir     string
	Record  domain.ChatRecord
	Created bool
}
