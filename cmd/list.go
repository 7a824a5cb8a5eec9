package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/chat-distiller/internal/adapters/render/summary"
	"github.com/bnema/chat-distiller/internal/domain"
)

func newListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored chats, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := app.service.ListChats(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				data, err := encodeJSON(chatListJSON(records))
				if err != nil {
					return fmt.Errorf("encode chats: %w", err)
				}
				return writeOutput(cmd, stdioPath, data)
			}

			rendered, err := app.chatsRenderer(records, summary.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render chats: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

type chatJSON struct {
	Title         string `json:"chat_title"`
	ShareID       string `json:"share_id"`
	ShareURL      string `json:"share_url"`
	MessageCount  int    `json:"message_count"`
	StoredAt      string `json:"stored_at,omitempty"`
	LastUpdatedAt string `json:"last_updated_at,omitempty"`
}

func chatListJSON(records []domain.ChatRecord) []chatJSON {
	chats := make([]chatJSON, 0, len(records))
	for _, record := range records {
		chats = append(chats, chatJSON{
			Title:         record.Title,
			ShareID:       string(record.ShareID),
			ShareURL:      record.ShareURL,
			MessageCount:  record.MessageCount,
			StoredAt:      formatRFC3339(record.StoredAt),
			LastUpdatedAt: formatRFC3339(record.LastUpdatedAt),
		})
	}
	return chats
}

func formatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
